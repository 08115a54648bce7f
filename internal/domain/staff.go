package domain

import "time"

// StaffStatus is the availability shown on a profile.
type StaffStatus string

const (
	StaffStatusAvailable StaffStatus = "available"
	StaffStatusBusy      StaffStatus = "busy"
)

// Limits enforced on staff input.
const (
	MaxSkills           = 16
	MaxYears            = 80
	MaxAvatarDataLength = 1_200_000
	timestampLayout     = "2006-01-02T15:04:05.000Z07:00"
)

// Staff is a directory profile as stored and served.
type Staff struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Area       string      `json:"area"`
	Highlight  string      `json:"highlight"`
	Bio        string      `json:"bio"`
	Skills     []string    `json:"skills"`
	Years      int         `json:"years"`
	SortOrder  int         `json:"sortOrder"`
	Status     StaffStatus `json:"status"`
	AvatarData *string     `json:"avatarData"`
	AvatarURL  string      `json:"avatarUrl"`
	CreatedAt  string      `json:"createdAt"`
	UpdatedAt  string      `json:"updatedAt"`
}

// Field is a normalized value plus whether the caller supplied it.
type Field[T any] struct {
	Value T
	Set   bool
}

func setField[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// StaffPatch is normalized caller input. Server-assigned fields (id,
// timestamps) are never part of it.
type StaffPatch struct {
	Name       Field[string]
	Area       Field[string]
	Highlight  Field[string]
	Bio        Field[string]
	Skills     Field[[]string]
	Years      Field[int]
	SortOrder  Field[int]
	Status     Field[StaffStatus]
	AvatarData Field[*string]
	AvatarURL  Field[string]
}

// Apply merges every set field of p over s.
func (s *Staff) Apply(p StaffPatch) {
	if p.Name.Set {
		s.Name = p.Name.Value
	}
	if p.Area.Set {
		s.Area = p.Area.Value
	}
	if p.Highlight.Set {
		s.Highlight = p.Highlight.Value
	}
	if p.Bio.Set {
		s.Bio = p.Bio.Value
	}
	if p.Skills.Set {
		s.Skills = append([]string{}, p.Skills.Value...)
	}
	if p.Years.Set {
		s.Years = p.Years.Value
	}
	if p.SortOrder.Set {
		s.SortOrder = p.SortOrder.Value
	}
	if p.Status.Set {
		s.Status = p.Status.Value
	}
	if p.AvatarData.Set {
		s.AvatarData = p.AvatarData.Value
	}
	if p.AvatarURL.Set {
		s.AvatarURL = p.AvatarURL.Value
	}
}

// Normalize fills defaults for values missing from older stored records.
func (s *Staff) Normalize() {
	if s.Skills == nil {
		s.Skills = []string{}
	}
	if s.Status != StaffStatusBusy {
		s.Status = StaffStatusAvailable
	}
}

// FormatTimestamp renders t as fixed-width ISO-8601 UTC with milliseconds,
// so string order equals time order.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
