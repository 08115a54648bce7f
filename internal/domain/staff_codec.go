package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

// NormalizeStaff turns untrusted decoded JSON into a complete staff patch.
// Every field is set; missing values take their defaults. Used for create.
func NormalizeStaff(raw any) (StaffPatch, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return StaffPatch{}, invalidStaff()
	}
	return normalize(obj, func(string) bool { return true })
}

// NormalizeStaffPatch normalizes only the keys present in raw, leaving the
// rest unset so they survive a merge. Used for update.
func NormalizeStaffPatch(raw any) (StaffPatch, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return StaffPatch{}, invalidStaff()
	}
	return normalize(obj, func(key string) bool {
		_, present := obj[key]
		return present
	})
}

func normalize(obj map[string]any, include func(key string) bool) (StaffPatch, error) {
	var p StaffPatch

	if include("name") {
		name := trimmedString(obj["name"])
		if name == "" {
			return StaffPatch{}, apperrors.NewValidationError(apperrors.CodeNameRequired, "name is required")
		}
		p.Name = setField(name)
	}
	if include("area") {
		p.Area = setField(trimmedString(obj["area"]))
	}
	if include("highlight") {
		p.Highlight = setField(trimmedString(obj["highlight"]))
	}
	if include("bio") {
		p.Bio = setField(trimmedString(obj["bio"]))
	}
	if include("avatarUrl") {
		p.AvatarURL = setField(trimmedString(obj["avatarUrl"]))
	}
	if include("years") {
		years, ok := coerceInt(obj["years"])
		if !ok || years < 0 || years > MaxYears {
			years = 0
		}
		p.Years = setField(years)
	}
	if include("sortOrder") {
		order, ok := coerceInt(obj["sortOrder"])
		if !ok {
			order = 0
		}
		p.SortOrder = setField(order)
	}
	if include("status") {
		p.Status = setField(normalizeStatus(obj["status"]))
	}
	if include("skills") {
		p.Skills = setField(NormalizeSkills(obj["skills"]))
	}
	if include("avatarData") {
		var avatar *string
		if s, ok := obj["avatarData"].(string); ok {
			if len(s) > MaxAvatarDataLength {
				return StaffPatch{}, apperrors.NewValidationError(apperrors.CodeAvatarTooLarge, "avatar data too large")
			}
			avatar = &s
		}
		p.AvatarData = setField(avatar)
	}
	return p, nil
}

// NormalizeSkills keeps trimmed non-empty strings, at most MaxSkills of them.
// A non-array yields an empty list.
func NormalizeSkills(raw any) []string {
	out := []string{}
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i := range v {
			items[i] = v[i]
		}
	default:
		return out
	}
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == MaxSkills {
			break
		}
	}
	return out
}

func normalizeStatus(raw any) StaffStatus {
	if s, ok := raw.(string); ok && s == string(StaffStatusBusy) {
		return StaffStatusBusy
	}
	return StaffStatusAvailable
}

func trimmedString(raw any) string {
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// coerceInt accepts numbers (truncated toward zero) and strings with a
// leading integer such as "12" or " 7 years". Anything else fails.
func coerceInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return floatToInt(v)
	case int:
		return v, true
	case int64:
		return floatToInt(float64(v))
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return floatToInt(float64(n))
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case string:
		return parseLeadingInt(v)
	}
	return 0, false
}

// Values beyond ±2^53 are not exactly representable in JSON clients.
const maxSafeInteger = 1<<53 - 1

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f > maxSafeInteger || f < -maxSafeInteger {
		return 0, false
	}
	return int(f), true
}

func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return floatToInt(float64(n))
}

func invalidStaff() error {
	return apperrors.NewValidationError(apperrors.CodeInvalidStaff, "staff payload must be an object")
}
