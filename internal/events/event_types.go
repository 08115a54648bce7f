package events

import (
	"context"
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffCreated EventType = "staff_created"
	EventStaffUpdated EventType = "staff_updated"
	EventStaffDeleted EventType = "staff_deleted"
	EventAdminLogin   EventType = "admin_login"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role      string `json:"role"`
	RequestID string `json:"request_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	StaffID   string    `json:"staff_id,omitempty"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// StaffChangedPayload is attached to created and updated events.
type StaffChangedPayload struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	SortOrder int    `json:"sort_order"`
	UpdatedAt string `json:"updated_at"`
}

// AdminLoginPayload describes a login attempt.
type AdminLoginPayload struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	Device  Device `json:"device"`
}

// Device is a parsed User-Agent summary.
type Device struct {
	Browser  string `json:"browser,omitempty"`
	Version  string `json:"version,omitempty"`
	OS       string `json:"os,omitempty"`
	Platform string `json:"platform,omitempty"`
	Mobile   bool   `json:"mobile"`
	Bot      bool   `json:"bot"`
}

type actorKey struct{}

// ContextWithActor attaches the acting caller to ctx.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by ContextWithActor, or the zero
// Actor.
func ActorFromContext(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorKey{}).(Actor)
	return actor
}
