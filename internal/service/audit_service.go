package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/events"
)

// AuditService writes an audit log line for every directory change and
// admin login.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventStaffCreated, a.handleStaffChanged)
	a.dispatcher.Subscribe(events.EventStaffUpdated, a.handleStaffChanged)
	a.dispatcher.Subscribe(events.EventStaffDeleted, a.handleStaffDeleted)
	a.dispatcher.Subscribe(events.EventAdminLogin, a.handleAdminLogin)
}

func (a *AuditService) handleStaffChanged(_ context.Context, event events.Event) error {
	fields := a.baseFields(event)
	if p, ok := event.Payload.(events.StaffChangedPayload); ok {
		fields = append(fields,
			zap.String("name", p.Name),
			zap.String("status", p.Status),
			zap.Int("sort_order", p.SortOrder),
			zap.String("updated_at", p.UpdatedAt),
		)
	}
	a.logger.Info(string(event.Type), fields...)
	return nil
}

func (a *AuditService) handleStaffDeleted(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type), a.baseFields(event)...)
	return nil
}

func (a *AuditService) handleAdminLogin(_ context.Context, event events.Event) error {
	fields := a.baseFields(event)
	if p, ok := event.Payload.(events.AdminLoginPayload); ok {
		fields = append(fields,
			zap.Bool("success", p.Success),
			zap.Any("device", p.Device),
		)
		if p.Reason != "" {
			fields = append(fields, zap.String("reason", p.Reason))
		}
	}
	a.logger.Info(string(event.Type), fields...)
	return nil
}

func (a *AuditService) baseFields(event events.Event) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Time("at", event.Timestamp),
	}
	if event.StaffID != "" {
		fields = append(fields, zap.String("staff_id", event.StaffID))
	}
	if event.Actor.Role != "" {
		fields = append(fields, zap.String("actor_role", event.Actor.Role))
	}
	if event.Actor.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.Actor.RequestID))
	}
	return fields
}
