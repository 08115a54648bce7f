package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/events"
	"github.com/spec-kit/staff-directory/internal/repository"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

// DirectoryService validates staff input, drives the repository and
// translates storage outcomes into API errors.
type DirectoryService struct {
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// DirectoryDependencies bundles collaborators.
type DirectoryDependencies struct {
	StaffRepo  repository.StaffRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{
		staff:      deps.StaffRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// List returns every listed staff record, sorted for display.
func (s *DirectoryService) List(ctx context.Context) ([]domain.Staff, error) {
	items, err := s.staff.List(ctx)
	if err != nil {
		return nil, s.storageError("list staff", err)
	}
	return items, nil
}

// Get returns one record by id.
func (s *DirectoryService) Get(ctx context.Context, id string) (*domain.Staff, error) {
	staff, err := s.staff.Get(ctx, id)
	if err != nil {
		return nil, s.mapError("get staff", id, err)
	}
	return staff, nil
}

// Create normalizes a raw decoded JSON body and stores a new record.
func (s *DirectoryService) Create(ctx context.Context, raw any) (*domain.Staff, error) {
	patch, err := domain.NormalizeStaff(raw)
	if err != nil {
		return nil, err
	}
	staff, err := s.staff.Create(ctx, patch)
	if err != nil {
		return nil, s.storageError("create staff", err)
	}
	s.publish(ctx, events.EventStaffCreated, staff.ID, changedPayload(staff))
	return staff, nil
}

// Update merges the fields present in raw over the stored record.
func (s *DirectoryService) Update(ctx context.Context, id string, raw any) (*domain.Staff, error) {
	patch, err := domain.NormalizeStaffPatch(raw)
	if err != nil {
		return nil, err
	}
	staff, err := s.staff.Update(ctx, id, patch)
	if err != nil {
		return nil, s.mapError("update staff", id, err)
	}
	s.publish(ctx, events.EventStaffUpdated, staff.ID, changedPayload(staff))
	return staff, nil
}

// Delete removes a record and its index entry.
func (s *DirectoryService) Delete(ctx context.Context, id string) error {
	if err := s.staff.Delete(ctx, id); err != nil {
		return s.mapError("delete staff", id, err)
	}
	s.publish(ctx, events.EventStaffDeleted, id, nil)
	return nil
}

func (s *DirectoryService) mapError(op, id string, err error) error {
	if errors.Is(err, repository.ErrStaffNotFound) {
		return apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
	}
	return s.storageError(op, err)
}

func (s *DirectoryService) storageError(op string, err error) error {
	s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
	return apperrors.NewInternalError(err)
}

func (s *DirectoryService) publish(ctx context.Context, eventType events.EventType, staffID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		StaffID:   staffID,
		Actor:     events.ActorFromContext(ctx),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

func changedPayload(staff *domain.Staff) events.StaffChangedPayload {
	return events.StaffChangedPayload{
		Name:      staff.Name,
		Status:    string(staff.Status),
		SortOrder: staff.SortOrder,
		UpdatedAt: staff.UpdatedAt,
	}
}
