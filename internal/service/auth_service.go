package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/user_agent"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/auth"
	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/events"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

// AuthService exchanges the shared admin password for a bearer token.
type AuthService struct {
	tokens     *auth.TokenCodec
	password   *auth.AdminPassword
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	Tokens     *auth.TokenCodec
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service from the auth config section.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := deps.Tokens
	if tokens == nil {
		tokens = auth.NewTokenCodec(cfg.TokenSecret)
	}
	return &AuthService{
		tokens:     tokens,
		password:   auth.NewAdminPassword(cfg.AdminPassword, cfg.AdminPasswordHash),
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// TokenCodec exposes the codec so the access guard verifies with the same key.
func (s *AuthService) TokenCodec() *auth.TokenCodec {
	return s.tokens
}

// Login checks password and issues a token. The caller only ever sees
// unauthorized; whether the password was wrong or never configured is logged.
func (s *AuthService) Login(ctx context.Context, password, userAgent string) (string, time.Time, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return "", time.Time{}, apperrors.NewValidationError(apperrors.CodePasswordRequired, "password required")
	}

	if err := s.password.Check(password); err != nil {
		reason := "invalid_password"
		if errors.Is(err, auth.ErrAdminPasswordNotConfigured) {
			reason = "admin_password_not_configured"
		}
		s.logger.Warn("admin login rejected", zap.String("reason", reason))
		s.publishLogin(ctx, userAgent, false, reason)
		return "", time.Time{}, apperrors.NewUnauthorized(err)
	}

	token, expiresAt, err := s.tokens.Issue(s.now())
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	s.publishLogin(ctx, userAgent, true, "")
	return token, expiresAt, nil
}

func (s *AuthService) publishLogin(ctx context.Context, userAgent string, success bool, reason string) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAdminLogin,
		Actor:     events.ActorFromContext(ctx),
		Timestamp: s.now().UTC(),
		Payload: events.AdminLoginPayload{
			Success: success,
			Reason:  reason,
			Device:  ParseDevice(userAgent),
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// ParseDevice summarizes a User-Agent header.
func ParseDevice(header string) events.Device {
	if strings.TrimSpace(header) == "" {
		return events.Device{}
	}
	ua := user_agent.New(header)
	browser, version := ua.Browser()
	return events.Device{
		Browser:  browser,
		Version:  version,
		OS:       ua.OS(),
		Platform: ua.Platform(),
		Mobile:   ua.Mobile(),
		Bot:      ua.Bot(),
	}
}
