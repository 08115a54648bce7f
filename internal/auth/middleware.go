package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

const bearerPrefix = "bearer "

var (
	errMissingHeader = errors.New("missing authorization header")
	errNotBearer     = errors.New("authorization scheme is not bearer")
)

// AccessGuard gates admin-only routes on a valid bearer token.
type AccessGuard struct {
	tokens *TokenCodec
	logger *zap.Logger
	now    func() time.Time
}

// NewAccessGuard constructs the guard.
func NewAccessGuard(tokens *TokenCodec, logger *zap.Logger) *AccessGuard {
	return &AccessGuard{tokens: tokens, logger: logger, now: time.Now}
}

// Authorize checks an Authorization header value. Every failure is the same
// unauthorized error; the reason is only logged.
func (g *AccessGuard) Authorize(header string) (*Claims, error) {
	token, err := bearerToken(header)
	if err == nil {
		var claims *Claims
		if claims, err = g.tokens.Verify(token, g.now()); err == nil {
			return claims, nil
		}
	}
	g.logger.Debug("authorization rejected", zap.Error(err))
	return nil, apperrors.NewUnauthorized(err)
}

// Handle enforces authorization on a route group.
func (g *AccessGuard) Handle(c *fiber.Ctx) error {
	claims, err := g.Authorize(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	c.Locals(claimsKey, claims)
	return c.Next()
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", errNotBearer
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", errNotBearer
	}
	return token, nil
}
