package handlers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-directory/internal/events"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

const jsonBodyKey = "json_body"

// RequireJSONBody checks, in order: the declared Content-Length against
// maxBytes, the content type, the actual body length, then JSON syntax. The
// decoded value is stored for the next handler.
func RequireJSONBody(maxBytes int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if declared := c.Request().Header.ContentLength(); declared > maxBytes {
			return apperrors.NewPayloadTooLarge()
		}
		if !strings.Contains(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON) {
			return apperrors.NewBadRequest(apperrors.CodeContentTypeJSON, "content type must be application/json")
		}
		body := c.Body()
		if len(body) > maxBytes {
			return apperrors.NewPayloadTooLarge()
		}
		var raw any
		if err := json.Unmarshal(body, &raw); err != nil {
			return apperrors.NewBadRequest(apperrors.CodeInvalidJSON, "invalid json")
		}
		c.Locals(jsonBodyKey, raw)
		return c.Next()
	}
}

// jsonBody returns the value decoded by RequireJSONBody. JSON null and a
// missing value both come back as nil.
func jsonBody(c *fiber.Ctx) any {
	return c.Locals(jsonBodyKey)
}

// requestContext carries the request's actor into service calls.
func requestContext(c *fiber.Ctx, role string) context.Context {
	actor := events.Actor{Role: role}
	if rid, ok := c.Locals("requestid").(string); ok {
		actor.RequestID = rid
	}
	return events.ContextWithActor(c.UserContext(), actor)
}
