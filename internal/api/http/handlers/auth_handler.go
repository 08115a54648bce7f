package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-directory/internal/api/dto"
	"github.com/spec-kit/staff-directory/internal/service"
)

// AuthHandler exposes the admin login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	req := dto.LoginRequestFrom(jsonBody(c))

	token, exp, err := h.auth.Login(requestContext(c, ""), req.Password, c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Token: token, ExpiresAt: exp})
}
