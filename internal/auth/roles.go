package auth

import "github.com/gofiber/fiber/v2"

// RoleAdmin is the only role a token can carry and the only one accepted.
const RoleAdmin = "admin"

const claimsKey = "auth_claims"

// ClaimsFromContext returns the claims AccessGuard attached to the request.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok && claims != nil
}
