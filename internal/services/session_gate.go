package services

import (
	"strings"

	"imageworld/internal/auth"
	"imageworld/types"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

const unauthorizedMessage = "Unauthorized"

// RequireSession resolves the caller's session and hands the identity to the
// next handler through the request locals. Nothing past it runs without one.
func (a *Api) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := a.auth.Resolve(c.UserContext(), a.sessionToken(c))
		if err != nil {
			HttpLogger("session-gate", c).Debug("rejected", "err", err)
			return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
				Error: unauthorizedMessage,
			})
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// SessionIdentity is only set on routes behind RequireSession.
func SessionIdentity(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(identityKey).(auth.Identity)
	return identity, ok
}

func (a *Api) sessionToken(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Cookies(a.session.CookieName)); token != "" {
		return token
	}
	authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if token, ok := strings.CutPrefix(authz, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
