package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/utils/v2"
	"github.com/google/uuid"
)

const sessionLocalKey = "session_id"

// SessionMiddleware makes sure every page request carries a session cookie.
// Unknown or malformed cookies are replaced with a fresh id.
// Public paths (health, metrics, swagger, static) bypass it.
func SessionMiddleware(cookieName string, ttl time.Duration) fiber.Handler {
	publicPrefixes := []string{"/health", "/metrics", "/swagger", "/static"}

	return func(c fiber.Ctx) error {
		path := c.Path()
		for _, prefix := range publicPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		// The id outlives the request as a store key; fiber reuses the request buffer.
		id := utils.CopyString(c.Cookies(cookieName))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		// Refresh on every request so the cookie lives as long as the stored state.
		c.Cookie(&fiber.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(sessionLocalKey, id)

		return c.Next()
	}
}

// SessionID returns the id set by SessionMiddleware, or "" outside of it.
func SessionID(c fiber.Ctx) string {
	id, _ := c.Locals(sessionLocalKey).(string)
	return id
}
