package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/certverify-labs/certverify/internal/auth"
	"github.com/certverify-labs/certverify/internal/domain"
)

// LocalBackendUnauthorized is set by handlers whose responses swallow
// per-file backend errors, so a 401 inside a batch still reaches the guard.
const LocalBackendUnauthorized = "backend_unauthorized"

// SessionGuard purges the stored backend session when the verification
// backend rejects our credentials. The next login re-establishes it; stale
// tokens are never retried.
func SessionGuard(store *auth.SessionStore, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		rejected := errors.Is(err, domain.ErrUnauthorized) ||
			c.Locals(LocalBackendUnauthorized) == true
		if rejected && store.Current() != nil {
			logger.Warn("backend rejected session, clearing it",
				slog.String("path", c.Path()),
			)
			store.Clear(c.Context())
		}
		return err
	}
}
