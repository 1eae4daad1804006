package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/certverify-labs/certverify/internal/auth"
	"github.com/certverify-labs/certverify/internal/domain"
)

const (
	// LocalUserID is the key to retrieve user_id from context
	LocalUserID = "user_id"
	// LocalUserEmail is the key to retrieve the user's email from context
	LocalUserEmail = "user_email"
	// LocalUserRole is the key to retrieve the user's role from context
	LocalUserRole = "user_role"
)

// AuthDependencies contains dependencies for JWT authentication
type AuthDependencies struct {
	JWTService *auth.JWTService
	Logger     *slog.Logger
}

// Auth creates an authentication middleware using JWT bearer tokens
func Auth(deps AuthDependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return domain.ErrUnauthorized
		}

		claims, err := deps.JWTService.ValidateToken(token)
		if err != nil {
			deps.Logger.Debug("token validation failed", "error", err)
			return domain.ErrUnauthorized
		}

		if claims.UserID == uuid.Nil {
			return domain.ErrUnauthorized
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserEmail, claims.Email)
		c.Locals(LocalUserRole, claims.Role)

		return c.Next()
	}
}

// RequireAdmin restricts a route to admin users. Must be chained after Auth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalUserRole).(domain.Role)
		if !ok {
			return domain.ErrUnauthorized
		}
		if role != domain.RoleAdmin {
			return domain.ErrForbidden
		}
		return c.Next()
	}
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetUserID retrieves the authenticated user id from Fiber context
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(LocalUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}

// GetUserRole retrieves the authenticated user's role from Fiber context
func GetUserRole(c *fiber.Ctx) (domain.Role, error) {
	role, ok := c.Locals(LocalUserRole).(domain.Role)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return role, nil
}
