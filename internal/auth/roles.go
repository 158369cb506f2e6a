package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-report-service/internal/domain"
	apperrors "github.com/spec-kit/maintenance-report-service/pkg/util"
)

// RequireRole ensures the session holds one of the allowed roles. With no
// arguments it only checks that a session exists.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[session.Role]; !exists {
			return apperrors.NewForbidden()
		}
		return c.Next()
	}
}
