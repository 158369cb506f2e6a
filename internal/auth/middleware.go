package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-report-service/internal/domain"
	apperrors "github.com/spec-kit/maintenance-report-service/pkg/util"
)

const sessionKey = "auth_session"

// Session is the resolved caller identity handed to every service call.
// It is built per request; there is no ambient session state.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
	Role        domain.Role
}

// SessionResolver turns a principal into a session, creating the account
// record on first sign-in.
type SessionResolver interface {
	Resolve(ctx context.Context, principal Principal) (Session, error)
}

// AuthMiddleware validates bearer tokens and resolves sessions.
type AuthMiddleware struct {
	tokens   *TokenManager
	resolver SessionResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, resolver SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	principal, err := m.tokens.ParsePrincipal(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	session, err := m.resolver.Resolve(c.UserContext(), principal)
	if err != nil {
		return apperrors.MapError(err)
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

// SessionFromContext retrieves the resolved session.
func SessionFromContext(c *fiber.Ctx) (Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return Session{}, false
	}
	session, ok := val.(Session)
	return session, ok
}
