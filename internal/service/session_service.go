package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-report-service/internal/auth"
	"github.com/spec-kit/maintenance-report-service/internal/authz"
	"github.com/spec-kit/maintenance-report-service/internal/domain"
	"github.com/spec-kit/maintenance-report-service/internal/repository"
)

// RoleCache is a best-effort cache of resolved roles. Failures are ignored;
// the persisted record stays authoritative.
type RoleCache interface {
	GetSessionRole(ctx context.Context, userID string) (domain.Role, bool, error)
	SetSessionRole(ctx context.Context, userID string, role domain.Role, ttl time.Duration) error
	DeleteSessionRole(ctx context.Context, userID string) error
}

// SessionService resolves authenticated principals into sessions. The role
// registry is consulted only when a principal signs in for the first time;
// once a User record exists its persisted role is reused on every later
// session, so registry edits never retroactively change existing accounts.
type SessionService struct {
	users    repository.UserRepository
	registry *authz.Registry
	cache    RoleCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// SessionDependencies bundles the resolver's collaborators.
type SessionDependencies struct {
	UserRepo repository.UserRepository
	Registry *authz.Registry
	Cache    RoleCache
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// NewSessionService builds the service.
func NewSessionService(deps SessionDependencies) *SessionService {
	return &SessionService{
		users:    deps.UserRepo,
		registry: deps.Registry,
		cache:    deps.Cache,
		cacheTTL: deps.CacheTTL,
		logger:   deps.Logger,
	}
}

// Resolve returns the session for a principal, creating the account record on
// first sign-in. A store failure never blocks the session: the caller gets
// role "user" so read-your-own-data paths keep working.
func (s *SessionService) Resolve(ctx context.Context, principal auth.Principal) (auth.Session, error) {
	session := auth.Session{
		UserID:      principal.ID,
		Email:       principal.Email,
		DisplayName: principal.DisplayName,
	}
	if session.DisplayName == "" {
		session.DisplayName = principal.Email
	}

	if s.cache != nil {
		if role, ok, err := s.cache.GetSessionRole(ctx, principal.ID); err == nil && ok {
			session.Role = role
			return session, nil
		}
	}

	user, err := s.users.GetByID(ctx, principal.ID)
	switch {
	case err == nil:
		session.Role = user.Role
	case errors.Is(err, pgx.ErrNoRows):
		role := s.registry.RoleFor(principal.Email)
		created := &domain.User{
			ID:          principal.ID,
			Email:       principal.Email,
			DisplayName: session.DisplayName,
			Role:        role,
		}
		if principal.PhotoURL != "" {
			photo := principal.PhotoURL
			created.PhotoURL = &photo
		}
		if err := s.users.Create(ctx, created); err != nil {
			s.logger.Warn("failed to persist first-session user; degrading to user role",
				zap.String("user_id", principal.ID), zap.Error(err))
			session.Role = domain.RoleUser
			return session, nil
		}
		session.Role = role
	default:
		s.logger.Warn("role lookup failed; degrading to user role",
			zap.String("user_id", principal.ID), zap.Error(err))
		session.Role = domain.RoleUser
		return session, nil
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.SetSessionRole(ctx, principal.ID, session.Role, s.cacheTTL); err != nil {
			s.logger.Debug("session role cache write failed", zap.Error(err))
		}
	}
	return session, nil
}
