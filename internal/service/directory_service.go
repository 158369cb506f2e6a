package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/maintenance-report-service/internal/auth"
	"github.com/spec-kit/maintenance-report-service/internal/authz"
	"github.com/spec-kit/maintenance-report-service/internal/domain"
	"github.com/spec-kit/maintenance-report-service/internal/events"
	"github.com/spec-kit/maintenance-report-service/internal/observability"
	"github.com/spec-kit/maintenance-report-service/internal/repository"
	apperrors "github.com/spec-kit/maintenance-report-service/pkg/util"
)

// DirectoryService handles the user directory and role management.
type DirectoryService struct {
	users      repository.UserRepository
	cache      RoleCache
	dispatcher events.Dispatcher
}

// DirectoryDependencies bundles collaborators for the directory service.
type DirectoryDependencies struct {
	UserRepo   repository.UserRepository
	Cache      RoleCache
	Dispatcher events.Dispatcher
}

// NewDirectoryService builds the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		users:      deps.UserRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// ListUsers returns every account, newest first.
func (s *DirectoryService) ListUsers(ctx context.Context, session auth.Session) ([]domain.User, error) {
	if !authz.Can(session.Role, authz.OpListUsers) {
		return nil, apperrors.NewForbidden()
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ListTechnicians returns accounts holding the technician role, used to fill
// assignment pickers.
func (s *DirectoryService) ListTechnicians(ctx context.Context, session auth.Session) ([]domain.User, error) {
	if !authz.Can(session.Role, authz.OpListTechnicians) {
		return nil, apperrors.NewForbidden()
	}
	technicians, err := s.users.ListByRole(ctx, domain.RoleTechnician)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return technicians, nil
}

// ChangeRole updates another account's role. Changing one's own role is
// denied even for admins.
func (s *DirectoryService) ChangeRole(ctx context.Context, session auth.Session, targetID string, newRole domain.Role) (*domain.User, error) {
	if !domain.ValidRole(newRole) {
		return nil, apperrors.NewValidationError("unknown role value", []string{"role"})
	}
	if !authz.CanChangeRole(session.Role, session.UserID, targetID) {
		return nil, apperrors.NewForbidden()
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": targetID})
		}
		return nil, apperrors.MapError(err)
	}
	oldRole := target.Role

	if err := s.users.UpdateRole(ctx, targetID, newRole); err != nil {
		return nil, apperrors.MapError(err)
	}
	target.Role = newRole
	target.UpdatedAt = time.Now()

	if s.cache != nil {
		_ = s.cache.DeleteSessionRole(ctx, targetID)
	}

	observability.RecordRoleChange(string(newRole))
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRoleChanged,
			Actor:     sessionActor(session),
			Timestamp: time.Now(),
			Payload: events.UserRoleChangedPayload{
				TargetUserID: targetID,
				OldRole:      oldRole,
				NewRole:      newRole,
			},
		})
	}
	return target, nil
}
