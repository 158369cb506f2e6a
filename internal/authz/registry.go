package authz

import (
	"strings"

	"github.com/spec-kit/maintenance-report-service/internal/config"
	"github.com/spec-kit/maintenance-report-service/internal/domain"
)

// Registry maps email addresses to elevated roles. It is consulted only when
// an account signs in for the first time; an already persisted role always
// wins over the registry on later sessions.
type Registry struct {
	admins      map[string]struct{}
	technicians map[string]struct{}
}

// NewRegistry builds the registry from configured whitelists.
func NewRegistry(cfg config.RolesConfig) *Registry {
	registry := &Registry{
		admins:      make(map[string]struct{}, len(cfg.AdminEmails)),
		technicians: make(map[string]struct{}, len(cfg.TechnicianEmails)),
	}
	for _, email := range cfg.AdminEmails {
		registry.admins[normalizeEmail(email)] = struct{}{}
	}
	for _, email := range cfg.TechnicianEmails {
		registry.technicians[normalizeEmail(email)] = struct{}{}
	}
	return registry
}

// RoleFor resolves the role for an email. Admin membership takes precedence
// over technician membership; anything else is a plain user.
func (r *Registry) RoleFor(email string) domain.Role {
	normalized := normalizeEmail(email)
	if _, ok := r.admins[normalized]; ok {
		return domain.RoleAdmin
	}
	if _, ok := r.technicians[normalized]; ok {
		return domain.RoleTechnician
	}
	return domain.RoleUser
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
