package authz

import (
	"testing"

	"github.com/spec-kit/maintenance-report-service/internal/config"
	"github.com/spec-kit/maintenance-report-service/internal/domain"
)

func TestRegistryRoleFor(t *testing.T) {
	registry := NewRegistry(config.RolesConfig{
		AdminEmails:      []string{"Head@Org.com", "second@org.com"},
		TechnicianEmails: []string{"tech@org.com", "second@org.com"},
	})

	tests := []struct {
		name  string
		email string
		want  domain.Role
	}{
		{"admin exact", "second@org.com", domain.RoleAdmin},
		{"admin case-insensitive lookup", "head@org.com", domain.RoleAdmin},
		{"admin mixed-case lookup", "HEAD@ORG.COM", domain.RoleAdmin},
		{"technician", "tech@org.com", domain.RoleTechnician},
		{"technician mixed case", "Tech@Org.Com", domain.RoleTechnician},
		{"admin wins over technician", "second@org.com", domain.RoleAdmin},
		{"unlisted email", "someone@org.com", domain.RoleUser},
		{"empty email", "", domain.RoleUser},
		{"whitespace around email", "  tech@org.com  ", domain.RoleTechnician},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := registry.RoleFor(tt.email); got != tt.want {
				t.Errorf("RoleFor(%q) = %s, want %s", tt.email, got, tt.want)
			}
		})
	}
}

func TestRegistryEmpty(t *testing.T) {
	registry := NewRegistry(config.RolesConfig{})
	if got := registry.RoleFor("anyone@org.com"); got != domain.RoleUser {
		t.Errorf("empty registry should yield user role, got %s", got)
	}
}
