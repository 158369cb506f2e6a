package authz

import (
	"testing"

	"github.com/spec-kit/maintenance-report-service/internal/domain"
)

func TestCapabilityMatrix(t *testing.T) {
	tests := []struct {
		op         Operation
		user       bool
		technician bool
		admin      bool
	}{
		{OpCreateReport, true, true, true},
		{OpReadOwnReports, true, true, true},
		{OpReadAllReports, false, true, true},
		{OpChangeStatus, false, true, true},
		{OpAssign, false, false, true},
		{OpHideReport, false, false, true},
		{OpChangeRole, false, false, true},
		{OpListUsers, false, false, true},
		{OpListTechnicians, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			if got := Can(domain.RoleUser, tt.op); got != tt.user {
				t.Errorf("user: expected %v, got %v", tt.user, got)
			}
			if got := Can(domain.RoleTechnician, tt.op); got != tt.technician {
				t.Errorf("technician: expected %v, got %v", tt.technician, got)
			}
			if got := Can(domain.RoleAdmin, tt.op); got != tt.admin {
				t.Errorf("admin: expected %v, got %v", tt.admin, got)
			}
		})
	}
}

func TestCanUnknownRole(t *testing.T) {
	if Can(domain.Role("superuser"), OpCreateReport) {
		t.Error("unknown role should have no grants")
	}
}

func TestCanChangeRole(t *testing.T) {
	if !CanChangeRole(domain.RoleAdmin, "admin-1", "user-2") {
		t.Error("admin should be able to change another user's role")
	}
	if CanChangeRole(domain.RoleAdmin, "admin-1", "admin-1") {
		t.Error("admin must not change their own role")
	}
	if CanChangeRole(domain.RoleTechnician, "tech-1", "user-2") {
		t.Error("technician must not change roles")
	}
	if CanChangeRole(domain.RoleUser, "user-1", "user-2") {
		t.Error("user must not change roles")
	}
}
