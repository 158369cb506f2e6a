package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/spec-kit/maintenance-report-service/internal/auth"
	"github.com/spec-kit/maintenance-report-service/internal/domain"
	"github.com/spec-kit/maintenance-report-service/internal/persistence"
	apperrors "github.com/spec-kit/maintenance-report-service/pkg/util"
)

func newDirectoryFixture() (*DirectoryService, *fakeUserRepo) {
	users := newFakeUserRepo()
	users.users["uid-admin"] = &domain.User{ID: "uid-admin", Email: "a@org.com", Role: domain.RoleAdmin}
	users.users["uid-tech"] = &domain.User{ID: "uid-tech", Email: "t@org.com", Role: domain.RoleTechnician}
	users.users["uid-user"] = &domain.User{ID: "uid-user", Email: "u@org.com", Role: domain.RoleUser}
	svc := NewDirectoryService(DirectoryDependencies{UserRepo: users})
	return svc, users
}

func TestListUsersAdminOnly(t *testing.T) {
	svc, _ := newDirectoryFixture()

	users, err := svc.ListUsers(context.Background(), adminSession)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 3 {
		t.Errorf("expected 3 users, got %d", len(users))
	}

	for _, session := range []auth.Session{reporterSession, techSession} {
		if _, err := svc.ListUsers(context.Background(), session); !apperrors.IsCode(err, "FORBIDDEN") {
			t.Errorf("role %s: expected FORBIDDEN, got %v", session.Role, err)
		}
	}
}

func TestListTechnicians(t *testing.T) {
	svc, _ := newDirectoryFixture()

	technicians, err := svc.ListTechnicians(context.Background(), adminSession)
	if err != nil {
		t.Fatalf("ListTechnicians: %v", err)
	}
	if len(technicians) != 1 || technicians[0].ID != "uid-tech" {
		t.Errorf("technicians = %v, want only uid-tech", technicians)
	}
}

func TestChangeRole(t *testing.T) {
	svc, users := newDirectoryFixture()

	updated, err := svc.ChangeRole(context.Background(), adminSession, "uid-user", domain.RoleTechnician)
	if err != nil {
		t.Fatalf("ChangeRole: %v", err)
	}
	if updated.Role != domain.RoleTechnician {
		t.Errorf("role = %s, want technician", updated.Role)
	}
	stored, _ := users.GetByID(context.Background(), "uid-user")
	if stored.Role != domain.RoleTechnician {
		t.Errorf("persisted role = %s, want technician", stored.Role)
	}
}

func TestChangeOwnRoleDeniedEvenForAdmin(t *testing.T) {
	svc, users := newDirectoryFixture()

	_, err := svc.ChangeRole(context.Background(), adminSession, adminSession.UserID, domain.RoleUser)
	if !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	stored, _ := users.GetByID(context.Background(), adminSession.UserID)
	if stored.Role != domain.RoleAdmin {
		t.Errorf("own role mutated despite denial: %s", stored.Role)
	}
}

func TestChangeRoleDeniedForNonAdmins(t *testing.T) {
	svc, users := newDirectoryFixture()

	for _, session := range []auth.Session{reporterSession, techSession} {
		_, err := svc.ChangeRole(context.Background(), session, "uid-user", domain.RoleAdmin)
		if !apperrors.IsCode(err, "FORBIDDEN") {
			t.Errorf("role %s: expected FORBIDDEN, got %v", session.Role, err)
		}
	}
	stored, _ := users.GetByID(context.Background(), "uid-user")
	if stored.Role != domain.RoleUser {
		t.Errorf("record mutated despite denial: %s", stored.Role)
	}
}

func TestChangeRoleUnknownValue(t *testing.T) {
	svc, _ := newDirectoryFixture()

	_, err := svc.ChangeRole(context.Background(), adminSession, "uid-user", domain.Role("owner"))
	if !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestChangeRoleUnknownUser(t *testing.T) {
	svc, _ := newDirectoryFixture()

	_, err := svc.ChangeRole(context.Background(), adminSession, "uid-ghost", domain.RoleAdmin)
	if !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestChangeRoleInvalidatesSessionCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := &persistence.Redis{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}
	t.Cleanup(cache.Close)

	users := newFakeUserRepo()
	users.users["uid-admin"] = &domain.User{ID: "uid-admin", Email: "a@org.com", Role: domain.RoleAdmin}
	users.users["uid-user"] = &domain.User{ID: "uid-user", Email: "u@org.com", Role: domain.RoleUser}
	svc := NewDirectoryService(DirectoryDependencies{UserRepo: users, Cache: cache})

	ctx := context.Background()
	if err := cache.SetSessionRole(ctx, "uid-user", domain.RoleUser, 0); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	if _, err := svc.ChangeRole(ctx, adminSession, "uid-user", domain.RoleTechnician); err != nil {
		t.Fatalf("ChangeRole: %v", err)
	}

	if _, ok, err := cache.GetSessionRole(ctx, "uid-user"); err != nil {
		t.Fatalf("GetSessionRole: %v", err)
	} else if ok {
		t.Error("stale cached role survived the role change")
	}
}
