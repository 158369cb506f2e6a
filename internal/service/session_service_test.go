package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-report-service/internal/auth"
	"github.com/spec-kit/maintenance-report-service/internal/authz"
	"github.com/spec-kit/maintenance-report-service/internal/config"
	"github.com/spec-kit/maintenance-report-service/internal/domain"
	"github.com/spec-kit/maintenance-report-service/internal/persistence"
)

func newTestRegistry() *authz.Registry {
	return authz.NewRegistry(config.RolesConfig{
		AdminEmails:      []string{"a@org.com"},
		TechnicianEmails: []string{"t@org.com"},
	})
}

func newSessionService(repo *fakeUserRepo, cache RoleCache) *SessionService {
	return NewSessionService(SessionDependencies{
		UserRepo: repo,
		Registry: newTestRegistry(),
		Cache:    cache,
		CacheTTL: time.Minute,
		Logger:   zap.NewNop(),
	})
}

func TestResolveFirstSessionPersistsRegistryRole(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  domain.Role
	}{
		{"admin whitelist", "a@org.com", domain.RoleAdmin},
		{"technician whitelist", "t@org.com", domain.RoleTechnician},
		{"unlisted", "u@org.com", domain.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			svc := newSessionService(repo, nil)

			session, err := svc.Resolve(context.Background(), auth.Principal{
				ID:          "uid-1",
				Email:       tt.email,
				DisplayName: "Someone",
			})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if session.Role != tt.want {
				t.Errorf("session role = %s, want %s", session.Role, tt.want)
			}

			stored, err := repo.GetByID(context.Background(), "uid-1")
			if err != nil {
				t.Fatalf("user record not persisted: %v", err)
			}
			if stored.Role != tt.want {
				t.Errorf("persisted role = %s, want %s", stored.Role, tt.want)
			}
		})
	}
}

func TestResolveReusesPersistedRole(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["uid-1"] = &domain.User{
		ID:    "uid-1",
		Email: "a@org.com",
		Role:  domain.RoleUser, // demoted after first sign-in
	}
	svc := newSessionService(repo, nil)

	// Even though a@org.com is on the admin whitelist, the persisted role
	// wins: the registry is consulted only on first sign-in.
	session, err := svc.Resolve(context.Background(), auth.Principal{ID: "uid-1", Email: "a@org.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if session.Role != domain.RoleUser {
		t.Errorf("session role = %s, want user (persisted role must win)", session.Role)
	}
}

func TestResolveLookupFailureDegradesToUser(t *testing.T) {
	repo := newFakeUserRepo()
	repo.failGet = errors.New("connection refused")
	svc := newSessionService(repo, nil)

	session, err := svc.Resolve(context.Background(), auth.Principal{ID: "uid-1", Email: "a@org.com"})
	if err != nil {
		t.Fatalf("Resolve must not propagate store failures, got %v", err)
	}
	if session.Role != domain.RoleUser {
		t.Errorf("degraded session role = %s, want user", session.Role)
	}
}

func TestResolveCreateFailureDegradesToUser(t *testing.T) {
	repo := newFakeUserRepo()
	repo.failNext = errors.New("write failed")
	svc := newSessionService(repo, nil)

	session, err := svc.Resolve(context.Background(), auth.Principal{ID: "uid-1", Email: "a@org.com"})
	if err != nil {
		t.Fatalf("Resolve must not propagate store failures, got %v", err)
	}
	if session.Role != domain.RoleUser {
		t.Errorf("degraded session role = %s, want user", session.Role)
	}
}

func TestResolveEmptyDisplayNameFallsBackToEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newSessionService(repo, nil)

	session, err := svc.Resolve(context.Background(), auth.Principal{ID: "uid-1", Email: "u@org.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if session.DisplayName != "u@org.com" {
		t.Errorf("display name = %q, want email fallback", session.DisplayName)
	}
}

func TestResolveUsesSessionRoleCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := &persistence.Redis{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}
	t.Cleanup(cache.Close)

	repo := newFakeUserRepo()
	svc := newSessionService(repo, cache)

	ctx := context.Background()
	first, err := svc.Resolve(ctx, auth.Principal{ID: "uid-1", Email: "a@org.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first.Role != domain.RoleAdmin {
		t.Fatalf("first session role = %s, want admin", first.Role)
	}

	// A repo outage is invisible while the cache entry is warm.
	repo.failGet = errors.New("connection refused")
	second, err := svc.Resolve(ctx, auth.Principal{ID: "uid-1", Email: "a@org.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if second.Role != domain.RoleAdmin {
		t.Errorf("cached session role = %s, want admin", second.Role)
	}

	// Dropping the cache entry exposes the outage and degrades the role.
	if err := cache.DeleteSessionRole(ctx, "uid-1"); err != nil {
		t.Fatalf("DeleteSessionRole: %v", err)
	}
	third, err := svc.Resolve(ctx, auth.Principal{ID: "uid-1", Email: "a@org.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if third.Role != domain.RoleUser {
		t.Errorf("degraded session role = %s, want user", third.Role)
	}
}
