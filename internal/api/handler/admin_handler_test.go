package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
)

func TestAdminListUsers(t *testing.T) {
	auth := &stubAuthService{users: []domain.Principal{
		{ID: "1", Email: "alice@example.com", FullName: "Alice", Role: domain.RoleUser},
		{ID: "2", Email: "bob@example.com", FullName: "Bob", Role: domain.RoleUser},
	}}
	tokens := newStubTokens()
	tokens.accept("admin-token", "root@example.com", domain.RoleSuperAdmin)
	e := newTestApp(auth, tokens)

	rec := doJSON(e, http.MethodGet, "/admin/users", "", "admin-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var users []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if _, leaked := users[0]["hashed_password"]; leaked {
		t.Fatalf("password hash leaked in listing")
	}
}

func TestAdminRoutes_RBAC(t *testing.T) {
	tokens := newStubTokens()
	tokens.accept("user-token", "alice@example.com", domain.RoleUser)
	tokens.accept("tester-token", "qa@example.com", domain.RoleTester)
	tokens.accept("admin-token", "admin@example.com", domain.RoleAdmin)
	e := newTestApp(&stubAuthService{}, tokens)

	for _, token := range []string{"user-token", "tester-token"} {
		rec := doJSON(e, http.MethodGet, "/admin/users", "", token)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("token %s: status = %d, want 403", token, rec.Code)
		}
	}

	// The plain admin role is in the allowed set too.
	rec := doJSON(e, http.MethodGet, "/admin/users", "", "admin-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list: status = %d, want 200", rec.Code)
	}

	// Unauthenticated callers never reach the role check.
	rec = doJSON(e, http.MethodGet, "/admin/users", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: status = %d, want 401", rec.Code)
	}
}

func TestAdminDeleteUser(t *testing.T) {
	auth := &stubAuthService{}
	tokens := newStubTokens()
	tokens.accept("admin-token", "root@example.com", domain.RoleSuperAdmin)
	e := newTestApp(auth, tokens)

	rec := doJSON(e, http.MethodDelete, "/admin/users/66b1f0a2c9e77a0012345678", "", "admin-token")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if auth.deletedID != "66b1f0a2c9e77a0012345678" {
		t.Fatalf("handler deleted %q", auth.deletedID)
	}
}

func TestAdminDeleteUser_NotFound(t *testing.T) {
	auth := &stubAuthService{deleteErr: domain.ErrPrincipalNotFound}
	tokens := newStubTokens()
	tokens.accept("admin-token", "root@example.com", domain.RoleSuperAdmin)
	e := newTestApp(auth, tokens)

	rec := doJSON(e, http.MethodDelete, "/admin/users/unknown", "", "admin-token")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
