package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forgepath/forgepath-pbl/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("test-secret", 1)

	tok, err := a.IssueJWT("u1", "explorer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, err := a.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Sub != "u1" || c.Role != "explorer" {
		t.Errorf("claims = %s/%s", c.Sub, c.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewAuthService("secret-a", 1).IssueJWT("u1", "explorer")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewAuthService("secret-b", 1).Parse(tok); err == nil {
		t.Fatal("want error for token signed with another secret")
	}
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("test-secret", 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := SubjectFromContext(r.Context()); got != "u1" {
			t.Errorf("subject = %q", got)
		}
		if got := rbac.RoleFromContext(r.Context()); got != "creator" {
			t.Errorf("role = %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	h := JWTMiddleware(a)(next)

	tok, err := a.IssueJWT("u1", "creator")
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("code = %d, want 204", rec.Code)
	}

	for name, header := range map[string]string{
		"missing": "",
		"basic":   "Basic abc",
		"garbage": "Bearer not-a-jwt",
	} {
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: code = %d, want 401", name, rec.Code)
		}
	}
}
