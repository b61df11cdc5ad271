package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/campusvote/election-system/internal/core/domain"
)

func TestAuthHandler_StudentLogin_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, role string) (string, *domain.Voter, error) {
			if email != "ana@school.test" || password != "secret123" || role != domain.RoleStudent {
				t.Fatalf("unexpected args: %s %s %s", email, password, role)
			}
			return "token123", &domain.Voter{ID: "v1", Name: "Ana", Role: role, PasswordHash: "hash"}, nil
		},
	}
	c, rec := newCtx(http.MethodPost, "/api/students/login", `{"email":"ana@school.test","password":"secret123"}`, "", "")

	if err := NewAuthHandler(stub).StudentLogin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	voter, ok := resp["voter"].(map[string]any)
	if !ok || voter["id"] != "v1" {
		t.Fatalf("unexpected voter payload: %+v", resp["voter"])
	}
	if _, leaked := voter["PasswordHash"]; leaked {
		t.Fatal("password hash must not be serialised")
	}
}

func TestAuthHandler_AdminLogin_UsesAdminRole(t *testing.T) {
	var gotRole string
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, role string) (string, *domain.Voter, error) {
			gotRole = role
			return "t", &domain.Voter{ID: "a1"}, nil
		},
	}
	c, _ := newCtx(http.MethodPost, "/api/admin/login", `{"email":"root@school.test","password":"secret123"}`, "", "")

	if err := NewAuthHandler(stub).AdminLogin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotRole != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", gotRole)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, role string) (string, *domain.Voter, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newCtx(http.MethodPost, "/api/students/login", `{"email":"ana@school.test","password":"bad"}`, "", "")

	err := NewAuthHandler(stub).StudentLogin(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, role string) (string, *domain.Voter, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}

	for _, body := range []string{"{", `{"email":"not-an-email","password":"x"}`, `{"email":"ana@school.test"}`} {
		c, _ := newCtx(http.MethodPost, "/api/students/login", body, "", "")
		if code := httpCode(NewAuthHandler(stub).StudentLogin(c)); code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, code)
		}
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	stub := &stubAuthService{
		profileFn: func(ctx context.Context, voterID string) (*domain.Voter, error) {
			return &domain.Voter{ID: voterID, Name: "Ana", SelectedClubs: []string{"k1"}}, nil
		},
	}
	c, rec := newCtx(http.MethodGet, "/api/students/profile", "", "v1", domain.RoleStudent)

	if err := NewAuthHandler(stub).Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp domain.Voter
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "v1" || len(resp.SelectedClubs) != 1 {
		t.Fatalf("unexpected profile: %+v", resp)
	}
}

func TestAuthHandler_Profile_MissingClaims(t *testing.T) {
	c, _ := newCtx(http.MethodGet, "/api/students/profile", "", "", "")
	if code := httpCode(NewAuthHandler(&stubAuthService{}).Profile(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
