package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/campusvote/election-system/internal/core/domain"
)

func TestRosterHandler_StudentCandidates_HidesTallies(t *testing.T) {
	stub := &stubRosterService{cands: []*domain.Candidate{{ID: "c1", Name: "Alice", VoteCount: 5}}}
	c, rec := newCtx(http.MethodGet, "/api/students/candidates", "", "v1", domain.RoleStudent)

	if err := NewRosterHandler(stub).StudentCandidates(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["id"] != "c1" || resp[0]["name"] != "Alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp[0]["vote_count"]; ok {
		t.Fatal("student view must not expose vote_count")
	}
}

func TestRosterHandler_CreateVoter(t *testing.T) {
	stub := &stubRosterService{}
	body := `{"name":"Ana","email":"ana@school.test","password":"secret123"}`
	c, rec := newCtx(http.MethodPost, "/api/admin/students", body, "a1", domain.RoleAdmin)

	if err := NewRosterHandler(stub).CreateVoter(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if stub.lastInput.Email != "ana@school.test" || stub.lastInput.Password != "secret123" {
		t.Fatalf("unexpected input: %+v", stub.lastInput)
	}
}

func TestRosterHandler_CreateVoter_Validation(t *testing.T) {
	bodies := []string{
		`{"name":"Ana","email":"ana@school.test","password":"short"}`,
		`{"name":"Ana","email":"nope","password":"secret123"}`,
		`{"email":"ana@school.test","password":"secret123"}`,
		`{"name":"Ana","email":"ana@school.test","password":"secret123","role":"teacher"}`,
	}
	for _, body := range bodies {
		c, _ := newCtx(http.MethodPost, "/api/admin/students", body, "a1", domain.RoleAdmin)
		if code := httpCode(NewRosterHandler(&stubRosterService{}).CreateVoter(c)); code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, code)
		}
	}
}

func TestRosterHandler_CreateVoter_Duplicate(t *testing.T) {
	stub := &stubRosterService{err: domain.ErrVoterExists}
	body := `{"name":"Ana","email":"ana@school.test","password":"secret123"}`
	c, _ := newCtx(http.MethodPost, "/api/admin/students", body, "a1", domain.RoleAdmin)

	if err := NewRosterHandler(stub).CreateVoter(c); !errors.Is(err, domain.ErrVoterExists) {
		t.Fatalf("expected ErrVoterExists, got %v", err)
	}
}

func TestRosterHandler_UpdateVoter_UsesPathID(t *testing.T) {
	stub := &stubRosterService{}
	c, rec := newCtx(http.MethodPut, "/api/admin/students/v9", `{"name":"Ana B"}`, "a1", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("v9")

	if err := NewRosterHandler(stub).UpdateVoter(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || stub.lastID != "v9" || stub.lastPatch.Name != "Ana B" {
		t.Fatalf("unexpected call: code=%d id=%s patch=%+v", rec.Code, stub.lastID, stub.lastPatch)
	}
}

func TestRosterHandler_Deletes(t *testing.T) {
	tests := []struct {
		name string
		call func(h *RosterHandler, c echo.Context) error
	}{
		{"voter", (*RosterHandler).DeleteVoter},
		{"candidate", (*RosterHandler).DeleteCandidate},
		{"club", (*RosterHandler).DeleteClub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubRosterService{}
			c, rec := newCtx(http.MethodDelete, "/", "", "a1", domain.RoleAdmin)
			c.SetParamNames("id")
			c.SetParamValues("x1")

			if err := tt.call(NewRosterHandler(stub), c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusNoContent {
				t.Fatalf("expected 204, got %d", rec.Code)
			}
			if stub.lastID != "x1" {
				t.Fatalf("expected id x1, got %q", stub.lastID)
			}
		})
	}
}

func TestRosterHandler_DeleteCandidate_HasBallots(t *testing.T) {
	stub := &stubRosterService{err: domain.ErrCandidateHasBallots}
	c, _ := newCtx(http.MethodDelete, "/", "", "a1", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("c1")

	if err := NewRosterHandler(stub).DeleteCandidate(c); !errors.Is(err, domain.ErrCandidateHasBallots) {
		t.Fatalf("expected ErrCandidateHasBallots, got %v", err)
	}
}

func TestRosterHandler_CreateAndRenameNamed(t *testing.T) {
	stub := &stubRosterService{}
	h := NewRosterHandler(stub)

	c, rec := newCtx(http.MethodPost, "/api/admin/clubs", `{"name":"Chess"}`, "a1", domain.RoleAdmin)
	if err := h.CreateClub(c); err != nil || rec.Code != http.StatusCreated || stub.lastName != "Chess" {
		t.Fatalf("create club: err=%v code=%d name=%q", err, rec.Code, stub.lastName)
	}

	c, rec = newCtx(http.MethodPost, "/api/admin/candidates", `{"name":"Alice"}`, "a1", domain.RoleAdmin)
	if err := h.CreateCandidate(c); err != nil || rec.Code != http.StatusCreated || stub.lastName != "Alice" {
		t.Fatalf("create candidate: err=%v code=%d name=%q", err, rec.Code, stub.lastName)
	}

	c, rec = newCtx(http.MethodPut, "/api/admin/candidates/c1", `{"name":"Alicia"}`, "a1", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("c1")
	if err := h.RenameCandidate(c); err != nil || rec.Code != http.StatusOK || stub.lastID != "c1" || stub.lastName != "Alicia" {
		t.Fatalf("rename candidate: err=%v code=%d id=%q name=%q", err, rec.Code, stub.lastID, stub.lastName)
	}

	c, _ = newCtx(http.MethodPost, "/api/admin/clubs", `{"name":""}`, "a1", domain.RoleAdmin)
	if code := httpCode(h.CreateClub(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty name, got %d", code)
	}
}
