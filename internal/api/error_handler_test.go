package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusvote/election-system/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrVoterNotFound, http.StatusNotFound},
		{domain.ErrCandidateNotFound, http.StatusNotFound},
		{domain.ErrClubNotFound, http.StatusNotFound},
		{domain.ErrAlreadyVoted, http.StatusBadRequest},
		{domain.ErrInvalidID, http.StatusBadRequest},
		{fmt.Errorf("%w: %q", domain.ErrInvalidID, "zz"), http.StatusBadRequest},
		{domain.ErrWriteConflict, http.StatusConflict},
		{domain.ErrVoterExists, http.StatusConflict},
		{domain.ErrCandidateExists, http.StatusConflict},
		{domain.ErrClubExists, http.StatusConflict},
		{domain.ErrCandidateHasBallots, http.StatusConflict},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("cast vote: %w", domain.ErrAlreadyVoted), http.StatusBadRequest},
		{echo.NewHTTPError(http.StatusTeapot, "short and stout"), http.StatusTeapot},
		{errors.New("mongo exploded"), http.StatusInternalServerError},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tt.err, c)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["error"] == "" || body["error"] == nil {
				t.Fatalf("expected error message, got %v", body)
			}
		})
	}
}

func TestHTTPErrorHandler_HidesInternalDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("dial tcp 10.0.0.3:27017: refused"), c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error != "internal server error" {
		t.Fatalf("leaked internal error: %q", body.Error)
	}
}

func TestHTTPErrorHandler_LimitExceededCarriesCounts(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	err := fmt.Errorf("join clubs: %w", &domain.LimitExceededError{Current: 2, Requested: 1, Max: 2})
	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body limitErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Current != 2 || body.Requested != 1 || body.Max != 2 || body.Error == "" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrVoterNotFound, c)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected committed status to stand, got %d", rec.Code)
	}
}
