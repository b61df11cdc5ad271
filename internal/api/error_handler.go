package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusvote/election-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// limitErrorResponse extends the envelope with the counts behind a rejected
// enrollment so clients can tell the student how many slots remain.
type limitErrorResponse struct {
	Error     string `json:"error"`
	Current   int    `json:"current"`
	Requested int    `json:"requested"`
	Max       int    `json:"max"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var le *domain.LimitExceededError
	if errors.As(err, &le) {
		return http.StatusBadRequest, limitErrorResponse{
			Error:     fmt.Sprintf("you can join at most %d clubs", le.Max),
			Current:   le.Current,
			Requested: le.Requested,
			Max:       le.Max,
		}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrVoterNotFound):
		return http.StatusNotFound, errorResponse{Error: "student not found"}
	case errors.Is(err, domain.ErrCandidateNotFound):
		return http.StatusNotFound, errorResponse{Error: "candidate not found"}
	case errors.Is(err, domain.ErrClubNotFound):
		return http.StatusNotFound, errorResponse{Error: "club not found"}
	case errors.Is(err, domain.ErrAlreadyVoted):
		return http.StatusBadRequest, errorResponse{Error: "you have already voted"}
	case errors.Is(err, domain.ErrLimitExceeded):
		return http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("you can join at most %d clubs", domain.MaxClubs)}
	case errors.Is(err, domain.ErrInvalidID), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrWriteConflict):
		return http.StatusConflict, errorResponse{Error: "request conflicted with a concurrent update, please retry"}
	case errors.Is(err, domain.ErrVoterExists),
		errors.Is(err, domain.ErrCandidateExists),
		errors.Is(err, domain.ErrClubExists),
		errors.Is(err, domain.ErrCandidateHasBallots):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
