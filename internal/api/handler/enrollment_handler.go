package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusvote/election-system/internal/api/metrics"
	"github.com/campusvote/election-system/internal/core/domain"
	"github.com/campusvote/election-system/internal/core/ports"
)

// EnrollmentHandler handles club membership requests.
type EnrollmentHandler struct {
	service ports.EnrollmentService
}

func NewEnrollmentHandler(service ports.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// Join handles POST /api/students/clubs.
//
// @Summary      Join clubs
// @Description  All-or-nothing: if the new clubs would push the student past the cap, nothing is joined.
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      joinClubsRequest  true  "Club ids to join"
// @Success      200   {object}  joinClubsResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/students/clubs [post]
func (h *EnrollmentHandler) Join(c echo.Context) error {
	voterID, _, err := ctxVoter(c)
	if err != nil {
		return err
	}

	var req joinClubsRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.EnrollmentsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	result, err := h.service.JoinClubs(c.Request().Context(), voterID, req.ClubIDs)
	metrics.EnrollmentsTotal.WithLabelValues(enrollmentOutcome(result, err)).Inc()
	if err != nil {
		return err
	}

	msg := "clubs joined"
	if result.NoNewClubs {
		msg = "no new clubs to join"
	}
	return c.JSON(http.StatusOK, joinClubsResponse{
		Message:       msg,
		Joined:        nonNil(result.Joined),
		SelectedClubs: nonNil(result.SelectedClubs),
		NoChange:      result.NoNewClubs,
	})
}

func enrollmentOutcome(result *ports.EnrollmentResult, err error) string {
	switch {
	case err == nil && result.NoNewClubs:
		return "no_change"
	case err == nil:
		return "joined"
	case errors.Is(err, domain.ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, domain.ErrVoterNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrWriteConflict):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidID), errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
