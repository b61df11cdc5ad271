package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusvote/election-system/internal/api/metrics"
	"github.com/campusvote/election-system/internal/core/domain"
	"github.com/campusvote/election-system/internal/core/ports"
)

// BallotHandler handles presidential ballots.
type BallotHandler struct {
	service ports.BallotService
}

func NewBallotHandler(service ports.BallotService) *BallotHandler {
	return &BallotHandler{service: service}
}

// Vote handles POST /api/students/vote.
//
// @Summary      Cast the presidential ballot
// @Description  Each student votes at most once. Repeat submissions fail with 400.
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      voteRequest  true  "Chosen candidate"
// @Success      200   {object}  voteResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/students/vote [post]
func (h *BallotHandler) Vote(c echo.Context) error {
	voterID, _, err := ctxVoter(c)
	if err != nil {
		return err
	}

	var req voteRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.BallotsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	receipt, err := h.service.CastVote(c.Request().Context(), voterID, req.CandidateID)
	metrics.BallotsTotal.WithLabelValues(ballotOutcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, voteResponse{
		Message:       "vote recorded",
		CandidateID:   receipt.CandidateID,
		CandidateName: receipt.CandidateName,
	})
}

func ballotOutcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, domain.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, domain.ErrVoterNotFound), errors.Is(err, domain.ErrCandidateNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrWriteConflict):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidID), errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
