package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusvote/election-system/internal/core/ports"
)

// RosterHandler serves the candidate and club catalogues to students and the
// full roster administration to admins.
type RosterHandler struct {
	service ports.RosterService
}

func NewRosterHandler(service ports.RosterService) *RosterHandler {
	return &RosterHandler{service: service}
}

// --- Student views ---

// StudentCandidates handles GET /api/students/candidates.
//
// @Summary      List candidates
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   candidateSummary
// @Failure      401  {object}  map[string]string
// @Router       /api/students/candidates [get]
func (h *RosterHandler) StudentCandidates(c echo.Context) error {
	cs, err := h.service.ListCandidates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCandidateSummaries(cs))
}

// ListClubs handles GET /api/students/clubs and GET /api/admin/clubs.
//
// @Summary      List clubs
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Club
// @Failure      401  {object}  map[string]string
// @Router       /api/students/clubs [get]
// @Router       /api/admin/clubs [get]
func (h *RosterHandler) ListClubs(c echo.Context) error {
	clubs, err := h.service.ListClubs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clubs)
}

// --- Voters ---

// CreateVoter handles POST /api/admin/students.
//
// @Summary      Register a voter
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createVoterRequest  true  "Voter details"
// @Success      201   {object}  domain.Voter
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin/students [post]
func (h *RosterHandler) CreateVoter(c echo.Context) error {
	var req createVoterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	v, err := h.service.CreateVoter(c.Request().Context(), ports.CreateVoterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, v)
}

// ListVoters handles GET /api/admin/students.
//
// @Summary      List voters
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Voter
// @Router       /api/admin/students [get]
func (h *RosterHandler) ListVoters(c echo.Context) error {
	vs, err := h.service.ListVoters(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vs)
}

// UpdateVoter handles PUT /api/admin/students/:id.
//
// @Summary      Update a voter's profile
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Voter id"
// @Param        body  body      updateVoterRequest  true  "Fields to change"
// @Success      200   {object}  domain.Voter
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin/students/{id} [put]
func (h *RosterHandler) UpdateVoter(c echo.Context) error {
	var req updateVoterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	v, err := h.service.UpdateVoter(c.Request().Context(), c.Param("id"), ports.VoterUpdate{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// DeleteVoter handles DELETE /api/admin/students/:id.
//
// @Summary      Delete a voter
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Voter id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/admin/students/{id} [delete]
func (h *RosterHandler) DeleteVoter(c echo.Context) error {
	if err := h.service.DeleteVoter(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Candidates ---

// CreateCandidate handles POST /api/admin/candidates.
//
// @Summary      Add a candidate
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      nameRequest  true  "Candidate name"
// @Success      201   {object}  domain.Candidate
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin/candidates [post]
func (h *RosterHandler) CreateCandidate(c echo.Context) error {
	var req nameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cand, err := h.service.CreateCandidate(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cand)
}

// ListCandidates handles GET /api/admin/candidates.
//
// @Summary      List candidates with tallies
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Candidate
// @Router       /api/admin/candidates [get]
func (h *RosterHandler) ListCandidates(c echo.Context) error {
	cs, err := h.service.ListCandidates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cs)
}

// RenameCandidate handles PUT /api/admin/candidates/:id.
//
// @Summary      Rename a candidate
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Candidate id"
// @Param        body  body      nameRequest  true  "New name"
// @Success      200   {object}  domain.Candidate
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin/candidates/{id} [put]
func (h *RosterHandler) RenameCandidate(c echo.Context) error {
	var req nameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cand, err := h.service.RenameCandidate(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cand)
}

// DeleteCandidate handles DELETE /api/admin/candidates/:id.
//
// @Summary      Delete a candidate
// @Description  Refused with 409 while any voter's ballot names the candidate.
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Candidate id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/admin/candidates/{id} [delete]
func (h *RosterHandler) DeleteCandidate(c echo.Context) error {
	if err := h.service.DeleteCandidate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Clubs ---

// CreateClub handles POST /api/admin/clubs.
//
// @Summary      Add a club
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      nameRequest  true  "Club name"
// @Success      201   {object}  domain.Club
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin/clubs [post]
func (h *RosterHandler) CreateClub(c echo.Context) error {
	var req nameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	club, err := h.service.CreateClub(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, club)
}

// RenameClub handles PUT /api/admin/clubs/:id.
//
// @Summary      Rename a club
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Club id"
// @Param        body  body      nameRequest  true  "New name"
// @Success      200   {object}  domain.Club
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin/clubs/{id} [put]
func (h *RosterHandler) RenameClub(c echo.Context) error {
	var req nameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	club, err := h.service.RenameClub(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, club)
}

// DeleteClub handles DELETE /api/admin/clubs/:id.
//
// @Summary      Delete a club
// @Description  Members lose the club from their selection.
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Club id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/admin/clubs/{id} [delete]
func (h *RosterHandler) DeleteClub(c echo.Context) error {
	if err := h.service.DeleteClub(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
