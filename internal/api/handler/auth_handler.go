package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusvote/election-system/internal/core/domain"
	"github.com/campusvote/election-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// StudentLogin authenticates a student and returns a JWT token.
//
// @Summary      Student login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/students/login [post]
func (h *AuthHandler) StudentLogin(c echo.Context) error {
	return h.login(c, domain.RoleStudent)
}

// AdminLogin authenticates an administrator and returns a JWT token.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, domain.RoleAdmin)
}

func (h *AuthHandler) login(c echo.Context, role string) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, voter, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, Voter: voter})
}

// Profile returns the authenticated student's record.
//
// @Summary      Current student profile
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Voter
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/students/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	voterID, _, err := ctxVoter(c)
	if err != nil {
		return err
	}

	voter, err := h.authService.Profile(c.Request().Context(), voterID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, voter)
}
