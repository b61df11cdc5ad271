package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxVoter extracts the identity injected by the Auth middleware. Both the
// voter id and the role must be present; a token that passed signature checks
// without them is unusable, so it is rejected with 401 before any service call.
func ctxVoter(c echo.Context) (voterID, role string, err error) {
	voterID, _ = c.Get("voter_id").(string)
	role, _ = c.Get("role").(string)
	if voterID == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return voterID, role, nil
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
