package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/campusvote/election-system/internal/core/domain"
)

// RBAC admits requests whose "role", set by Auth, is one of allowedRoles.
// A request without a role never passed Auth and is rejected as
// unauthenticated. Unknown roles in allowedRoles are a wiring bug and panic.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	for _, r := range allowedRoles {
		if !domain.IsValidRole(r) {
			panic(fmt.Sprintf("rbac: unknown role %q", r))
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
			}
			if !slices.Contains(allowedRoles, role) {
				return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf("role %s may not access this resource", role))
			}
			return next(c)
		}
	}
}
