package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	utils "github.com/shadyhoon/RentEase/pkg/context"
)

// RequireRole rejects requests whose authenticated role is not in the allowed set.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := utils.GetUserRole(c.Request().Context())
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}
			return next(c)
		}
	}
}
