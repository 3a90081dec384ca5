// Package middleware provides HTTP middleware for the rental API.
package middleware

import (
	"github.com/labstack/echo/v4"

	utils "github.com/shadyhoon/RentEase/pkg/context"
)

// TestAuth middleware extracts user identity from headers when auth is disabled.
// This allows testing the API without a real JWT auth system.
// Headers:
//   - X-User-ID: The user ID
//   - X-User-Email: The user email
//   - X-User-Role: The user role (tenant or landlord)
//
// WARNING: Only use this when AUTH_ENABLED=false. Do not enable in production.
func TestAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			userID := c.Request().Header.Get("X-User-ID")
			if userID != "" {
				ctx = utils.SetUserID(ctx, userID)
			}

			email := c.Request().Header.Get("X-User-Email")
			if email != "" {
				ctx = utils.SetUserEmail(ctx, email)
			}

			role := c.Request().Header.Get("X-User-Role")
			if role != "" {
				ctx = utils.SetUserRole(ctx, role)
			}

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
