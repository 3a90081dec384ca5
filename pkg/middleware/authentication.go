package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	utils "github.com/shadyhoon/RentEase/pkg/context"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

// UserClaims is the JWT payload issued at login.
type UserClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

func Authentication(logger ectologger.Logger, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			ctx, span := tracing.StartSpan(ctx, "middleware.Authentication")
			defer span.End()

			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				logger.WithContext(ctx).Warn("request is missing bearer token")
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer")
			}

			raw := strings.TrimPrefix(auth, "Bearer ")

			var claims UserClaims
			token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.WithContext(ctx).WithError(err).Warn("token is invalid")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx = utils.SetUserID(ctx, claims.ID)
			ctx = utils.SetUserEmail(ctx, claims.Email)
			ctx = utils.SetUserRole(ctx, claims.Role)
			ctx = utils.SetUserName(ctx, claims.Name)

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
