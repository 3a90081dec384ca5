package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	utils "github.com/shadyhoon/RentEase/pkg/context"
)

const testSecret = "test-secret"

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func signedToken(t *testing.T, secret string, claims UserClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runAuthenticated(t *testing.T, authorization string) (*httptest.ResponseRecorder, UserClaims) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen UserClaims
	handler := Authentication(noopLogger(), testSecret)(func(c echo.Context) error {
		ctx := c.Request().Context()
		seen = UserClaims{
			ID:    utils.GetUserID(ctx),
			Email: utils.GetUserEmail(ctx),
			Role:  utils.GetUserRole(ctx),
			Name:  utils.GetUserName(ctx),
		}
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen
}

func TestAuthentication_ValidToken(t *testing.T) {
	token := signedToken(t, testSecret, UserClaims{
		ID:    "u1",
		Email: "tenant@example.com",
		Role:  "tenant",
		Name:  "Asha",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	rec, seen := runAuthenticated(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", seen.ID)
	assert.Equal(t, "tenant@example.com", seen.Email)
	assert.Equal(t, "tenant", seen.Role)
	assert.Equal(t, "Asha", seen.Name)
}

func TestAuthentication_MissingHeader(t *testing.T) {
	rec, _ := runAuthenticated(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthentication_WrongSecret(t *testing.T) {
	token := signedToken(t, "other-secret", UserClaims{ID: "u1"})

	rec, _ := runAuthenticated(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthentication_ExpiredToken(t *testing.T) {
	token := signedToken(t, testSecret, UserClaims{
		ID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	rec, _ := runAuthenticated(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(utils.SetUserRole(req.Context(), role))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireRole("landlord")(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run("landlord"))
	assert.Equal(t, http.StatusForbidden, run("tenant"))
	assert.Equal(t, http.StatusForbidden, run(""))
}
