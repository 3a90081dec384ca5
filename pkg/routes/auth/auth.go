package auth

import (
	"net/http"

	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	authsvc "github.com/shadyhoon/RentEase/pkg/auth"
	"github.com/shadyhoon/RentEase/pkg/tracing"
	"github.com/shadyhoon/RentEase/pkg/utils"
)

// Register registers the auth routes
func Register(g *echo.Group) {
	g.POST("/register", RegisterUser)
	g.POST("/login", Login)
}

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=tenant landlord"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is the response for a successful register or login
type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toResponse(session *authsvc.Session) *SessionResponse {
	return &SessionResponse{
		Token: session.Token,
		User: UserResponse{
			ID:    session.User.ID,
			Name:  session.User.Name,
			Email: session.User.Email,
			Role:  string(session.User.Role),
		},
	}
}

// RegisterUser handles POST /api/auth/register
func RegisterUser(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AuthHandler.Register")
	defer span.End()

	req, err := utils.BindRequest[RegisterRequest](c)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*authsvc.Service](ctx)
	if err != nil {
		return err
	}

	session, err := svc.Register(ctx, authsvc.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toResponse(session))
}

// Login handles POST /api/auth/login
func Login(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AuthHandler.Login")
	defer span.End()

	req, err := utils.BindRequest[LoginRequest](c)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*authsvc.Service](ctx)
	if err != nil {
		return err
	}

	session, err := svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toResponse(session))
}
