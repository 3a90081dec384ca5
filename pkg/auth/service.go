package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	userrepo "github.com/shadyhoon/RentEase/internal/repositories/user"
	"github.com/shadyhoon/RentEase/pkg/metrics"
	"github.com/shadyhoon/RentEase/pkg/middleware"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

const bcryptCost = 10

// RegisterParams are the inputs for creating an account.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Session is a signed token plus the user it authenticates.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Service issues and validates accounts.
type Service struct {
	repo      userrepo.UserRepository
	logger    ectologger.Logger
	jwtSecret string
	jwtExpiry time.Duration
	now       func() time.Time
}

// NewService creates a new auth service
func NewService(repo userrepo.UserRepository, logger ectologger.Logger, jwtSecret string, jwtExpiry time.Duration) *Service {
	return &Service{
		repo:      repo,
		logger:    logger,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register creates a new account and returns a signed session.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*Session, error) {
	ctx, span := tracing.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	name := strings.TrimSpace(params.Name)
	email := strings.ToLower(strings.TrimSpace(params.Email))
	role := models.UserRole(strings.TrimSpace(params.Role))

	if name == "" || email == "" || params.Password == "" || role == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Name, email, password and role are required")
	}
	if role != models.UserRoleTenant && role != models.UserRoleLandlord {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Role must be tenant or landlord")
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcryptCost)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to hash password")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create account")
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// Login verifies credentials and returns a signed session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := tracing.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, httperror.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, httperror.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user *models.User) (*Session, error) {
	now := s.now()
	claims := middleware.UserClaims{
		ID:    user.ID,
		Email: user.Email,
		Role:  string(user.Role),
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to sign token")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create session")
	}

	return &Session{Token: token, User: user}, nil
}
