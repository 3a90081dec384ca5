package user

import (
	"context"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/shadyhoon/RentEase/pkg/database"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail returns (nil, nil) when no user has the email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Repository implements UserRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new user repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new user
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "UserRepository.Create")
	defer span.End()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	row := FromUser(user)
	ib := userStruct.InsertInto(usersTable, row)
	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	}).Debug("Creating user")

	_, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create user")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create user")
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "UserRepository.GetByID")
	defer span.End()

	sb := userStruct.SelectFrom(usersTable)
	sb.Where(sb.Equal("id", id))

	sql, args := sb.Build()

	var row UserRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "User not found")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get user")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get user")
	}

	return ToUser(&row), nil
}

// GetByEmail retrieves a user by email. Returns (nil, nil) when not found so
// callers can distinguish "no account" from a query failure.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "UserRepository.GetByEmail")
	defer span.End()

	sb := userStruct.SelectFrom(usersTable)
	sb.Where(sb.Equal("email", strings.ToLower(strings.TrimSpace(email))))

	sql, args := sb.Build()

	var row UserRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get user by email")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get user")
	}

	return ToUser(&row), nil
}
