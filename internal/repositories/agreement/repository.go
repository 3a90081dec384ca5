package agreement

import (
	"context"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/shadyhoon/RentEase/pkg/database"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

// AgreementRepository defines the interface for agreement data access
type AgreementRepository interface {
	Create(ctx context.Context, agreement *models.Agreement) (*models.Agreement, error)
	GetByID(ctx context.Context, id string) (*models.Agreement, error)
	Update(ctx context.Context, agreement *models.Agreement) (*models.Agreement, error)
	ListForTenant(ctx context.Context, userID, email string, statuses []models.AgreementStatus, limit int) ([]*models.Agreement, error)
	ListForLandlord(ctx context.Context, landlordID string, limit int) ([]*models.Agreement, error)
}

// Repository implements AgreementRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new agreement repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new agreement
func (r *Repository) Create(ctx context.Context, agreement *models.Agreement) (*models.Agreement, error) {
	ctx, span := tracing.StartSpan(ctx, "AgreementRepository.Create")
	defer span.End()

	if agreement.ID == "" {
		agreement.ID = uuid.New().String()
	}

	now := Now()
	agreement.CreatedAt = now
	agreement.UpdatedAt = now

	row := FromAgreement(agreement)
	ib := agreementStruct.InsertInto(agreementsTable, row)
	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":           agreement.ID,
		"landlord_id":  agreement.LandlordID,
		"tenant_email": agreement.TenantEmail,
	}).Debug("Creating agreement")

	_, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create agreement")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create agreement")
	}

	return agreement, nil
}

// GetByID retrieves an agreement by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Agreement, error) {
	ctx, span := tracing.StartSpan(ctx, "AgreementRepository.GetByID")
	defer span.End()

	sb := agreementStruct.SelectFrom(agreementsTable)
	sb.Where(sb.Equal("id", id))

	sql, args := sb.Build()

	var row AgreementRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "Agreement not found")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get agreement")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get agreement")
	}

	return ToAgreement(&row), nil
}

// Update updates an existing agreement
func (r *Repository) Update(ctx context.Context, agreement *models.Agreement) (*models.Agreement, error) {
	ctx, span := tracing.StartSpan(ctx, "AgreementRepository.Update")
	defer span.End()

	agreement.UpdatedAt = Now()

	ub := agreementStruct.Update(agreementsTable, FromAgreement(agreement))
	ub.Where(ub.Equal("id", agreement.ID))

	sql, args := ub.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":     agreement.ID,
		"status": agreement.Status,
	}).Debug("Updating agreement")

	result, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update agreement")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update agreement")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "Agreement not found")
	}

	return agreement, nil
}

// ListForTenant retrieves agreements addressed to a tenant by user ID or email
func (r *Repository) ListForTenant(ctx context.Context, userID, email string, statuses []models.AgreementStatus, limit int) ([]*models.Agreement, error) {
	ctx, span := tracing.StartSpan(ctx, "AgreementRepository.ListForTenant")
	defer span.End()

	sb := agreementStruct.SelectFrom(agreementsTable)
	sb.Where(
		sb.Or(
			sb.Equal("tenant_user_id", userID),
			sb.Equal("LOWER(tenant_email)", strings.ToLower(strings.TrimSpace(email))),
		),
		sb.Equal("is_deleted", false),
	)
	if len(statuses) > 0 {
		values := ectolinq.Map(statuses, func(s models.AgreementStatus) any { return string(s) })
		sb.Where(sb.In("status", values...))
	}
	sb.OrderBy("updated_at").Desc()
	sb.Limit(limit)

	sql, args := sb.Build()

	var rows []AgreementRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list agreements for tenant")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list agreements")
	}

	return ToAgreements(rows), nil
}

// ListForLandlord retrieves non-deleted agreements owned by a landlord
func (r *Repository) ListForLandlord(ctx context.Context, landlordID string, limit int) ([]*models.Agreement, error) {
	ctx, span := tracing.StartSpan(ctx, "AgreementRepository.ListForLandlord")
	defer span.End()

	sb := agreementStruct.SelectFrom(agreementsTable)
	sb.Where(
		sb.Equal("landlord_id", landlordID),
		sb.Equal("is_deleted", false),
	)
	sb.OrderBy("updated_at").Desc()
	sb.Limit(limit)

	sql, args := sb.Build()

	var rows []AgreementRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list agreements for landlord")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list agreements")
	}

	return ToAgreements(rows), nil
}
