package tenantrecord

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

// TenantRecordRepository defines the interface for tenant record data access
type TenantRecordRepository interface {
	Upsert(ctx context.Context, record *models.TenantRecord) (*models.TenantRecord, error)
	ListByLandlord(ctx context.Context, landlordID string) ([]*models.TenantRecord, error)
}

// Repository implements TenantRecordRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new tenant record repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts a tenant record or refreshes the existing row keyed by
// landlord, email and property.
func (r *Repository) Upsert(ctx context.Context, record *models.TenantRecord) (*models.TenantRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "TenantRecordRepository.Upsert")
	defer span.End()

	record.Email = strings.ToLower(strings.TrimSpace(record.Email))
	now := Now()
	record.UpdatedAt = now

	// The update and the fallback insert must see the same state, so both
	// run in one transaction.
	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to begin tenant record transaction")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to save tenant record")
	}
	defer tx.Rollback(ctx)

	ub := database.NewUpdateBuilder()
	ub.Update(tenantRecordsTable)
	ub.Set(
		ub.Assign("name", record.Name),
		ub.Assign("rent_amount", record.RentAmount),
		ub.Assign("is_active", record.IsActive),
		ub.Assign("updated_at", record.UpdatedAt),
	)
	ub.Where(
		ub.Equal("landlord_id", record.LandlordID),
		ub.Equal("email", record.Email),
		ub.Equal("property_address", record.PropertyAddress),
	)

	sql, args := ub.Build()

	result, err := tx.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update tenant record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to save tenant record")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		if err := tx.Commit(ctx); err != nil {
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to save tenant record")
		}
		return record, nil
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = now

	ib := tenantRecordStruct.InsertInto(tenantRecordsTable, FromTenantRecord(record))
	sql, args = ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":          record.ID,
		"landlord_id": record.LandlordID,
		"email":       record.Email,
	}).Debug("Creating tenant record")

	_, err = tx.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create tenant record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to save tenant record")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to save tenant record")
	}

	return record, nil
}

// ListByLandlord retrieves all tenant records for a landlord
func (r *Repository) ListByLandlord(ctx context.Context, landlordID string) ([]*models.TenantRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "TenantRecordRepository.ListByLandlord")
	defer span.End()

	sb := tenantRecordStruct.SelectFrom(tenantRecordsTable)
	sb.Where(sb.Equal("landlord_id", landlordID))
	sb.OrderBy("created_at").Desc()

	sql, args := sb.Build()

	var rows []TenantRecordRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list tenant records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list tenant records")
	}

	return ToTenantRecords(rows), nil
}
