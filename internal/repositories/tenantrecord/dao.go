package tenantrecord

import (
	"database/sql"
	"time"

	"github.com/shadyhoon/RentEase/pkg/database"
	"github.com/shadyhoon/RentEase/pkg/models"
)

const (
	tenantRecordsTable = "tenant_records"
)

// TenantRecordRow represents the database row for a tenant record
type TenantRecordRow struct {
	ID              sql.NullString  `db:"id"`
	LandlordID      sql.NullString  `db:"landlord_id"`
	Name            sql.NullString  `db:"name"`
	Email           sql.NullString  `db:"email"`
	PropertyAddress sql.NullString  `db:"property_address"`
	RentAmount      sql.NullFloat64 `db:"rent_amount"`
	IsActive        sql.NullBool    `db:"is_active"`
	CreatedAt       sql.NullTime    `db:"created_at"`
	UpdatedAt       sql.NullTime    `db:"updated_at"`
}

var tenantRecordStruct = database.NewStruct(new(TenantRecordRow))

// FromTenantRecord converts a domain model to a database row
func FromTenantRecord(t *models.TenantRecord) *TenantRecordRow {
	return &TenantRecordRow{
		ID:              sql.NullString{String: t.ID, Valid: t.ID != ""},
		LandlordID:      sql.NullString{String: t.LandlordID, Valid: t.LandlordID != ""},
		Name:            sql.NullString{String: t.Name, Valid: t.Name != ""},
		Email:           sql.NullString{String: t.Email, Valid: t.Email != ""},
		PropertyAddress: sql.NullString{String: t.PropertyAddress, Valid: t.PropertyAddress != ""},
		RentAmount:      sql.NullFloat64{Float64: t.RentAmount, Valid: true},
		IsActive:        sql.NullBool{Bool: t.IsActive, Valid: true},
		CreatedAt:       sql.NullTime{Time: t.CreatedAt, Valid: !t.CreatedAt.IsZero()},
		UpdatedAt:       sql.NullTime{Time: t.UpdatedAt, Valid: !t.UpdatedAt.IsZero()},
	}
}

// ToTenantRecord converts a database row to a domain model
func ToTenantRecord(row *TenantRecordRow) *models.TenantRecord {
	return &models.TenantRecord{
		ID:              row.ID.String,
		LandlordID:      row.LandlordID.String,
		Name:            row.Name.String,
		Email:           row.Email.String,
		PropertyAddress: row.PropertyAddress.String,
		RentAmount:      row.RentAmount.Float64,
		IsActive:        row.IsActive.Bool,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}

// ToTenantRecords converts a slice of database rows to domain models
func ToTenantRecords(rows []TenantRecordRow) []*models.TenantRecord {
	records := make([]*models.TenantRecord, len(rows))
	for i, row := range rows {
		records[i] = ToTenantRecord(&row)
	}
	return records
}

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}
