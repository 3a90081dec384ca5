package agreement

import (
	"database/sql"
	"time"

	"github.com/shadyhoon/RentEase/pkg/database"
	"github.com/shadyhoon/RentEase/pkg/models"
)

const (
	agreementsTable = "agreements"
)

// AgreementRow represents the database row for an agreement
type AgreementRow struct {
	ID                      sql.NullString  `db:"id"`
	LandlordID              sql.NullString  `db:"landlord_id"`
	TenantUserID            sql.NullString  `db:"tenant_user_id"`
	TenantName              sql.NullString  `db:"tenant_name"`
	TenantEmail             sql.NullString  `db:"tenant_email"`
	PropertyAddress         sql.NullString  `db:"property_address"`
	RentAmount              sql.NullFloat64 `db:"rent_amount"`
	DurationMonths          sql.NullInt64   `db:"duration_months"`
	Duration                sql.NullInt64   `db:"duration"`
	StartDate               sql.NullTime    `db:"start_date"`
	EndDate                 sql.NullTime    `db:"end_date"`
	Status                  sql.NullString  `db:"status"`
	IsDeleted               sql.NullBool    `db:"is_deleted"`
	SentToTenantAt          sql.NullTime    `db:"sent_to_tenant_at"`
	TenantApprovalTimestamp sql.NullTime    `db:"tenant_approval_timestamp"`
	CreatedAt               sql.NullTime    `db:"created_at"`
	UpdatedAt               sql.NullTime    `db:"updated_at"`
}

var agreementStruct = database.NewStruct(new(AgreementRow))

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// FromAgreement converts a domain model to a database row
func FromAgreement(a *models.Agreement) *AgreementRow {
	return &AgreementRow{
		ID:                      sql.NullString{String: a.ID, Valid: a.ID != ""},
		LandlordID:              sql.NullString{String: a.LandlordID, Valid: a.LandlordID != ""},
		TenantUserID:            sql.NullString{String: a.TenantUserID, Valid: a.TenantUserID != ""},
		TenantName:              sql.NullString{String: a.TenantName, Valid: a.TenantName != ""},
		TenantEmail:             sql.NullString{String: a.TenantEmail, Valid: a.TenantEmail != ""},
		PropertyAddress:         sql.NullString{String: a.PropertyAddress, Valid: a.PropertyAddress != ""},
		RentAmount:              sql.NullFloat64{Float64: a.RentAmount, Valid: true},
		DurationMonths:          sql.NullInt64{Int64: int64(a.DurationMonths), Valid: a.DurationMonths != 0},
		Duration:                sql.NullInt64{Int64: int64(a.Duration), Valid: a.Duration != 0},
		StartDate:               nullTime(a.StartDate),
		EndDate:                 nullTime(a.EndDate),
		Status:                  sql.NullString{String: string(a.Status), Valid: a.Status != ""},
		IsDeleted:               sql.NullBool{Bool: a.IsDeleted, Valid: true},
		SentToTenantAt:          nullTime(a.SentToTenantAt),
		TenantApprovalTimestamp: nullTime(a.TenantApprovalTimestamp),
		CreatedAt:               sql.NullTime{Time: a.CreatedAt, Valid: !a.CreatedAt.IsZero()},
		UpdatedAt:               sql.NullTime{Time: a.UpdatedAt, Valid: !a.UpdatedAt.IsZero()},
	}
}

// ToAgreement converts a database row to a domain model
func ToAgreement(row *AgreementRow) *models.Agreement {
	return &models.Agreement{
		ID:                      row.ID.String,
		LandlordID:              row.LandlordID.String,
		TenantUserID:            row.TenantUserID.String,
		TenantName:              row.TenantName.String,
		TenantEmail:             row.TenantEmail.String,
		PropertyAddress:         row.PropertyAddress.String,
		RentAmount:              row.RentAmount.Float64,
		DurationMonths:          int(row.DurationMonths.Int64),
		Duration:                int(row.Duration.Int64),
		StartDate:               timePtr(row.StartDate),
		EndDate:                 timePtr(row.EndDate),
		Status:                  models.AgreementStatus(row.Status.String),
		IsDeleted:               row.IsDeleted.Bool,
		SentToTenantAt:          timePtr(row.SentToTenantAt),
		TenantApprovalTimestamp: timePtr(row.TenantApprovalTimestamp),
		CreatedAt:               row.CreatedAt.Time,
		UpdatedAt:               row.UpdatedAt.Time,
	}
}

// ToAgreements converts a slice of database rows to domain models
func ToAgreements(rows []AgreementRow) []*models.Agreement {
	agreements := make([]*models.Agreement, len(rows))
	for i, row := range rows {
		agreements[i] = ToAgreement(&row)
	}
	return agreements
}

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}
