package models

import "time"

// AgreementStatus is the lifecycle state of a rental agreement.
type AgreementStatus string

const (
	AgreementStatusDraft        AgreementStatus = "draft"
	AgreementStatusSentToTenant AgreementStatus = "sent_to_tenant"
	AgreementStatusApproved     AgreementStatus = "approved"
	AgreementStatusSigned       AgreementStatus = "signed"
	AgreementStatusExpired      AgreementStatus = "expired"
	AgreementStatusDeleted      AgreementStatus = "deleted"
)

// Agreement represents a rental agreement between a landlord and a tenant.
// The tenant may not have an account yet, in which case TenantUserID is empty
// and the tenant is matched by email.
type Agreement struct {
	ID              string  `db:"id" json:"id"`
	LandlordID      string  `db:"landlord_id" json:"landlord_id"`
	TenantUserID    string  `db:"tenant_user_id" json:"tenant_user_id,omitempty"`
	TenantName      string  `db:"tenant_name" json:"tenant_name"`
	TenantEmail     string  `db:"tenant_email" json:"tenant_email"`
	PropertyAddress string  `db:"property_address" json:"property_address"`
	RentAmount      float64 `db:"rent_amount" json:"rent_amount"`
	// DurationMonths is the agreement length. Duration is the legacy column kept
	// for rows written before the rename; DurationMonths wins when both are set.
	DurationMonths          int             `db:"duration_months" json:"duration_months"`
	Duration                int             `db:"duration" json:"duration,omitempty"`
	StartDate               *time.Time      `db:"start_date" json:"start_date,omitempty"`
	EndDate                 *time.Time      `db:"end_date" json:"end_date,omitempty"`
	Status                  AgreementStatus `db:"status" json:"status"`
	IsDeleted               bool            `db:"is_deleted" json:"is_deleted"`
	SentToTenantAt          *time.Time      `db:"sent_to_tenant_at" json:"sent_to_tenant_at,omitempty"`
	TenantApprovalTimestamp *time.Time      `db:"tenant_approval_timestamp" json:"tenant_approval_timestamp,omitempty"`
	CreatedAt               time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time       `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (Agreement) TableName() string {
	return "agreements"
}
