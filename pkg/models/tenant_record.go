package models

import "time"

// TenantRecord is a landlord's bookkeeping row for a tenant, kept in sync
// when agreements are created. One row per landlord+email+property.
type TenantRecord struct {
	ID              string    `db:"id" json:"id"`
	LandlordID      string    `db:"landlord_id" json:"landlord_id"`
	Name            string    `db:"name" json:"name"`
	Email           string    `db:"email" json:"email"`
	PropertyAddress string    `db:"property_address" json:"property_address"`
	RentAmount      float64   `db:"rent_amount" json:"rent_amount"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (TenantRecord) TableName() string {
	return "tenant_records"
}
