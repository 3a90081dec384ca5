package payment

import (
	"database/sql"
	"time"

	"github.com/shadyhoon/RentEase/pkg/database"
	"github.com/shadyhoon/RentEase/pkg/models"
)

const (
	paymentsTable = "payments"
)

// PaymentRow represents the database row for a payment
type PaymentRow struct {
	ID                sql.NullString  `db:"id"`
	AgreementID       sql.NullString  `db:"agreement_id"`
	TenantUserID      sql.NullString  `db:"tenant_user_id"`
	TenantEmail       sql.NullString  `db:"tenant_email"`
	LandlordID        sql.NullString  `db:"landlord_id"`
	Amount            sql.NullFloat64 `db:"amount"`
	Currency          sql.NullString  `db:"currency"`
	Status            sql.NullString  `db:"status"`
	RazorpayOrderID   sql.NullString  `db:"razorpay_order_id"`
	RazorpayPaymentID sql.NullString  `db:"razorpay_payment_id"`
	PaymentDate       sql.NullTime    `db:"payment_date"`
	CreatedAt         sql.NullTime    `db:"created_at"`
	UpdatedAt         sql.NullTime    `db:"updated_at"`
}

var paymentStruct = database.NewStruct(new(PaymentRow))

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

// FromPayment converts a domain model to a database row
func FromPayment(p *models.Payment) *PaymentRow {
	return &PaymentRow{
		ID:                sql.NullString{String: p.ID, Valid: p.ID != ""},
		AgreementID:       sql.NullString{String: p.AgreementID, Valid: p.AgreementID != ""},
		TenantUserID:      sql.NullString{String: p.TenantUserID, Valid: p.TenantUserID != ""},
		TenantEmail:       sql.NullString{String: p.TenantEmail, Valid: p.TenantEmail != ""},
		LandlordID:        sql.NullString{String: p.LandlordID, Valid: p.LandlordID != ""},
		Amount:            sql.NullFloat64{Float64: p.Amount, Valid: true},
		Currency:          sql.NullString{String: p.Currency, Valid: p.Currency != ""},
		Status:            sql.NullString{String: string(p.Status), Valid: p.Status != ""},
		RazorpayOrderID:   sql.NullString{String: p.RazorpayOrderID, Valid: p.RazorpayOrderID != ""},
		RazorpayPaymentID: sql.NullString{String: p.RazorpayPaymentID, Valid: p.RazorpayPaymentID != ""},
		PaymentDate:       nullTime(p.PaymentDate),
		CreatedAt:         sql.NullTime{Time: p.CreatedAt, Valid: !p.CreatedAt.IsZero()},
		UpdatedAt:         sql.NullTime{Time: p.UpdatedAt, Valid: !p.UpdatedAt.IsZero()},
	}
}

// ToPayment converts a database row to a domain model
func ToPayment(row *PaymentRow) *models.Payment {
	return &models.Payment{
		ID:                row.ID.String,
		AgreementID:       row.AgreementID.String,
		TenantUserID:      row.TenantUserID.String,
		TenantEmail:       row.TenantEmail.String,
		LandlordID:        row.LandlordID.String,
		Amount:            row.Amount.Float64,
		Currency:          row.Currency.String,
		Status:            models.PaymentStatus(row.Status.String),
		RazorpayOrderID:   row.RazorpayOrderID.String,
		RazorpayPaymentID: row.RazorpayPaymentID.String,
		PaymentDate:       timePtr(row.PaymentDate),
		CreatedAt:         row.CreatedAt.Time,
		UpdatedAt:         row.UpdatedAt.Time,
	}
}

// ToPayments converts a slice of database rows to domain models
func ToPayments(rows []PaymentRow) []*models.Payment {
	payments := make([]*models.Payment, len(rows))
	for i, row := range rows {
		payments[i] = ToPayment(&row)
	}
	return payments
}

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}
