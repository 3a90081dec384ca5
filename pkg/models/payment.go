package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusSuccess PaymentStatus = "Success"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

// Payment is a rent payment made through the payment gateway.
type Payment struct {
	ID                string        `db:"id" json:"id"`
	AgreementID       string        `db:"agreement_id" json:"agreement_id"`
	TenantUserID      string        `db:"tenant_user_id" json:"tenant_user_id"`
	TenantEmail       string        `db:"tenant_email" json:"tenant_email"`
	LandlordID        string        `db:"landlord_id" json:"landlord_id"`
	Amount            float64       `db:"amount" json:"amount"`
	Currency          string        `db:"currency" json:"currency"`
	Status            PaymentStatus `db:"status" json:"status"`
	RazorpayOrderID   string        `db:"razorpay_order_id" json:"razorpay_order_id"`
	RazorpayPaymentID string        `db:"razorpay_payment_id" json:"razorpay_payment_id,omitempty"`
	PaymentDate       *time.Time    `db:"payment_date" json:"payment_date,omitempty"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (Payment) TableName() string {
	return "payments"
}
