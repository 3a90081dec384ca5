package models

import "time"

type NotificationType string

const (
	NotificationTypeAgreementSent NotificationType = "AGREEMENT_SENT"
)

type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "PENDING"
	NotificationStatusApproved NotificationStatus = "APPROVED"
)

// Notification is an in-app message for a tenant, created when a landlord
// sends an agreement. RecipientUserID is empty when the tenant has no account
// yet, the notification is then matched by email.
type Notification struct {
	ID              string             `db:"id" json:"id"`
	Type            NotificationType   `db:"type" json:"type"`
	Status          NotificationStatus `db:"status" json:"status"`
	LandlordID      string             `db:"landlord_id" json:"landlord_id"`
	RecipientUserID string             `db:"recipient_user_id" json:"recipient_user_id,omitempty"`
	RecipientEmail  string             `db:"recipient_email" json:"recipient_email"`
	AgreementID     string             `db:"agreement_id" json:"agreement_id"`
	Title           string             `db:"title" json:"title"`
	Message         string             `db:"message" json:"message"`
	ActedAt         *time.Time         `db:"acted_at" json:"acted_at,omitempty"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
}

// TableName returns the database table name
func (Notification) TableName() string {
	return "notifications"
}
