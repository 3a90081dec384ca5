package notification

import (
	"database/sql"
	"time"

	"github.com/shadyhoon/RentEase/pkg/database"
	"github.com/shadyhoon/RentEase/pkg/models"
)

const (
	notificationsTable = "notifications"
)

// NotificationRow represents the database row for a notification
type NotificationRow struct {
	ID              sql.NullString `db:"id"`
	Type            sql.NullString `db:"type"`
	Status          sql.NullString `db:"status"`
	LandlordID      sql.NullString `db:"landlord_id"`
	RecipientUserID sql.NullString `db:"recipient_user_id"`
	RecipientEmail  sql.NullString `db:"recipient_email"`
	AgreementID     sql.NullString `db:"agreement_id"`
	Title           sql.NullString `db:"title"`
	Message         sql.NullString `db:"message"`
	ActedAt         sql.NullTime   `db:"acted_at"`
	CreatedAt       sql.NullTime   `db:"created_at"`
}

var notificationStruct = database.NewStruct(new(NotificationRow))

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

// FromNotification converts a domain model to a database row
func FromNotification(n *models.Notification) *NotificationRow {
	return &NotificationRow{
		ID:              sql.NullString{String: n.ID, Valid: n.ID != ""},
		Type:            sql.NullString{String: string(n.Type), Valid: n.Type != ""},
		Status:          sql.NullString{String: string(n.Status), Valid: n.Status != ""},
		LandlordID:      sql.NullString{String: n.LandlordID, Valid: n.LandlordID != ""},
		RecipientUserID: sql.NullString{String: n.RecipientUserID, Valid: n.RecipientUserID != ""},
		RecipientEmail:  sql.NullString{String: n.RecipientEmail, Valid: n.RecipientEmail != ""},
		AgreementID:     sql.NullString{String: n.AgreementID, Valid: n.AgreementID != ""},
		Title:           sql.NullString{String: n.Title, Valid: n.Title != ""},
		Message:         sql.NullString{String: n.Message, Valid: n.Message != ""},
		ActedAt:         nullTime(n.ActedAt),
		CreatedAt:       sql.NullTime{Time: n.CreatedAt, Valid: !n.CreatedAt.IsZero()},
	}
}

// ToNotification converts a database row to a domain model
func ToNotification(row *NotificationRow) *models.Notification {
	return &models.Notification{
		ID:              row.ID.String,
		Type:            models.NotificationType(row.Type.String),
		Status:          models.NotificationStatus(row.Status.String),
		LandlordID:      row.LandlordID.String,
		RecipientUserID: row.RecipientUserID.String,
		RecipientEmail:  row.RecipientEmail.String,
		AgreementID:     row.AgreementID.String,
		Title:           row.Title.String,
		Message:         row.Message.String,
		ActedAt:         timePtr(row.ActedAt),
		CreatedAt:       row.CreatedAt.Time,
	}
}

// ToNotifications converts a slice of database rows to domain models
func ToNotifications(rows []NotificationRow) []*models.Notification {
	notifications := make([]*models.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = ToNotification(&row)
	}
	return notifications
}

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}
