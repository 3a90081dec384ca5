package notification

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/shadyhoon/RentEase/pkg/database"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) (*models.Notification, error)
	ListForRecipient(ctx context.Context, userID, email string, limit int) ([]*models.Notification, error)
	MarkAgreementSentActed(ctx context.Context, agreementID, userID, email string, status models.NotificationStatus, actedAt time.Time) error
}

// Repository implements NotificationRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new notification repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new notification
func (r *Repository) Create(ctx context.Context, notification *models.Notification) (*models.Notification, error) {
	ctx, span := tracing.StartSpan(ctx, "NotificationRepository.Create")
	defer span.End()

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	notification.CreatedAt = Now()

	row := FromNotification(notification)
	ib := notificationStruct.InsertInto(notificationsTable, row)
	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":              notification.ID,
		"type":            notification.Type,
		"recipient_email": notification.RecipientEmail,
	}).Debug("Creating notification")

	_, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create notification")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create notification")
	}

	return notification, nil
}

// ListForRecipient retrieves notifications addressed to a user by ID or email
func (r *Repository) ListForRecipient(ctx context.Context, userID, email string, limit int) ([]*models.Notification, error) {
	ctx, span := tracing.StartSpan(ctx, "NotificationRepository.ListForRecipient")
	defer span.End()

	sb := notificationStruct.SelectFrom(notificationsTable)
	sb.Where(
		sb.Or(
			sb.Equal("recipient_user_id", userID),
			sb.Equal("LOWER(recipient_email)", strings.ToLower(strings.TrimSpace(email))),
		),
	)
	sb.OrderBy("created_at").Desc()
	sb.Limit(limit)

	sql, args := sb.Build()

	var rows []NotificationRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list notifications")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list notifications")
	}

	return ToNotifications(rows), nil
}

// MarkAgreementSentActed marks pending agreement-sent notifications for the
// recipient as acted upon. Matches by recipient user ID or email.
func (r *Repository) MarkAgreementSentActed(ctx context.Context, agreementID, userID, email string, status models.NotificationStatus, actedAt time.Time) error {
	ctx, span := tracing.StartSpan(ctx, "NotificationRepository.MarkAgreementSentActed")
	defer span.End()

	ub := database.NewUpdateBuilder()
	ub.Update(notificationsTable)
	ub.Set(
		ub.Assign("status", string(status)),
		ub.Assign("acted_at", actedAt),
	)
	ub.Where(
		ub.Equal("agreement_id", agreementID),
		ub.Equal("type", string(models.NotificationTypeAgreementSent)),
		ub.Equal("status", string(models.NotificationStatusPending)),
		ub.Or(
			ub.Equal("recipient_user_id", userID),
			ub.Equal("LOWER(recipient_email)", strings.ToLower(strings.TrimSpace(email))),
		),
	)

	sql, args := ub.Build()

	_, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to mark notifications acted")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update notifications")
	}

	return nil
}
