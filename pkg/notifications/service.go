package notifications

import (
	"context"

	"github.com/Gobusters/ectologger"

	notificationrepo "github.com/shadyhoon/RentEase/internal/repositories/notification"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

const listLimit = 50

// Service exposes the tenant's notification feed.
type Service struct {
	repo   notificationrepo.NotificationRepository
	logger ectologger.Logger
}

// NewService creates a new notification service
func NewService(repo notificationrepo.NotificationRepository, logger ectologger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListForRecipient returns notifications addressed to the user by account ID
// or email, newest first.
func (s *Service) ListForRecipient(ctx context.Context, userID, email string) ([]*models.Notification, error) {
	ctx, span := tracing.StartSpan(ctx, "NotificationService.ListForRecipient")
	defer span.End()

	return s.repo.ListForRecipient(ctx, userID, email, listLimit)
}
