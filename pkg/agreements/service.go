package agreements

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	agreementrepo "github.com/shadyhoon/RentEase/internal/repositories/agreement"
	notificationrepo "github.com/shadyhoon/RentEase/internal/repositories/notification"
	"github.com/shadyhoon/RentEase/pkg/events"
	"github.com/shadyhoon/RentEase/pkg/metrics"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

const (
	tenantListLimit   = 50
	landlordListLimit = 100
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Service owns the agreement lifecycle: approval, status derivation and
// soft deletion.
type Service struct {
	repo          agreementrepo.AgreementRepository
	notifications notificationrepo.NotificationRepository
	emitter       *events.Emitter
	logger        ectologger.Logger
	now           func() time.Time
}

// NewService creates a new agreement service
func NewService(repo agreementrepo.AgreementRepository, notifications notificationrepo.NotificationRepository, emitter *events.Emitter, logger ectologger.Logger) *Service {
	return &Service{
		repo:          repo,
		notifications: notifications,
		emitter:       emitter,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Approve records the tenant's approval of an agreement. Approving an already
// approved or signed agreement succeeds without changing the approval
// timestamp.
func (s *Service) Approve(ctx context.Context, id, userID, email string) (*models.Agreement, error) {
	ctx, span := tracing.StartSpan(ctx, "AgreementService.Approve")
	defer span.End()

	agreement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !MatchesTenant(agreement, userID, email) {
		return nil, httperror.NewHTTPError(http.StatusForbidden, "You are not authorized to approve this agreement")
	}

	switch agreement.Status {
	case models.AgreementStatusApproved, models.AgreementStatusSigned:
		// Legacy rows carry "signed" and count as approved. Idempotent: the
		// stored row, status and timestamp are left untouched.
		return agreement, nil
	case models.AgreementStatusSentToTenant, models.AgreementStatusDraft:
		// approvable
	default:
		return nil, httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Agreement cannot be approved from status: %s", agreement.Status))
	}

	now := s.now()
	agreement.Status = models.AgreementStatusApproved
	agreement.TenantApprovalTimestamp = &now

	agreement, err = s.repo.Update(ctx, agreement)
	if err != nil {
		return nil, err
	}

	metrics.AgreementTransitionsTotal.WithLabelValues(string(models.AgreementStatusApproved)).Inc()

	// Mark the matching notifications acted upon. Best effort, the approval
	// already happened.
	if err := s.notifications.MarkAgreementSentActed(ctx, agreement.ID, userID, email, models.NotificationStatusApproved, now); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("agreement_id", agreement.ID).Warn("Failed to mark agreement notifications acted")
	}

	s.emitter.EmitAgreementApproved(ctx, agreement, userID)

	return agreement, nil
}

// statusesForFilter maps the tenant list filter to stored statuses. The
// default view shows active agreements, "all" adds expired ones, anything
// else is taken literally. Legacy rows carry "signed", so both the default
// and an explicit "signed" filter match the approved set.
func statusesForFilter(filter string) []models.AgreementStatus {
	filter = strings.ToLower(strings.TrimSpace(filter))
	switch filter {
	case "", "approved", "signed":
		return []models.AgreementStatus{models.AgreementStatusApproved, models.AgreementStatusSigned}
	case "all":
		return []models.AgreementStatus{models.AgreementStatusApproved, models.AgreementStatusSigned, models.AgreementStatusExpired}
	default:
		return []models.AgreementStatus{models.AgreementStatus(filter)}
	}
}

// ListForTenant returns the tenant's agreements with derived statuses.
func (s *Service) ListForTenant(ctx context.Context, userID, email, statusFilter string) ([]*models.Agreement, error) {
	ctx, span := tracing.StartSpan(ctx, "AgreementService.ListForTenant")
	defer span.End()

	agreements, err := s.repo.ListForTenant(ctx, userID, email, statusesForFilter(statusFilter), tenantListLimit)
	if err != nil {
		return nil, err
	}

	s.deriveAndPersist(ctx, agreements)

	return agreements, nil
}

// ListForLandlord returns the landlord's agreements with derived statuses.
func (s *Service) ListForLandlord(ctx context.Context, landlordID string) ([]*models.Agreement, error) {
	ctx, span := tracing.StartSpan(ctx, "AgreementService.ListForLandlord")
	defer span.End()

	agreements, err := s.repo.ListForLandlord(ctx, landlordID, landlordListLimit)
	if err != nil {
		return nil, err
	}

	s.deriveAndPersist(ctx, agreements)

	return agreements, nil
}

// deriveAndPersist runs derivation over each agreement and saves the ones
// that changed. Saves are per record and best effort: a failed save keeps the
// derived values in the response and is retried naturally on the next read.
func (s *Service) deriveAndPersist(ctx context.Context, agreements []*models.Agreement) {
	now := s.now()
	for _, agreement := range agreements {
		wasExpired := agreement.Status == models.AgreementStatusExpired

		if !Derive(agreement, now) {
			continue
		}

		if !wasExpired && agreement.Status == models.AgreementStatusExpired {
			metrics.AgreementsExpiredTotal.Inc()
			s.emitter.EmitAgreementExpired(ctx, agreement)
		}

		if _, err := s.repo.Update(ctx, agreement); err != nil {
			s.logger.WithContext(ctx).WithError(err).WithField("agreement_id", agreement.ID).Warn("Failed to persist derived agreement state")
		}
	}
}

// SoftDelete removes an expired agreement from the landlord's view. Only the
// owner can delete, and only once the agreement has expired.
func (s *Service) SoftDelete(ctx context.Context, id, landlordID string) (*models.Agreement, error) {
	ctx, span := tracing.StartSpan(ctx, "AgreementService.SoftDelete")
	defer span.End()

	agreement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if agreement.LandlordID != landlordID {
		return nil, httperror.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this agreement")
	}

	if agreement.IsDeleted || agreement.Status == models.AgreementStatusDeleted {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Agreement is already deleted")
	}

	// Derive before checking: an approved agreement past its end date is
	// deletable even though no read has lapsed it yet.
	if Derive(agreement, s.now()) {
		if _, err := s.repo.Update(ctx, agreement); err != nil {
			s.logger.WithContext(ctx).WithError(err).WithField("agreement_id", agreement.ID).Warn("Failed to persist derived agreement state")
		}
	}

	if agreement.Status != models.AgreementStatusExpired {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Only expired agreements can be deleted")
	}

	agreement.IsDeleted = true
	agreement.Status = models.AgreementStatusDeleted

	agreement, err = s.repo.Update(ctx, agreement)
	if err != nil {
		return nil, err
	}

	metrics.AgreementTransitionsTotal.WithLabelValues(string(models.AgreementStatusDeleted)).Inc()
	s.emitter.EmitAgreementDeleted(ctx, agreement, landlordID)

	return agreement, nil
}
