package agreements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadyhoon/RentEase/pkg/events"
	"github.com/shadyhoon/RentEase/pkg/models"
)

type fakeAgreementRepo struct {
	agreements map[string]*models.Agreement
	updateErr  map[string]error
	updates    int
}

func newFakeAgreementRepo(agreements ...*models.Agreement) *fakeAgreementRepo {
	repo := &fakeAgreementRepo{
		agreements: make(map[string]*models.Agreement),
		updateErr:  make(map[string]error),
	}
	for _, a := range agreements {
		repo.agreements[a.ID] = a
	}
	return repo
}

func (r *fakeAgreementRepo) Create(ctx context.Context, agreement *models.Agreement) (*models.Agreement, error) {
	r.agreements[agreement.ID] = agreement
	return agreement, nil
}

func (r *fakeAgreementRepo) GetByID(ctx context.Context, id string) (*models.Agreement, error) {
	a, ok := r.agreements[id]
	if !ok {
		return nil, httperror.NewHTTPError(404, "Agreement not found")
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAgreementRepo) Update(ctx context.Context, agreement *models.Agreement) (*models.Agreement, error) {
	if err := r.updateErr[agreement.ID]; err != nil {
		return nil, err
	}
	r.updates++
	copied := *agreement
	r.agreements[agreement.ID] = &copied
	return agreement, nil
}

func (r *fakeAgreementRepo) ListForTenant(ctx context.Context, userID, email string, statuses []models.AgreementStatus, limit int) ([]*models.Agreement, error) {
	var result []*models.Agreement
	for _, a := range r.agreements {
		if a.IsDeleted || !MatchesTenant(a, userID, email) {
			continue
		}
		for _, status := range statuses {
			if a.Status == status {
				copied := *a
				result = append(result, &copied)
				break
			}
		}
	}
	return result, nil
}

func (r *fakeAgreementRepo) ListForLandlord(ctx context.Context, landlordID string, limit int) ([]*models.Agreement, error) {
	var result []*models.Agreement
	for _, a := range r.agreements {
		if a.LandlordID == landlordID && !a.IsDeleted {
			copied := *a
			result = append(result, &copied)
		}
	}
	return result, nil
}

type fakeNotificationRepo struct {
	actedAgreementIDs []string
	markErr           error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	return n, nil
}

func (r *fakeNotificationRepo) ListForRecipient(ctx context.Context, userID, email string, limit int) ([]*models.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) MarkAgreementSentActed(ctx context.Context, agreementID, userID, email string, status models.NotificationStatus, actedAt time.Time) error {
	if r.markErr != nil {
		return r.markErr
	}
	r.actedAgreementIDs = append(r.actedAgreementIDs, agreementID)
	return nil
}

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newTestService(repo *fakeAgreementRepo, notifications *fakeNotificationRepo, now time.Time) *Service {
	logger := noopLogger()
	return NewService(repo, notifications, events.NewEmitter(nil, logger), logger).
		WithClock(func() time.Time { return now })
}

func TestApprove_SentToTenant(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:           "a1",
		TenantUserID: "u1",
		TenantEmail:  "tenant@example.com",
		Status:       models.AgreementStatusSentToTenant,
	})
	notifications := &fakeNotificationRepo{}
	svc := newTestService(repo, notifications, now)

	agreement, err := svc.Approve(context.Background(), "a1", "u1", "tenant@example.com")
	require.NoError(t, err)

	assert.Equal(t, models.AgreementStatusApproved, agreement.Status)
	require.NotNil(t, agreement.TenantApprovalTimestamp)
	assert.Equal(t, now, *agreement.TenantApprovalTimestamp)
	assert.Equal(t, []string{"a1"}, notifications.actedAgreementIDs)
}

func TestApprove_MatchesByEmailWithSpaces(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:          "a1",
		TenantEmail: "Tenant@Example.com",
		Status:      models.AgreementStatusSentToTenant,
	})
	svc := newTestService(repo, &fakeNotificationRepo{}, now)

	agreement, err := svc.Approve(context.Background(), "a1", "", "  tenant@example.com  ")
	require.NoError(t, err)
	assert.Equal(t, models.AgreementStatusApproved, agreement.Status)
}

func TestApprove_AlreadyApprovedIsIdempotent(t *testing.T) {
	approvedAt := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:                      "a1",
		TenantUserID:            "u1",
		Status:                  models.AgreementStatusApproved,
		TenantApprovalTimestamp: &approvedAt,
	})
	svc := newTestService(repo, &fakeNotificationRepo{}, now)

	agreement, err := svc.Approve(context.Background(), "a1", "u1", "")
	require.NoError(t, err)

	assert.Equal(t, models.AgreementStatusApproved, agreement.Status)
	assert.Equal(t, approvedAt, *agreement.TenantApprovalTimestamp)
	assert.Zero(t, repo.updates)
}

func TestApprove_SignedTreatedAsApproved(t *testing.T) {
	approvedAt := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:                      "a1",
		TenantUserID:            "u1",
		Status:                  models.AgreementStatusSigned,
		TenantApprovalTimestamp: &approvedAt,
	})
	// No write happens on this path, so a broken store cannot turn the
	// idempotent success into an error.
	repo.updateErr["a1"] = errors.New("db down")
	svc := newTestService(repo, &fakeNotificationRepo{}, now)

	agreement, err := svc.Approve(context.Background(), "a1", "u1", "")
	require.NoError(t, err)

	assert.Equal(t, models.AgreementStatusSigned, agreement.Status)
	assert.Equal(t, approvedAt, *agreement.TenantApprovalTimestamp)
	assert.Zero(t, repo.updates)
	assert.Equal(t, models.AgreementStatusSigned, repo.agreements["a1"].Status)
}

func TestApprove_WrongTenantForbidden(t *testing.T) {
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:           "a1",
		TenantUserID: "u1",
		TenantEmail:  "tenant@example.com",
		Status:       models.AgreementStatusSentToTenant,
	})
	svc := newTestService(repo, &fakeNotificationRepo{}, time.Now())

	_, err := svc.Approve(context.Background(), "a1", "u2", "other@example.com")
	require.Error(t, err)
	assert.Equal(t, 403, httperror.GetStatusCode(err))
}

func TestApprove_ExpiredRejected(t *testing.T) {
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:           "a1",
		TenantUserID: "u1",
		Status:       models.AgreementStatusExpired,
	})
	svc := newTestService(repo, &fakeNotificationRepo{}, time.Now())

	_, err := svc.Approve(context.Background(), "a1", "u1", "")
	require.Error(t, err)
	assert.Equal(t, 400, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "Agreement cannot be approved from status: expired")
}

func TestApprove_NotificationFailureDoesNotFailApproval(t *testing.T) {
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:           "a1",
		TenantUserID: "u1",
		Status:       models.AgreementStatusSentToTenant,
	})
	notifications := &fakeNotificationRepo{markErr: errors.New("db down")}
	svc := newTestService(repo, notifications, time.Now())

	agreement, err := svc.Approve(context.Background(), "a1", "u1", "")
	require.NoError(t, err)
	assert.Equal(t, models.AgreementStatusApproved, agreement.Status)
}

func TestListForTenant_LapsesExpiredAgreements(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:           "a1",
		TenantUserID: "u1",
		Status:       models.AgreementStatusApproved,
		EndDate:      date(2025, time.January, 1),
	})
	svc := newTestService(repo, &fakeNotificationRepo{}, now)

	agreements, err := svc.ListForTenant(context.Background(), "u1", "", "")
	require.NoError(t, err)
	require.Len(t, agreements, 1)

	assert.Equal(t, models.AgreementStatusExpired, agreements[0].Status)
	assert.Equal(t, models.AgreementStatusExpired, repo.agreements["a1"].Status)
}

func TestListForTenant_PersistFailureKeepsDerivedValues(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:           "a1",
		TenantUserID: "u1",
		Status:       models.AgreementStatusApproved,
		EndDate:      date(2025, time.January, 1),
	})
	repo.updateErr["a1"] = errors.New("db down")
	svc := newTestService(repo, &fakeNotificationRepo{}, now)

	agreements, err := svc.ListForTenant(context.Background(), "u1", "", "")
	require.NoError(t, err)
	require.Len(t, agreements, 1)

	// Response carries the derived status even though the save failed.
	assert.Equal(t, models.AgreementStatusExpired, agreements[0].Status)
	assert.Equal(t, models.AgreementStatusApproved, repo.agreements["a1"].Status)
}

func TestStatusesForFilter(t *testing.T) {
	assert.Equal(t,
		[]models.AgreementStatus{models.AgreementStatusApproved, models.AgreementStatusSigned},
		statusesForFilter(""))
	assert.Equal(t,
		[]models.AgreementStatus{models.AgreementStatusApproved, models.AgreementStatusSigned},
		statusesForFilter("approved"))
	assert.Equal(t,
		[]models.AgreementStatus{models.AgreementStatusApproved, models.AgreementStatusSigned, models.AgreementStatusExpired},
		statusesForFilter("all"))
	assert.Equal(t,
		[]models.AgreementStatus{models.AgreementStatusApproved, models.AgreementStatusSigned},
		statusesForFilter("signed"))
	assert.Equal(t,
		[]models.AgreementStatus{models.AgreementStatusApproved, models.AgreementStatusSigned},
		statusesForFilter(" Approved "))
	assert.Equal(t,
		[]models.AgreementStatus{models.AgreementStatusSentToTenant},
		statusesForFilter("sent_to_tenant"))
	assert.Equal(t,
		[]models.AgreementStatus{models.AgreementStatusSentToTenant},
		statusesForFilter("SENT_TO_TENANT"))
}

func TestSoftDelete_ExpiredAgreement(t *testing.T) {
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:         "a1",
		LandlordID: "l1",
		Status:     models.AgreementStatusExpired,
	})
	svc := newTestService(repo, &fakeNotificationRepo{}, time.Now())

	agreement, err := svc.SoftDelete(context.Background(), "a1", "l1")
	require.NoError(t, err)

	assert.True(t, agreement.IsDeleted)
	assert.Equal(t, models.AgreementStatusDeleted, agreement.Status)
}

func TestSoftDelete_DerivesBeforeChecking(t *testing.T) {
	// Approved but past its end date: deletable even though no read lapsed it.
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:         "a1",
		LandlordID: "l1",
		Status:     models.AgreementStatusApproved,
		EndDate:    date(2025, time.January, 1),
	})
	svc := newTestService(repo, &fakeNotificationRepo{}, now)

	agreement, err := svc.SoftDelete(context.Background(), "a1", "l1")
	require.NoError(t, err)
	assert.Equal(t, models.AgreementStatusDeleted, agreement.Status)
}

func TestSoftDelete_ActiveAgreementRejected(t *testing.T) {
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:         "a1",
		LandlordID: "l1",
		Status:     models.AgreementStatusApproved,
		EndDate:    date(2099, time.January, 1),
	})
	svc := newTestService(repo, &fakeNotificationRepo{}, time.Now())

	_, err := svc.SoftDelete(context.Background(), "a1", "l1")
	require.Error(t, err)
	assert.Equal(t, 400, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "Only expired agreements can be deleted")
}

func TestSoftDelete_WrongLandlordForbidden(t *testing.T) {
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:         "a1",
		LandlordID: "l1",
		Status:     models.AgreementStatusExpired,
	})
	svc := newTestService(repo, &fakeNotificationRepo{}, time.Now())

	_, err := svc.SoftDelete(context.Background(), "a1", "l2")
	require.Error(t, err)
	assert.Equal(t, 403, httperror.GetStatusCode(err))
}

func TestSoftDelete_AlreadyDeletedRejected(t *testing.T) {
	repo := newFakeAgreementRepo(&models.Agreement{
		ID:         "a1",
		LandlordID: "l1",
		Status:     models.AgreementStatusDeleted,
		IsDeleted:  true,
	})
	svc := newTestService(repo, &fakeNotificationRepo{}, time.Now())

	_, err := svc.SoftDelete(context.Background(), "a1", "l1")
	require.Error(t, err)
	assert.Equal(t, 400, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "Agreement is already deleted")
}
