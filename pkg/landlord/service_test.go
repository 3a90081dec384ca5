package landlord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadyhoon/RentEase/pkg/events"
	"github.com/shadyhoon/RentEase/pkg/models"
)

type fakeAgreementRepo struct {
	created []*models.Agreement
}

func (r *fakeAgreementRepo) Create(ctx context.Context, a *models.Agreement) (*models.Agreement, error) {
	a.ID = uuid.New().String()
	r.created = append(r.created, a)
	return a, nil
}

func (r *fakeAgreementRepo) GetByID(ctx context.Context, id string) (*models.Agreement, error) {
	return nil, httperror.NewHTTPError(404, "Agreement not found")
}

func (r *fakeAgreementRepo) Update(ctx context.Context, a *models.Agreement) (*models.Agreement, error) {
	return a, nil
}

func (r *fakeAgreementRepo) ListForTenant(ctx context.Context, userID, email string, statuses []models.AgreementStatus, limit int) ([]*models.Agreement, error) {
	return nil, nil
}

func (r *fakeAgreementRepo) ListForLandlord(ctx context.Context, landlordID string, limit int) ([]*models.Agreement, error) {
	var result []*models.Agreement
	for _, a := range r.created {
		if a.LandlordID == landlordID {
			result = append(result, a)
		}
	}
	return result, nil
}

type fakeTenantRecordRepo struct {
	records   []*models.TenantRecord
	upsertErr error
}

func (r *fakeTenantRecordRepo) Upsert(ctx context.Context, record *models.TenantRecord) (*models.TenantRecord, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	record.ID = uuid.New().String()
	r.records = append(r.records, record)
	return record, nil
}

func (r *fakeTenantRecordRepo) ListByLandlord(ctx context.Context, landlordID string) ([]*models.TenantRecord, error) {
	var result []*models.TenantRecord
	for _, record := range r.records {
		if record.LandlordID == landlordID {
			result = append(result, record)
		}
	}
	return result, nil
}

type fakeNotificationRepo struct {
	created []*models.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	r.created = append(r.created, n)
	return n, nil
}

func (r *fakeNotificationRepo) ListForRecipient(ctx context.Context, userID, email string, limit int) ([]*models.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) MarkAgreementSentActed(ctx context.Context, agreementID, userID, email string, status models.NotificationStatus, actedAt time.Time) error {
	return nil
}

type fakeTicketRepo struct {
	openCount int
}

func (r *fakeTicketRepo) Create(ctx context.Context, t *models.Ticket) (*models.Ticket, error) {
	return t, nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	return nil, httperror.NewHTTPError(404, "Ticket not found")
}

func (r *fakeTicketRepo) Update(ctx context.Context, t *models.Ticket) (*models.Ticket, error) {
	return t, nil
}

func (r *fakeTicketRepo) ListForTenant(ctx context.Context, userID, email string, statuses []models.TicketStatus) ([]*models.Ticket, error) {
	return nil, nil
}

func (r *fakeTicketRepo) List(ctx context.Context, statuses []models.TicketStatus) ([]*models.Ticket, error) {
	return nil, nil
}

func (r *fakeTicketRepo) CountByStatus(ctx context.Context, status models.TicketStatus) (int, error) {
	return r.openCount, nil
}

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return nil, httperror.NewHTTPError(404, "User not found")
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.byEmail[email], nil
}

type fixture struct {
	agreements    *fakeAgreementRepo
	tenantRecords *fakeTenantRecordRepo
	notifications *fakeNotificationRepo
	tickets       *fakeTicketRepo
	users         *fakeUserRepo
	svc           *Service
}

func newFixture() *fixture {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	f := &fixture{
		agreements:    &fakeAgreementRepo{},
		tenantRecords: &fakeTenantRecordRepo{},
		notifications: &fakeNotificationRepo{},
		tickets:       &fakeTicketRepo{},
		users:         &fakeUserRepo{byEmail: make(map[string]*models.User)},
	}
	f.svc = NewService(f.agreements, f.tenantRecords, f.notifications, f.tickets, f.users, events.NewEmitter(nil, logger), logger)
	return f
}

func TestCreateAgreement(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture()
	f.users.byEmail["tenant@example.com"] = &models.User{ID: "u1", Email: "tenant@example.com"}
	f.svc.WithClock(func() time.Time { return now })

	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	agreement, err := f.svc.CreateAgreement(context.Background(), "l1", CreateAgreementParams{
		TenantName:      " Asha ",
		TenantEmail:     " Tenant@Example.com ",
		PropertyAddress: "12 Rose St",
		RentAmount:      1500,
		DurationMonths:  11,
		StartDate:       &start,
	})
	require.NoError(t, err)

	assert.Equal(t, models.AgreementStatusSentToTenant, agreement.Status)
	assert.Equal(t, "u1", agreement.TenantUserID)
	assert.Equal(t, "tenant@example.com", agreement.TenantEmail)
	assert.Equal(t, "Asha", agreement.TenantName)
	require.NotNil(t, agreement.SentToTenantAt)
	assert.Equal(t, now, *agreement.SentToTenantAt)

	require.Len(t, f.tenantRecords.records, 1)
	assert.True(t, f.tenantRecords.records[0].IsActive)

	require.Len(t, f.notifications.created, 1)
	notification := f.notifications.created[0]
	assert.Equal(t, models.NotificationTypeAgreementSent, notification.Type)
	assert.Equal(t, models.NotificationStatusPending, notification.Status)
	assert.Equal(t, agreement.ID, notification.AgreementID)
	assert.Equal(t, "u1", notification.RecipientUserID)
}

func TestCreateAgreement_TenantWithoutAccount(t *testing.T) {
	f := newFixture()

	end := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	agreement, err := f.svc.CreateAgreement(context.Background(), "l1", CreateAgreementParams{
		TenantName:      "Ravi",
		TenantEmail:     "ravi@example.com",
		PropertyAddress: "3 Oak Ave",
		RentAmount:      900,
		EndDate:         &end,
	})
	require.NoError(t, err)
	assert.Empty(t, agreement.TenantUserID)
}

func TestCreateAgreement_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateAgreement(context.Background(), "l1", CreateAgreementParams{
		TenantEmail:     "tenant@example.com",
		PropertyAddress: "12 Rose St",
		RentAmount:      1500,
		DurationMonths:  11,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tenant name, email and property address are required")

	_, err = f.svc.CreateAgreement(context.Background(), "l1", CreateAgreementParams{
		TenantName:      "Asha",
		TenantEmail:     "tenant@example.com",
		PropertyAddress: "12 Rose St",
		RentAmount:      0,
		DurationMonths:  11,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rent amount must be positive")

	_, err = f.svc.CreateAgreement(context.Background(), "l1", CreateAgreementParams{
		TenantName:      "Asha",
		TenantEmail:     "tenant@example.com",
		PropertyAddress: "12 Rose St",
		RentAmount:      1500,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Duration or end date is required")
}

func TestCreateAgreement_TenantRecordFailureTolerated(t *testing.T) {
	f := newFixture()
	f.tenantRecords.upsertErr = errors.New("db down")

	_, err := f.svc.CreateAgreement(context.Background(), "l1", CreateAgreementParams{
		TenantName:      "Asha",
		TenantEmail:     "tenant@example.com",
		PropertyAddress: "12 Rose St",
		RentAmount:      1500,
		DurationMonths:  11,
	})
	require.NoError(t, err)
	require.Len(t, f.agreements.created, 1)
}

func TestDashboardStats(t *testing.T) {
	f := newFixture()
	f.tickets.openCount = 3
	f.tenantRecords.records = []*models.TenantRecord{
		{LandlordID: "l1", Email: "a@example.com", PropertyAddress: "12 Rose St", RentAmount: 1500, IsActive: true},
		{LandlordID: "l1", Email: "b@example.com", PropertyAddress: "12 Rose St", RentAmount: 1200, IsActive: true},
		{LandlordID: "l1", Email: "c@example.com", PropertyAddress: "3 Oak Ave", RentAmount: 800, IsActive: false},
	}
	f.agreements.created = []*models.Agreement{
		{LandlordID: "l1"},
		{LandlordID: "l1"},
	}

	stats, err := f.svc.DashboardStats(context.Background(), "l1")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.ActiveTenants)
	assert.Equal(t, 1, stats.Properties)
	assert.Equal(t, 2700.0, stats.MonthlyRent)
	assert.Equal(t, 2, stats.TotalAgreements)
	assert.Equal(t, 3, stats.PendingIssues)
}
