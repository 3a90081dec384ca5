package landlord

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
	tenantrecordrepo "github.com/shadyhoon/RentEase/internal/repositories/tenantrecord"
	ticketrepo "github.com/shadyhoon/RentEase/internal/repositories/ticket"
	userrepo "github.com/shadyhoon/RentEase/internal/repositories/user"
	"github.com/shadyhoon/RentEase/pkg/events"
	"github.com/shadyhoon/RentEase/pkg/metrics"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

// CreateAgreementParams are the inputs for drafting and sending an agreement.
type CreateAgreementParams struct {
	TenantName      string
	TenantEmail     string
	PropertyAddress string
	RentAmount      float64
	DurationMonths  int
	StartDate       *time.Time
	EndDate         *time.Time
}

// Stats is the landlord dashboard summary.
type Stats struct {
	ActiveTenants   int     `json:"active_tenants"`
	Properties      int     `json:"properties"`
	MonthlyRent     float64 `json:"monthly_rent"`
	PendingIssues   int     `json:"pending_issues"`
	TotalAgreements int     `json:"total_agreements"`
}

// Service owns the landlord's side of the system: sending agreements,
// bookkeeping tenants and the dashboard.
type Service struct {
	agreements    agreementrepo.AgreementRepository
	tenantRecords tenantrecordrepo.TenantRecordRepository
	notifications notificationrepo.NotificationRepository
	tickets       ticketrepo.TicketRepository
	users         userrepo.UserRepository
	emitter       *events.Emitter
	logger        ectologger.Logger
	now           func() time.Time
}

// NewService creates a new landlord service
func NewService(
	agreements agreementrepo.AgreementRepository,
	tenantRecords tenantrecordrepo.TenantRecordRepository,
	notifications notificationrepo.NotificationRepository,
	tickets ticketrepo.TicketRepository,
	users userrepo.UserRepository,
	emitter *events.Emitter,
	logger ectologger.Logger,
) *Service {
	return &Service{
		agreements:    agreements,
		tenantRecords: tenantRecords,
		notifications: notifications,
		tickets:       tickets,
		users:         users,
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

// CreateAgreement drafts an agreement and sends it straight to the tenant.
// The tenant gets a pending notification and the landlord's tenant records
// are refreshed.
func (s *Service) CreateAgreement(ctx context.Context, landlordID string, params CreateAgreementParams) (*models.Agreement, error) {
	ctx, span := tracing.StartSpan(ctx, "LandlordService.CreateAgreement")
	defer span.End()

	tenantName := strings.TrimSpace(params.TenantName)
	tenantEmail := strings.ToLower(strings.TrimSpace(params.TenantEmail))
	property := strings.TrimSpace(params.PropertyAddress)

	if tenantName == "" || tenantEmail == "" || property == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Tenant name, email and property address are required")
	}
	if params.RentAmount <= 0 {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Rent amount must be positive")
	}
	if params.DurationMonths <= 0 && params.EndDate == nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Duration or end date is required")
	}

	// Link the agreement to the tenant's account when one exists. Otherwise
	// the tenant is matched by email at approval time.
	tenantUserID := ""
	if account, err := s.users.GetByEmail(ctx, tenantEmail); err != nil {
		return nil, err
	} else if account != nil {
		tenantUserID = account.ID
	}

	now := s.now()
	agreement := &models.Agreement{
		LandlordID:      landlordID,
		TenantUserID:    tenantUserID,
		TenantName:      tenantName,
		TenantEmail:     tenantEmail,
		PropertyAddress: property,
		RentAmount:      params.RentAmount,
		DurationMonths:  params.DurationMonths,
		StartDate:       params.StartDate,
		EndDate:         params.EndDate,
		Status:          models.AgreementStatusSentToTenant,
		SentToTenantAt:  &now,
	}

	agreement, err := s.agreements.Create(ctx, agreement)
	if err != nil {
		return nil, err
	}

	metrics.AgreementTransitionsTotal.WithLabelValues(string(models.AgreementStatusSentToTenant)).Inc()

	// Bookkeeping and notification are best effort, the agreement exists
	// either way.
	record := &models.TenantRecord{
		LandlordID:      landlordID,
		Name:            tenantName,
		Email:           tenantEmail,
		PropertyAddress: property,
		RentAmount:      params.RentAmount,
		IsActive:        true,
	}
	if _, err := s.tenantRecords.Upsert(ctx, record); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("agreement_id", agreement.ID).Warn("Failed to upsert tenant record")
	}

	notification := &models.Notification{
		Type:            models.NotificationTypeAgreementSent,
		Status:          models.NotificationStatusPending,
		LandlordID:      landlordID,
		RecipientUserID: tenantUserID,
		RecipientEmail:  tenantEmail,
		AgreementID:     agreement.ID,
		Title:           "New rental agreement",
		Message:         fmt.Sprintf("You have received a rental agreement for %s", property),
	}
	if _, err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("agreement_id", agreement.ID).Warn("Failed to create agreement notification")
	}

	s.emitter.EmitAgreementSent(ctx, agreement)

	return agreement, nil
}

// DashboardStats summarizes the landlord's portfolio.
func (s *Service) DashboardStats(ctx context.Context, landlordID string) (*Stats, error) {
	ctx, span := tracing.StartSpan(ctx, "LandlordService.DashboardStats")
	defer span.End()

	records, err := s.tenantRecords.ListByLandlord(ctx, landlordID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	properties := make(map[string]struct{})
	for _, record := range records {
		if !record.IsActive {
			continue
		}
		stats.ActiveTenants++
		stats.MonthlyRent += record.RentAmount
		properties[record.PropertyAddress] = struct{}{}
	}
	stats.Properties = len(properties)

	agreements, err := s.agreements.ListForLandlord(ctx, landlordID, 100)
	if err != nil {
		return nil, err
	}
	stats.TotalAgreements = len(agreements)

	pending, err := s.tickets.CountByStatus(ctx, models.TicketStatusOpen)
	if err != nil {
		return nil, err
	}
	stats.PendingIssues = pending

	return stats, nil
}

// ListTenants returns the landlord's tenant records.
func (s *Service) ListTenants(ctx context.Context, landlordID string) ([]*models.TenantRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "LandlordService.ListTenants")
	defer span.End()

	return s.tenantRecords.ListByLandlord(ctx, landlordID)
}
