package tickets

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	ticketrepo "github.com/shadyhoon/RentEase/internal/repositories/ticket"
	"github.com/shadyhoon/RentEase/pkg/events"
	"github.com/shadyhoon/RentEase/pkg/metrics"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

// NormalizePriority folds free-form priority input onto the three known
// levels, defaulting to Medium.
func NormalizePriority(priority string) models.TicketPriority {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "low":
		return models.TicketPriorityLow
	case "high":
		return models.TicketPriorityHigh
	default:
		return models.TicketPriorityMedium
	}
}

// CreateParams are the inputs for raising a maintenance ticket.
type CreateParams struct {
	TenantUserID    string
	TenantEmail     string
	PropertyAddress string
	Description     string
	Priority        string
}

// Service owns the maintenance ticket lifecycle: open, resolve, approve the
// resolution, clear.
type Service struct {
	repo    ticketrepo.TicketRepository
	emitter *events.Emitter
	logger  ectologger.Logger
	now     func() time.Time
}

// NewService creates a new ticket service
func NewService(repo ticketrepo.TicketRepository, emitter *events.Emitter, logger ectologger.Logger) *Service {
	return &Service{
		repo:    repo,
		emitter: emitter,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create raises a new ticket in the Open state awaiting landlord action.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.Ticket, error) {
	ctx, span := tracing.StartSpan(ctx, "TicketService.Create")
	defer span.End()

	description := strings.TrimSpace(params.Description)
	if description == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Description is required")
	}
	if strings.TrimSpace(params.TenantEmail) == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Tenant email is required")
	}

	ticket := &models.Ticket{
		TenantUserID:    params.TenantUserID,
		TenantEmail:     strings.ToLower(strings.TrimSpace(params.TenantEmail)),
		PropertyAddress: strings.TrimSpace(params.PropertyAddress),
		Description:     description,
		Priority:        NormalizePriority(params.Priority),
		Status:          models.TicketStatusOpen,
		ApprovalStatus:  models.TicketApprovalPending,
	}

	ticket, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}

	metrics.TicketTransitionsTotal.WithLabelValues(string(models.TicketStatusOpen)).Inc()
	s.emitter.EmitTicketCreated(ctx, ticket)

	return ticket, nil
}

// ListForTenant returns the tenant's own tickets, optionally filtered by
// status.
func (s *Service) ListForTenant(ctx context.Context, userID, email, statusFilter string) ([]*models.Ticket, error) {
	ctx, span := tracing.StartSpan(ctx, "TicketService.ListForTenant")
	defer span.End()

	var statuses []models.TicketStatus
	if statusFilter != "" {
		statuses = []models.TicketStatus{models.TicketStatus(statusFilter)}
	}

	return s.repo.ListForTenant(ctx, userID, email, statuses)
}

// ListForLandlord returns tickets needing landlord attention. The default
// view hides cleared tickets; an explicit status filter overrides it.
func (s *Service) ListForLandlord(ctx context.Context, statusFilter string) ([]*models.Ticket, error) {
	ctx, span := tracing.StartSpan(ctx, "TicketService.ListForLandlord")
	defer span.End()

	statuses := []models.TicketStatus{models.TicketStatusOpen, models.TicketStatusResolved}
	if statusFilter != "" {
		statuses = []models.TicketStatus{models.TicketStatus(statusFilter)}
	}

	return s.repo.List(ctx, statuses)
}

// Resolve marks a ticket as resolved by the landlord.
func (s *Service) Resolve(ctx context.Context, id, actorID string) (*models.Ticket, error) {
	ctx, span := tracing.StartSpan(ctx, "TicketService.Resolve")
	defer span.End()

	ticket, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ticket.Status == models.TicketStatusClosed {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Closed tickets cannot be resolved")
	}

	now := s.now()
	ticket.Status = models.TicketStatusResolved
	ticket.ResolvedAt = &now

	ticket, err = s.repo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	metrics.TicketTransitionsTotal.WithLabelValues(string(models.TicketStatusResolved)).Inc()
	s.emitter.EmitTicketStatusChanged(ctx, ticket, actorID)

	return ticket, nil
}

// ApproveResolution records the tenant's sign-off on a resolved ticket.
func (s *Service) ApproveResolution(ctx context.Context, id, userID, email string) (*models.Ticket, error) {
	ctx, span := tracing.StartSpan(ctx, "TicketService.ApproveResolution")
	defer span.End()

	ticket, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !matchesTenant(ticket, userID, email) {
		return nil, httperror.NewHTTPError(http.StatusForbidden, "You are not authorized to approve this ticket")
	}

	if ticket.Status != models.TicketStatusResolved {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Only resolved tickets can be approved")
	}

	ticket.ApprovalStatus = models.TicketApprovalApproved

	ticket, err = s.repo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.emitter.EmitTicketStatusChanged(ctx, ticket, userID)

	return ticket, nil
}

// Clear closes a ticket once it is resolved and the tenant has approved the
// resolution.
func (s *Service) Clear(ctx context.Context, id, actorID string) (*models.Ticket, error) {
	ctx, span := tracing.StartSpan(ctx, "TicketService.Clear")
	defer span.End()

	ticket, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ticket.Status != models.TicketStatusResolved || ticket.ApprovalStatus != models.TicketApprovalApproved {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Ticket must be resolved and approved before it can be cleared")
	}

	ticket.Status = models.TicketStatusClosed

	ticket, err = s.repo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	metrics.TicketTransitionsTotal.WithLabelValues(string(models.TicketStatusClosed)).Inc()
	s.emitter.EmitTicketStatusChanged(ctx, ticket, actorID)

	return ticket, nil
}

func matchesTenant(t *models.Ticket, userID, email string) bool {
	if userID != "" && t.TenantUserID == userID {
		return true
	}
	if email == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(t.TenantEmail)) == strings.ToLower(strings.TrimSpace(email))
}
