package ticket

import (
	"context"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/shadyhoon/RentEase/pkg/database"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

// TicketRepository defines the interface for maintenance ticket data access
type TicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	Update(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)
	ListForTenant(ctx context.Context, userID, email string, statuses []models.TicketStatus) ([]*models.Ticket, error)
	List(ctx context.Context, statuses []models.TicketStatus) ([]*models.Ticket, error)
	CountByStatus(ctx context.Context, status models.TicketStatus) (int, error)
}

// Repository implements TicketRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new ticket repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new ticket
func (r *Repository) Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	ctx, span := tracing.StartSpan(ctx, "TicketRepository.Create")
	defer span.End()

	if ticket.ID == "" {
		ticket.ID = uuid.New().String()
	}

	now := Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	row := FromTicket(ticket)
	ib := ticketStruct.InsertInto(ticketsTable, row)
	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":           ticket.ID,
		"tenant_email": ticket.TenantEmail,
		"priority":     ticket.Priority,
	}).Debug("Creating ticket")

	_, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create ticket")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create ticket")
	}

	return ticket, nil
}

// GetByID retrieves a ticket by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	ctx, span := tracing.StartSpan(ctx, "TicketRepository.GetByID")
	defer span.End()

	sb := ticketStruct.SelectFrom(ticketsTable)
	sb.Where(sb.Equal("id", id))

	sql, args := sb.Build()

	var row TicketRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "Ticket not found")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get ticket")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get ticket")
	}

	return ToTicket(&row), nil
}

// Update updates an existing ticket
func (r *Repository) Update(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	ctx, span := tracing.StartSpan(ctx, "TicketRepository.Update")
	defer span.End()

	ticket.UpdatedAt = Now()

	ub := ticketStruct.Update(ticketsTable, FromTicket(ticket))
	ub.Where(ub.Equal("id", ticket.ID))

	sql, args := ub.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":              ticket.ID,
		"status":          ticket.Status,
		"approval_status": ticket.ApprovalStatus,
	}).Debug("Updating ticket")

	result, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update ticket")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update ticket")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "Ticket not found")
	}

	return ticket, nil
}

// ListForTenant retrieves tickets raised by a tenant, matched by user ID or email
func (r *Repository) ListForTenant(ctx context.Context, userID, email string, statuses []models.TicketStatus) ([]*models.Ticket, error) {
	ctx, span := tracing.StartSpan(ctx, "TicketRepository.ListForTenant")
	defer span.End()

	sb := ticketStruct.SelectFrom(ticketsTable)
	sb.Where(
		sb.Or(
			sb.Equal("tenant_user_id", userID),
			sb.Equal("LOWER(tenant_email)", strings.ToLower(strings.TrimSpace(email))),
		),
	)
	if len(statuses) > 0 {
		values := ectolinq.Map(statuses, func(s models.TicketStatus) any { return string(s) })
		sb.Where(sb.In("status", values...))
	}
	sb.OrderBy("created_at").Desc()

	sql, args := sb.Build()

	var rows []TicketRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list tickets for tenant")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list tickets")
	}

	return ToTickets(rows), nil
}

// List retrieves tickets filtered by status
func (r *Repository) List(ctx context.Context, statuses []models.TicketStatus) ([]*models.Ticket, error) {
	ctx, span := tracing.StartSpan(ctx, "TicketRepository.List")
	defer span.End()

	sb := ticketStruct.SelectFrom(ticketsTable)
	if len(statuses) > 0 {
		values := ectolinq.Map(statuses, func(s models.TicketStatus) any { return string(s) })
		sb.Where(sb.In("status", values...))
	}
	sb.OrderBy("created_at").Desc()

	sql, args := sb.Build()

	var rows []TicketRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list tickets")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list tickets")
	}

	return ToTickets(rows), nil
}

// CountByStatus counts tickets in the given status
func (r *Repository) CountByStatus(ctx context.Context, status models.TicketStatus) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "TicketRepository.CountByStatus")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)").From(ticketsTable)
	sb.Where(sb.Equal("status", string(status)))

	sql, args := sb.Build()

	var count int
	err := r.db.GetContext(ctx, &count, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count tickets")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count tickets")
	}

	return count, nil
}
