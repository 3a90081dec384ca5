package ticket

import (
	"database/sql"
	"time"

	"github.com/shadyhoon/RentEase/pkg/database"
	"github.com/shadyhoon/RentEase/pkg/models"
)

const (
	ticketsTable = "tickets"
)

// TicketRow represents the database row for a maintenance ticket
type TicketRow struct {
	ID              sql.NullString `db:"id"`
	TenantUserID    sql.NullString `db:"tenant_user_id"`
	TenantEmail     sql.NullString `db:"tenant_email"`
	LandlordID      sql.NullString `db:"landlord_id"`
	PropertyAddress sql.NullString `db:"property_address"`
	Description     sql.NullString `db:"description"`
	Priority        sql.NullString `db:"priority"`
	Status          sql.NullString `db:"status"`
	ApprovalStatus  sql.NullString `db:"approval_status"`
	ResolvedAt      sql.NullTime   `db:"resolved_at"`
	CreatedAt       sql.NullTime   `db:"created_at"`
	UpdatedAt       sql.NullTime   `db:"updated_at"`
}

var ticketStruct = database.NewStruct(new(TicketRow))

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

// FromTicket converts a domain model to a database row
func FromTicket(t *models.Ticket) *TicketRow {
	return &TicketRow{
		ID:              sql.NullString{String: t.ID, Valid: t.ID != ""},
		TenantUserID:    sql.NullString{String: t.TenantUserID, Valid: t.TenantUserID != ""},
		TenantEmail:     sql.NullString{String: t.TenantEmail, Valid: t.TenantEmail != ""},
		LandlordID:      sql.NullString{String: t.LandlordID, Valid: t.LandlordID != ""},
		PropertyAddress: sql.NullString{String: t.PropertyAddress, Valid: t.PropertyAddress != ""},
		Description:     sql.NullString{String: t.Description, Valid: t.Description != ""},
		Priority:        sql.NullString{String: string(t.Priority), Valid: t.Priority != ""},
		Status:          sql.NullString{String: string(t.Status), Valid: t.Status != ""},
		ApprovalStatus:  sql.NullString{String: string(t.ApprovalStatus), Valid: t.ApprovalStatus != ""},
		ResolvedAt:      nullTime(t.ResolvedAt),
		CreatedAt:       sql.NullTime{Time: t.CreatedAt, Valid: !t.CreatedAt.IsZero()},
		UpdatedAt:       sql.NullTime{Time: t.UpdatedAt, Valid: !t.UpdatedAt.IsZero()},
	}
}

// ToTicket converts a database row to a domain model
func ToTicket(row *TicketRow) *models.Ticket {
	return &models.Ticket{
		ID:              row.ID.String,
		TenantUserID:    row.TenantUserID.String,
		TenantEmail:     row.TenantEmail.String,
		LandlordID:      row.LandlordID.String,
		PropertyAddress: row.PropertyAddress.String,
		Description:     row.Description.String,
		Priority:        models.TicketPriority(row.Priority.String),
		Status:          models.TicketStatus(row.Status.String),
		ApprovalStatus:  models.TicketApprovalStatus(row.ApprovalStatus.String),
		ResolvedAt:      timePtr(row.ResolvedAt),
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}

// ToTickets converts a slice of database rows to domain models
func ToTickets(rows []TicketRow) []*models.Ticket {
	tickets := make([]*models.Ticket, len(rows))
	for i, row := range rows {
		tickets[i] = ToTicket(&row)
	}
	return tickets
}

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}
