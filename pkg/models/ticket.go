package models

import "time"

type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "Open"
	TicketStatusResolved TicketStatus = "Resolved"
	TicketStatusClosed   TicketStatus = "Closed"
)

type TicketApprovalStatus string

const (
	TicketApprovalPending  TicketApprovalStatus = "Pending"
	TicketApprovalApproved TicketApprovalStatus = "Approved"
)

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// Ticket is a maintenance request raised by a tenant. The landlord resolves
// it, the tenant approves the resolution, and the landlord clears it.
type Ticket struct {
	ID              string               `db:"id" json:"id"`
	TenantUserID    string               `db:"tenant_user_id" json:"tenant_user_id,omitempty"`
	TenantEmail     string               `db:"tenant_email" json:"tenant_email"`
	LandlordID      string               `db:"landlord_id" json:"landlord_id,omitempty"`
	PropertyAddress string               `db:"property_address" json:"property_address"`
	Description     string               `db:"description" json:"description"`
	Priority        TicketPriority       `db:"priority" json:"priority"`
	Status          TicketStatus         `db:"status" json:"status"`
	ApprovalStatus  TicketApprovalStatus `db:"approval_status" json:"approval_status"`
	ResolvedAt      *time.Time           `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt       time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time            `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (Ticket) TableName() string {
	return "tickets"
}
