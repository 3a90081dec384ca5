package tickets

import (
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectolinq"
	"github.com/labstack/echo/v4"

	"github.com/shadyhoon/RentEase/pkg/context"
	"github.com/shadyhoon/RentEase/pkg/models"
	ticketsvc "github.com/shadyhoon/RentEase/pkg/tickets"
	"github.com/shadyhoon/RentEase/pkg/tracing"
	"github.com/shadyhoon/RentEase/pkg/utils"
)

// RegisterTenant registers the tenant-facing ticket routes
func RegisterTenant(g *echo.Group) {
	g.GET("/tickets", ListForTenant)
	g.POST("/tickets", Create)
	g.POST("/tickets/:id/approve", ApproveResolution)
}

// RegisterLandlord registers the landlord-facing ticket routes
func RegisterLandlord(g *echo.Group) {
	g.GET("/tickets", ListForLandlord)
	g.POST("/tickets/:id/resolve", Resolve)
	g.POST("/tickets/:id/clear", Clear)
}

// CreateTicketRequest is the request body for raising a ticket
type CreateTicketRequest struct {
	Description     string `json:"description" validate:"required"`
	PropertyAddress string `json:"property_address"`
	Priority        string `json:"priority"`
}

// TicketResponse is the response for a ticket
type TicketResponse struct {
	ID              string  `json:"id"`
	TenantUserID    string  `json:"tenant_user_id,omitempty"`
	TenantEmail     string  `json:"tenant_email"`
	PropertyAddress string  `json:"property_address,omitempty"`
	Description     string  `json:"description"`
	Priority        string  `json:"priority"`
	Status          string  `json:"status"`
	ApprovalStatus  string  `json:"approval_status"`
	ResolvedAt      *string `json:"resolved_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

// toResponse converts a ticket model to a response
func toResponse(t *models.Ticket) *TicketResponse {
	return &TicketResponse{
		ID:              t.ID,
		TenantUserID:    t.TenantUserID,
		TenantEmail:     t.TenantEmail,
		PropertyAddress: t.PropertyAddress,
		Description:     t.Description,
		Priority:        string(t.Priority),
		Status:          string(t.Status),
		ApprovalStatus:  string(t.ApprovalStatus),
		ResolvedAt:      formatTime(t.ResolvedAt),
		CreatedAt:       t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /api/tenant/tickets
func Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TicketHandler.Create")
	defer span.End()

	userID := context.GetUserID(ctx)
	email := context.GetUserEmail(ctx)
	if userID == "" && email == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	req, err := utils.BindRequest[CreateTicketRequest](c)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*ticketsvc.Service](ctx)
	if err != nil {
		return err
	}

	ticket, err := svc.Create(ctx, ticketsvc.CreateParams{
		TenantUserID:    userID,
		TenantEmail:     email,
		PropertyAddress: req.PropertyAddress,
		Description:     req.Description,
		Priority:        req.Priority,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toResponse(ticket))
}

// ListForTenant handles GET /api/tenant/tickets
func ListForTenant(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TicketHandler.ListForTenant")
	defer span.End()

	userID := context.GetUserID(ctx)
	email := context.GetUserEmail(ctx)
	if userID == "" && email == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*ticketsvc.Service](ctx)
	if err != nil {
		return err
	}

	tickets, err := svc.ListForTenant(ctx, userID, email, c.QueryParam("status"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ectolinq.Map(tickets, toResponse))
}

// ApproveResolution handles POST /api/tenant/tickets/:id/approve
func ApproveResolution(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TicketHandler.ApproveResolution")
	defer span.End()

	userID := context.GetUserID(ctx)
	email := context.GetUserEmail(ctx)
	if userID == "" && email == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*ticketsvc.Service](ctx)
	if err != nil {
		return err
	}

	ticket, err := svc.ApproveResolution(ctx, c.Param("id"), userID, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toResponse(ticket))
}

// ListForLandlord handles GET /api/landlord/tickets
func ListForLandlord(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TicketHandler.ListForLandlord")
	defer span.End()

	if context.GetUserID(ctx) == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*ticketsvc.Service](ctx)
	if err != nil {
		return err
	}

	tickets, err := svc.ListForLandlord(ctx, c.QueryParam("status"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ectolinq.Map(tickets, toResponse))
}

// Resolve handles POST /api/landlord/tickets/:id/resolve
func Resolve(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TicketHandler.Resolve")
	defer span.End()

	landlordID := context.GetUserID(ctx)
	if landlordID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*ticketsvc.Service](ctx)
	if err != nil {
		return err
	}

	ticket, err := svc.Resolve(ctx, c.Param("id"), landlordID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toResponse(ticket))
}

// Clear handles POST /api/landlord/tickets/:id/clear
func Clear(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TicketHandler.Clear")
	defer span.End()

	landlordID := context.GetUserID(ctx)
	if landlordID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*ticketsvc.Service](ctx)
	if err != nil {
		return err
	}

	ticket, err := svc.Clear(ctx, c.Param("id"), landlordID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toResponse(ticket))
}
