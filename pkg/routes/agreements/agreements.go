package agreements

import (
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectolinq"
	"github.com/labstack/echo/v4"

	agreementsvc "github.com/shadyhoon/RentEase/pkg/agreements"
	"github.com/shadyhoon/RentEase/pkg/context"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

// RegisterTenant registers the tenant-facing agreement routes
func RegisterTenant(g *echo.Group) {
	g.GET("/agreements", ListForTenant)
	g.POST("/agreements/:id/approve", Approve)
}

// RegisterLandlord registers the landlord-facing agreement routes
func RegisterLandlord(g *echo.Group) {
	g.GET("/agreements", ListForLandlord)
	g.DELETE("/agreements/:id", Delete)
}

// AgreementResponse is the response for an agreement
type AgreementResponse struct {
	ID                      string  `json:"id"`
	LandlordID              string  `json:"landlord_id"`
	TenantUserID            string  `json:"tenant_user_id,omitempty"`
	TenantName              string  `json:"tenant_name"`
	TenantEmail             string  `json:"tenant_email"`
	PropertyAddress         string  `json:"property_address"`
	RentAmount              float64 `json:"rent_amount"`
	DurationMonths          int     `json:"duration_months"`
	StartDate               *string `json:"start_date,omitempty"`
	EndDate                 *string `json:"end_date,omitempty"`
	Status                  string  `json:"status"`
	SentToTenantAt          *string `json:"sent_to_tenant_at,omitempty"`
	TenantApprovalTimestamp *string `json:"tenant_approval_timestamp,omitempty"`
	CreatedAt               string  `json:"created_at"`
	UpdatedAt               string  `json:"updated_at"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

// toResponse converts an agreement model to a response
func toResponse(a *models.Agreement) *AgreementResponse {
	return &AgreementResponse{
		ID:                      a.ID,
		LandlordID:              a.LandlordID,
		TenantUserID:            a.TenantUserID,
		TenantName:              a.TenantName,
		TenantEmail:             a.TenantEmail,
		PropertyAddress:         a.PropertyAddress,
		RentAmount:              a.RentAmount,
		DurationMonths:          agreementsvc.DurationMonths(a),
		StartDate:               formatTime(a.StartDate),
		EndDate:                 formatTime(a.EndDate),
		Status:                  string(a.Status),
		SentToTenantAt:          formatTime(a.SentToTenantAt),
		TenantApprovalTimestamp: formatTime(a.TenantApprovalTimestamp),
		CreatedAt:               a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:               a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ListForTenant handles GET /api/tenant/agreements
func ListForTenant(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AgreementHandler.ListForTenant")
	defer span.End()

	userID := context.GetUserID(ctx)
	email := context.GetUserEmail(ctx)
	if userID == "" && email == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*agreementsvc.Service](ctx)
	if err != nil {
		return err
	}

	agreements, err := svc.ListForTenant(ctx, userID, email, c.QueryParam("status"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ectolinq.Map(agreements, toResponse))
}

// Approve handles POST /api/tenant/agreements/:id/approve
func Approve(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AgreementHandler.Approve")
	defer span.End()

	userID := context.GetUserID(ctx)
	email := context.GetUserEmail(ctx)
	if userID == "" && email == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*agreementsvc.Service](ctx)
	if err != nil {
		return err
	}

	agreement, err := svc.Approve(ctx, c.Param("id"), userID, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toResponse(agreement))
}

// ListForLandlord handles GET /api/landlord/agreements
func ListForLandlord(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AgreementHandler.ListForLandlord")
	defer span.End()

	landlordID := context.GetUserID(ctx)
	if landlordID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*agreementsvc.Service](ctx)
	if err != nil {
		return err
	}

	agreements, err := svc.ListForLandlord(ctx, landlordID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ectolinq.Map(agreements, toResponse))
}

// Delete handles DELETE /api/landlord/agreements/:id
func Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "AgreementHandler.Delete")
	defer span.End()

	landlordID := context.GetUserID(ctx)
	if landlordID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*agreementsvc.Service](ctx)
	if err != nil {
		return err
	}

	agreement, err := svc.SoftDelete(ctx, c.Param("id"), landlordID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toResponse(agreement))
}
