package landlord

import (
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectolinq"
	"github.com/labstack/echo/v4"

	"github.com/shadyhoon/RentEase/pkg/context"
	landlordsvc "github.com/shadyhoon/RentEase/pkg/landlord"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/tracing"
	"github.com/shadyhoon/RentEase/pkg/utils"
)

// Register registers the landlord routes
func Register(g *echo.Group) {
	g.POST("/agreements", CreateAgreement)
	g.GET("/dashboard", Dashboard)
	g.GET("/tenants", ListTenants)
}

// CreateAgreementRequest is the request body for sending an agreement
type CreateAgreementRequest struct {
	TenantName      string     `json:"tenant_name" validate:"required"`
	TenantEmail     string     `json:"tenant_email" validate:"required,email"`
	PropertyAddress string     `json:"property_address" validate:"required"`
	RentAmount      float64    `json:"rent_amount" validate:"required,gt=0"`
	DurationMonths  int        `json:"duration_months"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
}

// TenantRecordResponse is the response for a tenant record
type TenantRecordResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	PropertyAddress string  `json:"property_address"`
	RentAmount      float64 `json:"rent_amount"`
	IsActive        bool    `json:"is_active"`
	CreatedAt       string  `json:"created_at"`
}

func toTenantResponse(t *models.TenantRecord) *TenantRecordResponse {
	return &TenantRecordResponse{
		ID:              t.ID,
		Name:            t.Name,
		Email:           t.Email,
		PropertyAddress: t.PropertyAddress,
		RentAmount:      t.RentAmount,
		IsActive:        t.IsActive,
		CreatedAt:       t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateAgreement handles POST /api/landlord/agreements
func CreateAgreement(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "LandlordHandler.CreateAgreement")
	defer span.End()

	landlordID := context.GetUserID(ctx)
	if landlordID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	req, err := utils.BindRequest[CreateAgreementRequest](c)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*landlordsvc.Service](ctx)
	if err != nil {
		return err
	}

	agreement, err := svc.CreateAgreement(ctx, landlordID, landlordsvc.CreateAgreementParams{
		TenantName:      req.TenantName,
		TenantEmail:     req.TenantEmail,
		PropertyAddress: req.PropertyAddress,
		RentAmount:      req.RentAmount,
		DurationMonths:  req.DurationMonths,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, agreement)
}

// Dashboard handles GET /api/landlord/dashboard
func Dashboard(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "LandlordHandler.Dashboard")
	defer span.End()

	landlordID := context.GetUserID(ctx)
	if landlordID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*landlordsvc.Service](ctx)
	if err != nil {
		return err
	}

	stats, err := svc.DashboardStats(ctx, landlordID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

// ListTenants handles GET /api/landlord/tenants
func ListTenants(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "LandlordHandler.ListTenants")
	defer span.End()

	landlordID := context.GetUserID(ctx)
	if landlordID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*landlordsvc.Service](ctx)
	if err != nil {
		return err
	}

	tenants, err := svc.ListTenants(ctx, landlordID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ectolinq.Map(tenants, toTenantResponse))
}
