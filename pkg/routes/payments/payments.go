package payments

import (
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectolinq"
	"github.com/labstack/echo/v4"

	"github.com/shadyhoon/RentEase/pkg/context"
	"github.com/shadyhoon/RentEase/pkg/models"
	paymentsvc "github.com/shadyhoon/RentEase/pkg/payments"
	"github.com/shadyhoon/RentEase/pkg/tracing"
	"github.com/shadyhoon/RentEase/pkg/utils"
)

// RegisterTenant registers the tenant-facing payment routes
func RegisterTenant(g *echo.Group) {
	g.GET("/payments", ListForTenant)
	g.POST("/payments/order", CreateOrder)
	g.POST("/payments/verify", Verify)
}

// RegisterLandlord registers the landlord-facing payment routes
func RegisterLandlord(g *echo.Group) {
	g.GET("/payments", ListForLandlord)
}

// CreateOrderRequest is the request body for opening a payment order
type CreateOrderRequest struct {
	AgreementID string `json:"agreement_id" validate:"required"`
}

// VerifyRequest is the checkout callback payload
type VerifyRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// PaymentResponse is the response for a payment
type PaymentResponse struct {
	ID          string  `json:"id"`
	AgreementID string  `json:"agreement_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	OrderID     string  `json:"order_id"`
	PaymentDate *string `json:"payment_date,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

// toResponse converts a payment model to a response
func toResponse(p *models.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:          p.ID,
		AgreementID: p.AgreementID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Status:      string(p.Status),
		OrderID:     p.RazorpayOrderID,
		PaymentDate: formatTime(p.PaymentDate),
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateOrder handles POST /api/tenant/payments/order
func CreateOrder(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "PaymentHandler.CreateOrder")
	defer span.End()

	userID := context.GetUserID(ctx)
	email := context.GetUserEmail(ctx)
	if userID == "" && email == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	req, err := utils.BindRequest[CreateOrderRequest](c)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*paymentsvc.Service](ctx)
	if err != nil {
		return err
	}

	order, err := svc.CreateOrder(ctx, req.AgreementID, userID, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, order)
}

// Verify handles POST /api/tenant/payments/verify
func Verify(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "PaymentHandler.Verify")
	defer span.End()

	userID := context.GetUserID(ctx)
	email := context.GetUserEmail(ctx)
	if userID == "" && email == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	req, err := utils.BindRequest[VerifyRequest](c)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*paymentsvc.Service](ctx)
	if err != nil {
		return err
	}

	payment, err := svc.Verify(ctx, req.OrderID, req.PaymentID, req.Signature, userID, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toResponse(payment))
}

// ListForTenant handles GET /api/tenant/payments
func ListForTenant(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "PaymentHandler.ListForTenant")
	defer span.End()

	userID := context.GetUserID(ctx)
	email := context.GetUserEmail(ctx)
	if userID == "" && email == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*paymentsvc.Service](ctx)
	if err != nil {
		return err
	}

	payments, err := svc.ListForTenant(ctx, userID, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ectolinq.Map(payments, toResponse))
}

// ListForLandlord handles GET /api/landlord/payments
func ListForLandlord(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "PaymentHandler.ListForLandlord")
	defer span.End()

	landlordID := context.GetUserID(ctx)
	if landlordID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx, svc, err := ectoinject.GetContext[*paymentsvc.Service](ctx)
	if err != nil {
		return err
	}

	payments, err := svc.ListForLandlord(ctx, landlordID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ectolinq.Map(payments, toResponse))
}
