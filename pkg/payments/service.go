package payments

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	agreementrepo "github.com/shadyhoon/RentEase/internal/repositories/agreement"
	paymentrepo "github.com/shadyhoon/RentEase/internal/repositories/payment"
	"github.com/shadyhoon/RentEase/pkg/agreements"
	"github.com/shadyhoon/RentEase/pkg/events"
	"github.com/shadyhoon/RentEase/pkg/metrics"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/razorpay"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

const listLimit = 20

// Order is handed to browser checkout to collect a rent payment.
type Order struct {
	OrderID  string  `json:"order_id"`
	Amount   int64   `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
	Rent     float64 `json:"rent"`
}

// Service owns rent payment collection through the gateway.
type Service struct {
	payments   paymentrepo.PaymentRepository
	agreements agreementrepo.AgreementRepository
	gateway    *razorpay.Client
	emitter    *events.Emitter
	logger     ectologger.Logger
	now        func() time.Time
}

// NewService creates a new payment service
func NewService(payments paymentrepo.PaymentRepository, agreementRepo agreementrepo.AgreementRepository, gateway *razorpay.Client, emitter *events.Emitter, logger ectologger.Logger) *Service {
	return &Service{
		payments:   payments,
		agreements: agreementRepo,
		gateway:    gateway,
		emitter:    emitter,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateOrder opens a gateway order for one month's rent on the agreement and
// records a pending payment.
func (s *Service) CreateOrder(ctx context.Context, agreementID, userID, email string) (*Order, error) {
	ctx, span := tracing.StartSpan(ctx, "PaymentService.CreateOrder")
	defer span.End()

	if !s.gateway.IsConfigured() {
		return nil, httperror.NewHTTPError(http.StatusServiceUnavailable, "Payment gateway is not configured")
	}

	agreement, err := s.agreements.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	if !agreements.MatchesTenant(agreement, userID, email) {
		return nil, httperror.NewHTTPError(http.StatusForbidden, "You are not authorized to pay for this agreement")
	}

	if agreement.RentAmount <= 0 {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Agreement has no rent amount")
	}

	// Gateway amounts are in paise.
	amount := int64(math.Round(agreement.RentAmount * 100))
	receipt := fmt.Sprintf("rent_%s_%d", agreement.ID, s.now().Unix())

	order, err := s.gateway.CreateOrder(ctx, amount, "INR", receipt)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to create gateway order")
		return nil, httperror.NewHTTPError(http.StatusBadGateway, "Failed to create payment order")
	}

	payment := &models.Payment{
		AgreementID:     agreement.ID,
		TenantUserID:    userID,
		TenantEmail:     agreement.TenantEmail,
		LandlordID:      agreement.LandlordID,
		Amount:          agreement.RentAmount,
		Currency:        "INR",
		Status:          models.PaymentStatusPending,
		RazorpayOrderID: order.ID,
	}

	if _, err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	metrics.PaymentsTotal.WithLabelValues(string(models.PaymentStatusPending)).Inc()

	return &Order{
		OrderID:  order.ID,
		Amount:   amount,
		Currency: "INR",
		KeyID:    s.gateway.KeyID(),
		Rent:     agreement.RentAmount,
	}, nil
}

// Verify checks the checkout callback signature and settles the payment.
// An invalid signature marks the payment failed.
func (s *Service) Verify(ctx context.Context, orderID, paymentID, signature, userID, email string) (*models.Payment, error) {
	ctx, span := tracing.StartSpan(ctx, "PaymentService.Verify")
	defer span.End()

	if !s.gateway.IsConfigured() {
		return nil, httperror.NewHTTPError(http.StatusServiceUnavailable, "Payment gateway is not configured")
	}

	payment, err := s.payments.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !matchesTenant(payment, userID, email) {
		return nil, httperror.NewHTTPError(http.StatusForbidden, "You are not authorized to verify this payment")
	}

	payment.RazorpayPaymentID = paymentID

	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		payment.Status = models.PaymentStatusFailed
		if _, err := s.payments.Update(ctx, payment); err != nil {
			s.logger.WithContext(ctx).WithError(err).WithField("order_id", orderID).Warn("Failed to record failed payment")
		}
		metrics.PaymentsTotal.WithLabelValues(string(models.PaymentStatusFailed)).Inc()
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Invalid payment signature")
	}

	now := s.now()
	payment.Status = models.PaymentStatusSuccess
	payment.PaymentDate = &now

	payment, err = s.payments.Update(ctx, payment)
	if err != nil {
		return nil, err
	}

	metrics.PaymentsTotal.WithLabelValues(string(models.PaymentStatusSuccess)).Inc()
	s.emitter.EmitPaymentCompleted(ctx, payment)

	return payment, nil
}

// ListForTenant returns the tenant's payment history.
func (s *Service) ListForTenant(ctx context.Context, userID, email string) ([]*models.Payment, error) {
	ctx, span := tracing.StartSpan(ctx, "PaymentService.ListForTenant")
	defer span.End()

	return s.payments.ListForTenant(ctx, userID, email, listLimit)
}

// ListForLandlord returns rent the landlord has received.
func (s *Service) ListForLandlord(ctx context.Context, landlordID string) ([]*models.Payment, error) {
	ctx, span := tracing.StartSpan(ctx, "PaymentService.ListForLandlord")
	defer span.End()

	return s.payments.ListSuccessForLandlord(ctx, landlordID, listLimit)
}

func matchesTenant(p *models.Payment, userID, email string) bool {
	if userID != "" && p.TenantUserID == userID {
		return true
	}
	if email == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(p.TenantEmail), strings.TrimSpace(email))
}
