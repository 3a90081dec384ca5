package payment

import (
	"context"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/shadyhoon/RentEase/pkg/database"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	ListForTenant(ctx context.Context, userID, email string, limit int) ([]*models.Payment, error)
	ListSuccessForLandlord(ctx context.Context, landlordID string, limit int) ([]*models.Payment, error)
}

// Repository implements PaymentRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new payment repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new payment
func (r *Repository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	ctx, span := tracing.StartSpan(ctx, "PaymentRepository.Create")
	defer span.End()

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}

	now := Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	row := FromPayment(payment)
	ib := paymentStruct.InsertInto(paymentsTable, row)
	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":           payment.ID,
		"agreement_id": payment.AgreementID,
		"order_id":     payment.RazorpayOrderID,
	}).Debug("Creating payment")

	_, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create payment")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create payment")
	}

	return payment, nil
}

// GetByOrderID retrieves a payment by its gateway order ID
func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	ctx, span := tracing.StartSpan(ctx, "PaymentRepository.GetByOrderID")
	defer span.End()

	sb := paymentStruct.SelectFrom(paymentsTable)
	sb.Where(sb.Equal("razorpay_order_id", orderID))

	sql, args := sb.Build()

	var row PaymentRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "Payment not found")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get payment")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get payment")
	}

	return ToPayment(&row), nil
}

// Update updates an existing payment
func (r *Repository) Update(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	ctx, span := tracing.StartSpan(ctx, "PaymentRepository.Update")
	defer span.End()

	payment.UpdatedAt = Now()

	ub := paymentStruct.Update(paymentsTable, FromPayment(payment))
	ub.Where(ub.Equal("id", payment.ID))

	sql, args := ub.Build()

	result, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update payment")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update payment")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "Payment not found")
	}

	return payment, nil
}

// ListForTenant retrieves payments made by a tenant, matched by user ID or email
func (r *Repository) ListForTenant(ctx context.Context, userID, email string, limit int) ([]*models.Payment, error) {
	ctx, span := tracing.StartSpan(ctx, "PaymentRepository.ListForTenant")
	defer span.End()

	sb := paymentStruct.SelectFrom(paymentsTable)
	sb.Where(
		sb.Or(
			sb.Equal("tenant_user_id", userID),
			sb.Equal("LOWER(tenant_email)", strings.ToLower(strings.TrimSpace(email))),
		),
	)
	sb.OrderBy("created_at").Desc()
	sb.Limit(limit)

	sql, args := sb.Build()

	var rows []PaymentRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list payments for tenant")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list payments")
	}

	return ToPayments(rows), nil
}

// ListSuccessForLandlord retrieves successful payments received by a landlord
func (r *Repository) ListSuccessForLandlord(ctx context.Context, landlordID string, limit int) ([]*models.Payment, error) {
	ctx, span := tracing.StartSpan(ctx, "PaymentRepository.ListSuccessForLandlord")
	defer span.End()

	sb := paymentStruct.SelectFrom(paymentsTable)
	sb.Where(
		sb.Equal("landlord_id", landlordID),
		sb.Equal("status", string(models.PaymentStatusSuccess)),
	)
	sb.OrderBy("created_at").Desc()
	sb.Limit(limit)

	sql, args := sb.Build()

	var rows []PaymentRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list payments for landlord")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list payments")
	}

	return ToPayments(rows), nil
}
