package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadyhoon/RentEase/pkg/events"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/razorpay"
)

type fakePaymentRepo struct {
	payments map[string]*models.Payment
}

func newFakePaymentRepo(payments ...*models.Payment) *fakePaymentRepo {
	repo := &fakePaymentRepo{payments: make(map[string]*models.Payment)}
	for _, p := range payments {
		repo.payments[p.RazorpayOrderID] = p
	}
	return repo
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	r.payments[payment.RazorpayOrderID] = payment
	return payment, nil
}

func (r *fakePaymentRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	p, ok := r.payments[orderID]
	if !ok {
		return nil, httperror.NewHTTPError(404, "Payment not found")
	}
	copied := *p
	return &copied, nil
}

func (r *fakePaymentRepo) Update(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	copied := *payment
	r.payments[payment.RazorpayOrderID] = &copied
	return payment, nil
}

func (r *fakePaymentRepo) ListForTenant(ctx context.Context, userID, email string, limit int) ([]*models.Payment, error) {
	var result []*models.Payment
	for _, p := range r.payments {
		if matchesTenant(p, userID, email) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePaymentRepo) ListSuccessForLandlord(ctx context.Context, landlordID string, limit int) ([]*models.Payment, error) {
	var result []*models.Payment
	for _, p := range r.payments {
		if p.LandlordID == landlordID && p.Status == models.PaymentStatusSuccess {
			result = append(result, p)
		}
	}
	return result, nil
}

type fakeAgreementRepo struct {
	agreements map[string]*models.Agreement
}

func (r *fakeAgreementRepo) Create(ctx context.Context, a *models.Agreement) (*models.Agreement, error) {
	return a, nil
}

func (r *fakeAgreementRepo) GetByID(ctx context.Context, id string) (*models.Agreement, error) {
	a, ok := r.agreements[id]
	if !ok {
		return nil, httperror.NewHTTPError(404, "Agreement not found")
	}
	return a, nil
}

func (r *fakeAgreementRepo) Update(ctx context.Context, a *models.Agreement) (*models.Agreement, error) {
	return a, nil
}

func (r *fakeAgreementRepo) ListForTenant(ctx context.Context, userID, email string, statuses []models.AgreementStatus, limit int) ([]*models.Agreement, error) {
	return nil, nil
}

func (r *fakeAgreementRepo) ListForLandlord(ctx context.Context, landlordID string, limit int) ([]*models.Agreement, error) {
	return nil, nil
}

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func testGateway(t *testing.T, secret string) *razorpay.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(razorpay.Order{
			ID:       "order_test123",
			Amount:   int64(body["amount"].(float64)),
			Currency: body["currency"].(string),
			Receipt:  body["receipt"].(string),
			Status:   "created",
		})
	}))
	t.Cleanup(server.Close)

	return razorpay.NewClient(razorpay.Config{
		KeyID:     "rzp_test_key",
		KeySecret: secret,
		BaseURL:   server.URL,
	}, noopLogger())
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestService(payments *fakePaymentRepo, agreements *fakeAgreementRepo, gateway *razorpay.Client) *Service {
	logger := noopLogger()
	return NewService(payments, agreements, gateway, events.NewEmitter(nil, logger), logger)
}

func TestCreateOrder(t *testing.T) {
	gateway := testGateway(t, "secret")
	agreements := &fakeAgreementRepo{agreements: map[string]*models.Agreement{
		"a1": {ID: "a1", LandlordID: "l1", TenantUserID: "u1", TenantEmail: "tenant@example.com", RentAmount: 1500.50},
	}}
	payments := newFakePaymentRepo()
	svc := newTestService(payments, agreements, gateway)

	order, err := svc.CreateOrder(context.Background(), "a1", "u1", "")
	require.NoError(t, err)

	assert.Equal(t, "order_test123", order.OrderID)
	assert.Equal(t, int64(150050), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_test_key", order.KeyID)
	assert.Equal(t, 1500.50, order.Rent)

	pending, err := payments.GetByOrderID(context.Background(), "order_test123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, pending.Status)
	assert.Equal(t, "l1", pending.LandlordID)
}

func TestCreateOrder_GatewayNotConfigured(t *testing.T) {
	svc := newTestService(newFakePaymentRepo(), &fakeAgreementRepo{}, nil)

	_, err := svc.CreateOrder(context.Background(), "a1", "u1", "")
	require.Error(t, err)
	assert.Equal(t, 503, httperror.GetStatusCode(err))
}

func TestCreateOrder_WrongTenantForbidden(t *testing.T) {
	gateway := testGateway(t, "secret")
	agreements := &fakeAgreementRepo{agreements: map[string]*models.Agreement{
		"a1": {ID: "a1", TenantUserID: "u1", TenantEmail: "tenant@example.com", RentAmount: 1000},
	}}
	svc := newTestService(newFakePaymentRepo(), agreements, gateway)

	_, err := svc.CreateOrder(context.Background(), "a1", "u2", "other@example.com")
	require.Error(t, err)
	assert.Equal(t, 403, httperror.GetStatusCode(err))
}

func TestCreateOrder_ZeroRentRejected(t *testing.T) {
	gateway := testGateway(t, "secret")
	agreements := &fakeAgreementRepo{agreements: map[string]*models.Agreement{
		"a1": {ID: "a1", TenantUserID: "u1", RentAmount: 0},
	}}
	svc := newTestService(newFakePaymentRepo(), agreements, gateway)

	_, err := svc.CreateOrder(context.Background(), "a1", "u1", "")
	require.Error(t, err)
	assert.Equal(t, 400, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "Agreement has no rent amount")
}

func TestVerify_ValidSignature(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	gateway := testGateway(t, "secret")
	payments := newFakePaymentRepo(&models.Payment{
		ID:              "p1",
		TenantUserID:    "u1",
		Status:          models.PaymentStatusPending,
		RazorpayOrderID: "order_1",
	})
	svc := newTestService(payments, &fakeAgreementRepo{}, gateway).
		WithClock(func() time.Time { return now })

	payment, err := svc.Verify(context.Background(), "order_1", "pay_1", sign("secret", "order_1", "pay_1"), "u1", "")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusSuccess, payment.Status)
	assert.Equal(t, "pay_1", payment.RazorpayPaymentID)
	require.NotNil(t, payment.PaymentDate)
	assert.Equal(t, now, *payment.PaymentDate)
}

func TestVerify_InvalidSignatureMarksFailed(t *testing.T) {
	gateway := testGateway(t, "secret")
	payments := newFakePaymentRepo(&models.Payment{
		ID:              "p1",
		TenantUserID:    "u1",
		Status:          models.PaymentStatusPending,
		RazorpayOrderID: "order_1",
	})
	svc := newTestService(payments, &fakeAgreementRepo{}, gateway)

	_, err := svc.Verify(context.Background(), "order_1", "pay_1", "bogus", "u1", "")
	require.Error(t, err)
	assert.Equal(t, 400, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "Invalid payment signature")

	saved, getErr := payments.GetByOrderID(context.Background(), "order_1")
	require.NoError(t, getErr)
	assert.Equal(t, models.PaymentStatusFailed, saved.Status)
}

func TestVerify_WrongTenantForbidden(t *testing.T) {
	gateway := testGateway(t, "secret")
	payments := newFakePaymentRepo(&models.Payment{
		ID:              "p1",
		TenantUserID:    "u1",
		TenantEmail:     "tenant@example.com",
		Status:          models.PaymentStatusPending,
		RazorpayOrderID: "order_1",
	})
	svc := newTestService(payments, &fakeAgreementRepo{}, gateway)

	_, err := svc.Verify(context.Background(), "order_1", "pay_1", sign("secret", "order_1", "pay_1"), "u2", "other@example.com")
	require.Error(t, err)
	assert.Equal(t, 403, httperror.GetStatusCode(err))
}

func TestVerifySignature(t *testing.T) {
	gateway := razorpay.NewClient(razorpay.Config{KeyID: "k", KeySecret: "secret"}, noopLogger())

	assert.True(t, gateway.VerifySignature("order_1", "pay_1", sign("secret", "order_1", "pay_1")))
	assert.False(t, gateway.VerifySignature("order_1", "pay_1", sign("wrong", "order_1", "pay_1")))
	assert.False(t, gateway.VerifySignature("order_1", "pay_2", sign("secret", "order_1", "pay_1")))
}
