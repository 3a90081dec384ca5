// Package razorpay is a minimal client for the Razorpay Orders API.
package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/shadyhoon/RentEase/pkg/metrics"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

const (
	// DefaultTimeout is the default request timeout
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum response body size (1MB)
	MaxResponseSize = 1 * 1024 * 1024
)

// Config holds gateway credentials and connection settings
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

// Order is a payment order created at the gateway
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client calls the Razorpay REST API
type Client struct {
	config Config
	client *http.Client
	logger ectologger.Logger
}

// NewClient creates a new gateway client
func NewClient(cfg Config, logger ectologger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.razorpay.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// IsConfigured reports whether gateway credentials are present.
func (c *Client) IsConfigured() bool {
	return c != nil && c.config.KeyID != "" && c.config.KeySecret != ""
}

// KeyID returns the public key ID, handed to browser checkout.
func (c *Client) KeyID() string {
	return c.config.KeyID
}

// CreateOrder creates a payment order. Amount is in the currency's smallest
// unit (paise for INR).
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	ctx, span := tracing.StartSpan(ctx, "razorpay.Client.CreateOrder")
	defer span.End()

	payload, err := json.Marshal(map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize order: %w", err)
	}

	url := c.config.BaseURL + "/v1/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.config.KeyID, c.config.KeySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Error("Gateway order request failed")
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.GatewayRequestsTotal.WithLabelValues(http.MethodPost, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithContext(ctx).Errorf("Gateway returned status %d creating order", resp.StatusCode)
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var order Order
	if err := json.NewDecoder(http.MaxBytesReader(nil, resp.Body, MaxResponseSize)).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	c.logger.WithContext(ctx).WithField("order_id", order.ID).Debug("Created gateway order")

	return &order, nil
}

// VerifySignature checks the checkout callback signature:
// HMAC-SHA256(secret, "<order_id>|<payment_id>") hex encoded. Comparison is
// constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.config.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
