// Package payment talks to the Razorpay REST API and verifies its signatures.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/middleware"
	"github.com/SscSPs/heartchain_backend/internal/platform/config"
)

const (
	defaultTimeout = 10 * time.Second
	// maxNoteMessageRunes keeps order notes under the gateway's per-value limit.
	maxNoteMessageRunes = 200
	receiptCampaignChars = 8
	defaultRefundReason  = "Donation cancelled"
)

// Client is a minimal Razorpay API client.
type Client struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a Client from the application configuration.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		keyID:         cfg.RazorpayKeyID,
		keySecret:     cfg.RazorpayKeySecret,
		webhookSecret: cfg.RazorpayWebhookSecret,
		baseURL:       strings.TrimRight(cfg.RazorpayBaseURL, "/"),
		httpClient:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ portssvc.PaymentGateway = (*Client)(nil)

func (c *Client) IsConfigured() bool { return c.keyID != "" && c.keySecret != "" }

func (c *Client) PublicKey() string { return c.keyID }

func (c *Client) HasWebhookSecret() bool { return c.webhookSecret != "" }

// OrderNotes builds the notes attached to an order. The webhook reads them back.
// The donor email is never copied into notes; the gateway echoes notes in every
// payment and webhook payload.
func OrderNotes(req domain.OrderRequest) map[string]string {
	name := domain.AnonymousDonorName
	if req.DonorName != nil && strings.TrimSpace(*req.DonorName) != "" {
		name = *req.DonorName
	}
	notes := map[string]string{
		"campaign_id":  req.CampaignID,
		"donor_name":   name,
		"is_anonymous": strconv.FormatBool(req.IsAnonymous),
	}
	if req.Message != nil && *req.Message != "" {
		notes["message"] = truncateRunes(*req.Message, maxNoteMessageRunes)
	}
	return notes
}

// Receipt derives the merchant receipt reference for an order.
func Receipt(campaignID string, amountMinor int64) string {
	prefix := campaignID
	if len(prefix) > receiptCampaignChars {
		prefix = prefix[:receiptCampaignChars]
	}
	return fmt.Sprintf("hc_%s_%d", prefix, amountMinor)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

type orderPayload struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

type orderResult struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("%w: razorpay credentials missing", apperrors.ErrNotConfigured)
	}
	if req.AmountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	payload := orderPayload{
		Amount:   req.AmountMinor,
		Currency: domain.DefaultCurrency,
		Receipt:  Receipt(req.CampaignID, req.AmountMinor),
		Notes:    OrderNotes(req),
	}
	var res orderResult
	if err := c.do(ctx, http.MethodPost, "/orders", payload, &res); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Created gateway order", "order_id", res.ID, "campaign_id", req.CampaignID, "amount_paise", res.Amount)
	return &domain.Order{
		OrderID:     res.ID,
		AmountMinor: res.Amount,
		Currency:    res.Currency,
		Receipt:     res.Receipt,
		KeyID:       c.keyID,
		Notes:       res.Notes,
	}, nil
}

func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("%w: razorpay credentials missing", apperrors.ErrNotConfigured)
	}
	var p domain.Payment
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type refundPayload struct {
	Amount *int64            `json:"amount,omitempty"`
	Speed  string            `json:"speed"`
	Notes  map[string]string `json:"notes"`
}

func (c *Client) Refund(ctx context.Context, paymentID string, amountMinor *int64, reason string) (*domain.Refund, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("%w: razorpay credentials missing", apperrors.ErrNotConfigured)
	}
	if amountMinor != nil && *amountMinor <= 0 {
		return nil, fmt.Errorf("%w: refund amount must be positive", apperrors.ErrValidation)
	}
	if strings.TrimSpace(reason) == "" {
		reason = defaultRefundReason
	}

	payload := refundPayload{Amount: amountMinor, Speed: "normal", Notes: map[string]string{"reason": reason}}
	var r domain.Refund
	if err := c.do(ctx, http.MethodPost, "/payments/"+paymentID+"/refund", payload, &r); err != nil {
		return nil, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Refund issued", "payment_id", paymentID, "refund_id", r.RefundID, "amount_paise", r.AmountMinor)
	return &r, nil
}

// VerifyCheckoutSignature checks the signature the checkout widget returns.
func (c *Client) VerifyCheckoutSignature(orderID, paymentID, signature string) bool {
	if c.keySecret == "" {
		return false
	}
	return verifyHMAC([]byte(orderID+"|"+paymentID), c.keySecret, signature)
}

// VerifyWebhookSignature checks X-Razorpay-Signature against the raw body.
// Without a webhook secret nothing verifies; see HasWebhookSecret.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	if c.webhookSecret == "" {
		return false
	}
	return verifyHMAC(body, c.webhookSecret, signature)
}

// Sign returns the hex HMAC-SHA256 of payload under secret.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func verifyHMAC(payload []byte, secret, signature string) bool {
	if signature == "" {
		return false
	}
	expected := Sign(payload, secret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode razorpay request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build razorpay request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Downstream("razorpay "+method+" "+path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Downstream("razorpay read response", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var ae apiError
		_ = json.Unmarshal(raw, &ae)
		msg := ae.Error.Description
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: razorpay: %s", apperrors.ErrNotFound, msg)
		}
		if resp.StatusCode == http.StatusBadRequest {
			return fmt.Errorf("%w: razorpay: %s", apperrors.ErrValidation, msg)
		}
		return fmt.Errorf("%w: razorpay %s %s returned %d: %s", apperrors.ErrDownstream, method, path, resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Downstream("razorpay decode response", err)
	}
	return nil
}
