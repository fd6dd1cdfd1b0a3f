package services

import (
	"context"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	"github.com/SscSPs/heartchain_backend/internal/dto"
)

// PaymentGateway is the adapter to the external payment provider.
type PaymentGateway interface {
	// CreateOrder opens an order; apperrors.ErrNotConfigured without credentials.
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)

	// VerifyCheckoutSignature checks HMAC-SHA256(order_id|payment_id) under the key secret.
	VerifyCheckoutSignature(orderID, paymentID, signature string) bool

	// VerifyWebhookSignature checks HMAC-SHA256(body) under the webhook secret.
	// It fails closed: with no secret configured it always returns false. Callers
	// that accept unsigned deliveries in development must check HasWebhookSecret
	// first and decide for themselves, as the reconciliation workflow does.
	VerifyWebhookSignature(body []byte, signature string) bool

	// HasWebhookSecret reports whether webhook signatures can be verified at all.
	HasWebhookSecret() bool

	FetchPayment(ctx context.Context, paymentID string) (*domain.Payment, error)

	// Refund refunds amountMinor, or the full payment when nil.
	Refund(ctx context.Context, paymentID string, amountMinor *int64, reason string) (*domain.Refund, error)

	IsConfigured() bool
	PublicKey() string
}

// PaymentSvcFacade groups the checkout-facing payment operations.
type PaymentSvcFacade interface {
	// CreateOrder checks the campaign exists before opening a gateway order.
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error)

	// VerifyCheckout returns apperrors.ErrSignatureInvalid on mismatch.
	VerifyCheckout(ctx context.Context, req dto.VerifyPaymentRequest) error

	Config() dto.PaymentConfigResponse

	RefundPayment(ctx context.Context, paymentID string, req dto.RefundRequest) (*domain.Refund, error)
}

// EventPublisher emits integration events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
	Close() error
}
