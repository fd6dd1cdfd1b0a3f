package services

import (
	"context"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
)

// ReconciliationSvc turns captured-payment webhooks into reconciled donations.
type ReconciliationSvc interface {
	// HandleWebhook verifies, filters and reconciles one webhook delivery.
	// Returned errors wrap ErrSignatureInvalid, ErrValidation or ErrDownstream.
	HandleWebhook(ctx context.Context, body []byte, signature string) (*domain.WebhookOutcome, error)

	// ReconcilePending resumes up to limit donations left half-reconciled.
	ReconcilePending(ctx context.Context, limit int) (domain.RepairReport, error)
}
