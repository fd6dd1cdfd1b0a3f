package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/heartchain_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/dto"
)

// Checkout widget branding.
const (
	checkoutName        = "HeartChain"
	checkoutDescription = "Transparent Blockchain Donations"
	checkoutThemeColor  = "#e63355"
	defaultRefundReason = "Donation cancelled"
)

type paymentService struct {
	BaseService
	gateway      portssvc.PaymentGateway
	campaignRepo portsrepo.CampaignReader
}

// NewPaymentService creates the checkout-facing payment service.
func NewPaymentService(gateway portssvc.PaymentGateway, campaignRepo portsrepo.CampaignReader) portssvc.PaymentSvcFacade {
	return &paymentService{gateway: gateway, campaignRepo: campaignRepo}
}

// CreateOrder opens a gateway order for an existing, active campaign.
func (s *paymentService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error) {
	campaign, err := s.campaignRepo.FindCampaignByID(ctx, req.CampaignID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("campaign %s: %w", req.CampaignID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to look up campaign for order", slog.String("campaign_id", req.CampaignID))
		return nil, err
	}
	if !campaign.IsActive {
		// Closed campaigns are hidden from the public listing, so they read as absent.
		return nil, fmt.Errorf("campaign %s is not accepting donations: %w", req.CampaignID, apperrors.ErrNotFound)
	}

	order, err := s.gateway.CreateOrder(ctx, req.ToOrderRequest())
	if err != nil {
		s.LogError(ctx, err, "Failed to create payment order", slog.String("campaign_id", req.CampaignID), slog.Int64("amount_paise", req.Amount))
		return nil, err
	}
	return order, nil
}

func (s *paymentService) VerifyCheckout(ctx context.Context, req dto.VerifyPaymentRequest) error {
	if !s.gateway.VerifyCheckoutSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		s.LogWarn(ctx, "Checkout signature mismatch", slog.String("order_id", req.RazorpayOrderID), slog.String("payment_id", req.RazorpayPaymentID))
		return fmt.Errorf("%w: invalid payment signature", apperrors.ErrSignatureInvalid)
	}
	s.LogInfo(ctx, "Checkout signature verified", slog.String("payment_id", req.RazorpayPaymentID))
	return nil
}

func (s *paymentService) Config() dto.PaymentConfigResponse {
	return dto.PaymentConfigResponse{
		KeyID:       s.gateway.PublicKey(),
		Currency:    domain.DefaultCurrency,
		Name:        checkoutName,
		Description: checkoutDescription,
		ThemeColor:  checkoutThemeColor,
		Configured:  s.gateway.IsConfigured(),
	}
}

// RefundPayment refunds at the gateway only. Campaign totals are left as they
// are; the ledger record is append-only.
func (s *paymentService) RefundPayment(ctx context.Context, paymentID string, req dto.RefundRequest) (*domain.Refund, error) {
	reason := defaultRefundReason
	if req.Reason != nil && strings.TrimSpace(*req.Reason) != "" {
		reason = *req.Reason
	}
	refund, err := s.gateway.Refund(ctx, paymentID, req.Amount, reason)
	if err != nil {
		s.LogError(ctx, err, "Refund failed", slog.String("payment_id", paymentID))
		return nil, err
	}
	s.LogInfo(ctx, "Refund issued", slog.String("payment_id", paymentID), slog.String("refund_id", refund.RefundID))
	return refund, nil
}
