package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/heartchain_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/dto"
	"github.com/SscSPs/heartchain_backend/internal/middleware"
	"github.com/SscSPs/heartchain_backend/internal/platform/metrics"
	"github.com/SscSPs/heartchain_backend/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// EventPaymentCaptured is the only webhook event that creates a donation.
const EventPaymentCaptured = "payment.captured"

// defaultLedgerClaimTTL outlives the default chain confirmation wait.
const defaultLedgerClaimTTL = 3 * time.Minute

// Failure steps reported to metrics.
const (
	stepLookup  = "lookup"
	stepPersist = "persist"
	stepClaim   = "claim"
	stepLedger  = "ledger"
	stepAttach  = "attach"
	stepStats   = "stats"
)

type reconciliationService struct {
	BaseService
	donationRepo  portsrepo.DonationRepositoryFacade
	gateway       portssvc.PaymentGateway
	ledger        portssvc.LedgerRecorder
	metrics       *metrics.Metrics
	publisher     portssvc.EventPublisher
	eventsTopic   string
	strictWebhook bool
	claimTTL      time.Duration
	validate      *validator.Validate
	now           func() time.Time
}

// ReconciliationOption configures the reconciliation service.
type ReconciliationOption func(*reconciliationService)

// WithReconciliationMetrics records workflow outcomes on m.
func WithReconciliationMetrics(m *metrics.Metrics) ReconciliationOption {
	return func(s *reconciliationService) { s.metrics = m }
}

// WithEventPublisher publishes a donation.reconciled event to topic after each success.
func WithEventPublisher(p portssvc.EventPublisher, topic string) ReconciliationOption {
	return func(s *reconciliationService) {
		s.publisher = p
		if topic != "" {
			s.eventsTopic = topic
		}
	}
}

// WithStrictWebhook rejects every delivery when no webhook secret is configured.
func WithStrictWebhook(strict bool) ReconciliationOption {
	return func(s *reconciliationService) { s.strictWebhook = strict }
}

// WithLedgerClaimTTL sets how long a delivery owns a donation's ledger write.
// It must exceed the ledger's own confirmation timeout.
func WithLedgerClaimTTL(d time.Duration) ReconciliationOption {
	return func(s *reconciliationService) {
		if d > 0 {
			s.claimTTL = d
		}
	}
}

// NewReconciliationService creates the webhook reconciliation workflow.
func NewReconciliationService(
	donationRepo portsrepo.DonationRepositoryFacade,
	gateway portssvc.PaymentGateway,
	ledger portssvc.LedgerRecorder,
	opts ...ReconciliationOption,
) portssvc.ReconciliationSvc {
	s := &reconciliationService{
		donationRepo: donationRepo,
		gateway:      gateway,
		ledger:       ledger,
		eventsTopic:  domain.EventDonationReconciled,
		claimTTL:     defaultLedgerClaimTTL,
		validate:     validator.New(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleWebhook runs one delivery through the workflow and records its outcome.
func (s *reconciliationService) HandleWebhook(ctx context.Context, body []byte, signature string) (*domain.WebhookOutcome, error) {
	outcome, err := s.handleWebhook(ctx, body, signature)
	switch {
	case err == nil:
		s.metrics.WebhookHandled(string(outcome.Status))
	case errors.Is(err, apperrors.ErrSignatureInvalid):
		s.metrics.WebhookHandled("rejected")
	case errors.Is(err, apperrors.ErrValidation):
		s.metrics.WebhookHandled("invalid")
	default:
		s.metrics.WebhookHandled("failed")
	}
	return outcome, err
}

func (s *reconciliationService) handleWebhook(ctx context.Context, body []byte, signature string) (*domain.WebhookOutcome, error) {
	if err := s.verifySignature(ctx, body, signature); err != nil {
		return nil, err
	}

	var payload dto.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON payload: %v", apperrors.ErrValidation, err)
	}

	if payload.Event != EventPaymentCaptured {
		s.LogInfo(ctx, "Ignoring webhook event", slog.String("event", payload.Event))
		return &domain.WebhookOutcome{Status: domain.WebhookStatusIgnored, Event: payload.Event}, nil
	}

	entity := payload.PaymentEntity()
	if entity == nil {
		return nil, fmt.Errorf("%w: missing payment entity", apperrors.ErrValidation)
	}
	if err := s.validate.Struct(entity); err != nil {
		return nil, fmt.Errorf("%w: invalid payment entity: %v", apperrors.ErrValidation, err)
	}

	logger := s.GetLogger(ctx).With(slog.String("razorpay_payment_id", entity.ID))
	ctx = middleware.WithLogger(ctx, logger)

	existing, err := s.donationRepo.FindDonationByGatewayPaymentID(ctx, entity.ID)
	switch {
	case err == nil:
		return s.resumeExisting(ctx, existing, entity.Amount, entity.DonorEmail())
	case !errors.Is(err, apperrors.ErrNotFound):
		s.metrics.ReconciliationFailed(stepLookup)
		s.LogError(ctx, err, "Idempotency lookup failed")
		return nil, apperrors.Downstream("donation lookup", err)
	}

	donation := s.newDonation(entity)
	if err := s.donationRepo.SaveDonation(ctx, donation); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			// A concurrent delivery of the same payment persisted first.
			winner, findErr := s.donationRepo.FindDonationByGatewayPaymentID(ctx, entity.ID)
			if findErr != nil {
				s.metrics.ReconciliationFailed(stepLookup)
				return nil, apperrors.Downstream("donation lookup after duplicate", findErr)
			}
			s.LogInfo(ctx, "Concurrent delivery already persisted this payment", slog.String("donation_id", winner.DonationID))
			return alreadyProcessed(winner), nil
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, fmt.Errorf("%w: campaign %s does not exist", apperrors.ErrValidation, donation.CampaignID)
		}
		s.metrics.ReconciliationFailed(stepPersist)
		s.LogError(ctx, err, "Failed to persist donation")
		return nil, apperrors.Downstream("persist donation", err)
	}
	s.LogInfo(ctx, "Donation persisted",
		slog.String("donation_id", donation.DonationID),
		slog.String("campaign_id", donation.CampaignID),
		slog.Int64("amount_paise", entity.Amount),
	)

	// The inserted row already carries this delivery's ledger claim.
	return s.reconcile(ctx, &donation, entity.Amount, entity.DonorEmail(), false, true)
}

func (s *reconciliationService) verifySignature(ctx context.Context, body []byte, signature string) error {
	if s.gateway.HasWebhookSecret() {
		if strings.TrimSpace(signature) == "" {
			s.LogWarn(ctx, "Webhook rejected: signature header missing")
			return fmt.Errorf("%w: missing signature", apperrors.ErrSignatureInvalid)
		}
		if !s.gateway.VerifyWebhookSignature(body, signature) {
			s.LogWarn(ctx, "Webhook rejected: signature mismatch")
			return fmt.Errorf("%w: signature mismatch", apperrors.ErrSignatureInvalid)
		}
		return nil
	}

	if s.strictWebhook {
		s.LogWarn(ctx, "Webhook rejected: no webhook secret configured and strict mode is on")
		return fmt.Errorf("%w: webhook secret not configured", apperrors.ErrSignatureInvalid)
	}
	s.LogWarn(ctx, "Webhook accepted WITHOUT signature verification: no webhook secret configured")
	return nil
}

func (s *reconciliationService) newDonation(entity *dto.WebhookPaymentEntity) domain.Donation {
	notes := entity.Notes
	anonymous := notes.Anonymous()

	method := domain.PaymentMethod(strings.ToLower(strings.TrimSpace(entity.Method)))
	if method == "" {
		method = domain.PaymentMethodUnknown
	}

	name := domain.AnonymousDonorName
	if notes.DonorName != nil && strings.TrimSpace(*notes.DonorName) != "" {
		name = *notes.DonorName
	}

	// Anonymous donors keep no email at rest.
	email := entity.DonorEmail()
	if anonymous {
		email = nil
	}

	var message *string
	if notes.Message != nil && *notes.Message != "" {
		m := truncateRunes(*notes.Message, domain.MaxDonationMessageLength)
		message = &m
	}

	claimedAt := s.now().UTC()
	return domain.Donation{
		DonationID:       uuid.NewString(),
		CampaignID:       notes.CampaignID,
		DonorName:        &name,
		DonorEmail:       email,
		Amount:           utils.MinorToMajor(entity.Amount),
		PaymentMethod:    method,
		GatewayPaymentID: entity.ID,
		IsAnonymous:      anonymous,
		Message:          message,
		CreatedAt:        claimedAt,
		LedgerClaimedAt:  &claimedAt,
	}
}

func (s *reconciliationService) resumeExisting(ctx context.Context, existing *domain.Donation, amountMinor int64, email *string) (*domain.WebhookOutcome, error) {
	if existing.IsReconciled() {
		s.LogInfo(ctx, "Payment already processed", slog.String("donation_id", existing.DonationID))
		return alreadyProcessed(existing), nil
	}
	s.LogWarn(ctx, "Resuming partially reconciled donation",
		slog.String("donation_id", existing.DonationID),
		slog.Bool("has_ledger_tx", existing.LedgerTxID != nil),
		slog.Bool("stats_applied", existing.StatsApplied),
	)
	return s.reconcile(ctx, existing, amountMinor, email, true, false)
}

// claimLedgerStep takes ownership of d's ledger write. When another attempt
// owns it, the returned outcome is what this attempt should answer with; when
// the ledger id landed in the meantime, the refreshed donation is returned instead.
func (s *reconciliationService) claimLedgerStep(ctx context.Context, d *domain.Donation) (*domain.Donation, *domain.WebhookOutcome, error) {
	now := s.now().UTC()
	claimed, err := s.donationRepo.ClaimLedgerStep(ctx, d.DonationID, now, now.Add(-s.claimTTL))
	if err != nil {
		s.metrics.ReconciliationFailed(stepClaim)
		s.LogError(ctx, err, "Failed to claim ledger step", slog.String("donation_id", d.DonationID))
		return nil, nil, apperrors.Downstream("claim ledger step", err)
	}
	if claimed {
		return d, nil, nil
	}

	current, err := s.donationRepo.FindDonationByID(ctx, d.DonationID)
	if err != nil {
		s.metrics.ReconciliationFailed(stepLookup)
		return nil, nil, apperrors.Downstream("donation lookup after lost claim", err)
	}
	if current.LedgerTxID != nil {
		return current, nil, nil
	}
	s.LogInfo(ctx, "Another attempt is writing the ledger record for this donation", slog.String("donation_id", d.DonationID))
	return nil, alreadyProcessed(current), nil
}

func (s *reconciliationService) releaseLedgerClaim(ctx context.Context, donationID string) {
	if err := s.donationRepo.ReleaseLedgerClaim(ctx, donationID); err != nil {
		s.LogError(ctx, err, "Failed to release ledger claim; it will expire on its own", slog.String("donation_id", donationID))
	}
}

// reconcile runs the ledger, attach and stats steps that are still missing on d.
// ownsClaim is set when the caller already holds d's ledger claim.
func (s *reconciliationService) reconcile(ctx context.Context, d *domain.Donation, amountMinor int64, email *string, resumed, ownsClaim bool) (*domain.WebhookOutcome, error) {
	if d.LedgerTxID == nil && !ownsClaim {
		current, outcome, err := s.claimLedgerStep(ctx, d)
		if err != nil || outcome != nil {
			return outcome, err
		}
		d = current
	}

	if d.LedgerTxID == nil {
		start := time.Now()
		txID, err := s.ledger.Record(ctx, domain.LedgerEntryRequest{
			CampaignID:    d.CampaignID,
			AmountMinor:   amountMinor,
			DonorEmail:    email,
			Anonymous:     d.IsAnonymous,
			PaymentMethod: string(d.PaymentMethod),
		})
		s.metrics.LedgerRecorded(s.ledger.Mode(), time.Since(start), err)
		if err != nil {
			s.metrics.ReconciliationFailed(stepLedger)
			s.LogError(ctx, err, "Ledger write failed; donation left without ledger record", slog.String("donation_id", d.DonationID))
			s.releaseLedgerClaim(ctx, d.DonationID)
			return nil, apperrors.Downstream("ledger record", err)
		}

		updated, err := s.donationRepo.AttachLedgerTx(ctx, d.DonationID, txID)
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				winner, findErr := s.donationRepo.FindDonationByID(ctx, d.DonationID)
				if findErr != nil {
					s.metrics.ReconciliationFailed(stepLookup)
					return nil, apperrors.Downstream("donation lookup after attach race", findErr)
				}
				s.LogWarn(ctx, "Another attempt attached a ledger record first; this record is orphaned",
					slog.String("donation_id", d.DonationID),
					slog.String("orphan_tx_hash", txID),
				)
				return alreadyProcessed(winner), nil
			}
			s.metrics.ReconciliationFailed(stepAttach)
			s.LogError(ctx, err, "Failed to attach ledger record", slog.String("donation_id", d.DonationID), slog.String("tx_hash", txID))
			return nil, apperrors.Downstream("attach ledger tx", err)
		}
		d = updated
	}

	if !d.StatsApplied {
		campaign, applied, err := s.donationRepo.ApplyDonationStats(ctx, d.DonationID)
		if err != nil {
			s.metrics.ReconciliationFailed(stepStats)
			s.LogError(ctx, err, "Failed to apply campaign stats", slog.String("donation_id", d.DonationID))
			return nil, apperrors.Downstream("apply campaign stats", err)
		}
		if applied {
			s.LogInfo(ctx, "Campaign stats updated",
				slog.String("campaign_id", campaign.CampaignID),
				slog.String("raised_amount", campaign.RaisedAmount.String()),
				slog.Int("donor_count", campaign.DonorCount),
			)
		}
		d.StatsApplied = true
	}

	txID := *d.LedgerTxID
	s.metrics.DonationReconciled(string(d.PaymentMethod), amountMinor)
	s.LogInfo(ctx, "Donation reconciled", slog.String("donation_id", d.DonationID), slog.String("tx_hash", txID), slog.Bool("resumed", resumed))
	s.publishReconciled(ctx, d, amountMinor, resumed)

	return &domain.WebhookOutcome{
		Status:      domain.WebhookStatusSuccess,
		DonationID:  d.DonationID,
		LedgerTxID:  txID,
		ExplorerURL: s.ledger.ExplorerURL(txID),
		Resumed:     resumed,
	}, nil
}

func (s *reconciliationService) publishReconciled(ctx context.Context, d *domain.Donation, amountMinor int64, resumed bool) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(domain.DonationReconciledEvent{
		DonationID:       d.DonationID,
		CampaignID:       d.CampaignID,
		GatewayPaymentID: d.GatewayPaymentID,
		AmountMinor:      amountMinor,
		LedgerTxID:       *d.LedgerTxID,
		PaymentMethod:    string(d.PaymentMethod),
		Resumed:          resumed,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to encode reconciled event", slog.String("donation_id", d.DonationID))
		return
	}
	if err := s.publisher.Publish(ctx, s.eventsTopic, d.DonationID, payload); err != nil {
		s.LogError(ctx, err, "Failed to publish reconciled event", slog.String("donation_id", d.DonationID), slog.String("topic", s.eventsTopic))
	}
}

// ReconcilePending finishes donations an earlier delivery left half done.
func (s *reconciliationService) ReconcilePending(ctx context.Context, limit int) (domain.RepairReport, error) {
	var report domain.RepairReport

	pending, err := s.donationRepo.ListUnreconciledDonations(ctx, s.now().UTC().Add(-s.claimTTL), limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list unreconciled donations")
		return report, apperrors.Downstream("list unreconciled donations", err)
	}
	report.Scanned = len(pending)

	for i := range pending {
		d := pending[i]
		amountMinor, err := utils.MajorToMinor(d.Amount)
		if err != nil {
			report.Failed++
			s.LogError(ctx, err, "Stored donation amount cannot be expressed in paise", slog.String("donation_id", d.DonationID))
			continue
		}
		outcome, err := s.reconcile(ctx, &d, amountMinor, d.DonorEmail, true, false)
		if err != nil {
			report.Failed++
			continue
		}
		if outcome.Status == domain.WebhookStatusSuccess {
			report.Reconciled++
		} else {
			report.Skipped++
		}
	}

	s.LogInfo(ctx, "Repair pass finished",
		slog.Int("scanned", report.Scanned),
		slog.Int("reconciled", report.Reconciled),
		slog.Int("failed", report.Failed),
		slog.Int("skipped", report.Skipped),
	)
	return report, nil
}

func alreadyProcessed(d *domain.Donation) *domain.WebhookOutcome {
	outcome := &domain.WebhookOutcome{Status: domain.WebhookStatusAlreadyProcessed, DonationID: d.DonationID}
	if d.LedgerTxID != nil {
		outcome.LedgerTxID = *d.LedgerTxID
	}
	return outcome
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
