package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/middleware"
	"github.com/SscSPs/heartchain_backend/internal/utils"
	"github.com/SscSPs/heartchain_backend/internal/utils/identity"
)

// ModeSimulated is reported by SimulatedRecorder.
const ModeSimulated = "simulated"

// txHashBytes matches the length of an EVM transaction hash.
const txHashBytes = 32

// SimulatedRecorder issues random transaction ids without touching a chain.
type SimulatedRecorder struct {
	store       Store
	explorerURL string
	now         func() time.Time
}

// NewSimulatedRecorder creates a SimulatedRecorder writing into store.
func NewSimulatedRecorder(store Store, explorerBaseURL string) *SimulatedRecorder {
	return &SimulatedRecorder{
		store:       store,
		explorerURL: explorerBaseURL,
		now:         time.Now,
	}
}

var _ portssvc.LedgerRecorder = (*SimulatedRecorder)(nil)

func validateEntry(req domain.LedgerEntryRequest) error {
	if req.AmountMinor <= 0 {
		return fmt.Errorf("%w: ledger amount must be positive, got %d", apperrors.ErrValidation, req.AmountMinor)
	}
	if strings.TrimSpace(req.CampaignID) == "" {
		return fmt.Errorf("%w: ledger campaign id is required", apperrors.ErrValidation)
	}
	return nil
}

func newRecord(req domain.LedgerEntryRequest, at time.Time) domain.LedgerRecord {
	return domain.LedgerRecord{
		CampaignID:    req.CampaignID,
		AmountMinor:   req.AmountMinor,
		DonorIdentity: identity.DonorIdentity(req.DonorEmail, req.Anonymous),
		PaymentMethod: req.PaymentMethod,
		Timestamp:     at.UTC(),
	}
}

func (r *SimulatedRecorder) Record(ctx context.Context, req domain.LedgerEntryRequest) (string, error) {
	if err := validateEntry(req); err != nil {
		return "", err
	}

	rec := newRecord(req, r.now())
	txID, err := utils.RandomTxHash(txHashBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate ledger id: %w", err)
	}
	rec.TxID = txID

	if err := r.store.Append(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to append simulated ledger record: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Ledger record written",
		slog.String("mode", ModeSimulated),
		slog.String("tx_hash", rec.TxID),
		slog.String("campaign_id", rec.CampaignID),
		slog.Int64("amount_paise", rec.AmountMinor),
		slog.String("donor_id", rec.DonorIdentity),
		slog.String("payment_method", rec.PaymentMethod),
	)
	return rec.TxID, nil
}

func (r *SimulatedRecorder) Read(ctx context.Context, txID string) (*domain.LedgerRecord, error) {
	return r.store.Get(ctx, txID)
}

func (r *SimulatedRecorder) Recent(ctx context.Context, limit int) ([]domain.LedgerRecord, error) {
	return r.store.Recent(ctx, limit)
}

func (r *SimulatedRecorder) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx)
}

func (r *SimulatedRecorder) TotalAmount(ctx context.Context) (int64, error) {
	return r.store.TotalAmount(ctx)
}

func (r *SimulatedRecorder) ExplorerURL(txID string) string {
	return explorerURL(r.explorerURL, txID)
}

func (r *SimulatedRecorder) Mode() string { return ModeSimulated }
