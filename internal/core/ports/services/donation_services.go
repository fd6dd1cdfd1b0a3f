package services

import (
	"context"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
)

// DonationSvcFacade exposes donation lookups and platform totals.
type DonationSvcFacade interface {
	// GetDonationByID returns the donation already masked for public display.
	GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)

	// VerifyLedgerTx reads a record from the ledger; apperrors.ErrNotFound when unknown.
	VerifyLedgerTx(ctx context.Context, txID string) (*domain.LedgerRecord, error)

	PlatformStats(ctx context.Context) (domain.PlatformStats, domain.LedgerStats, error)

	ExplorerURL(txID string) string
}
