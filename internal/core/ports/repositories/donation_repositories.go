package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
)

// DonationReader defines read operations for donation data
type DonationReader interface {
	FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)

	// FindDonationByGatewayPaymentID is a point lookup on the unique gateway payment id.
	FindDonationByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.Donation, error)

	// ListDonationsByCampaign returns a campaign's donations newest first.
	ListDonationsByCampaign(ctx context.Context, campaignID string, limit, offset int) ([]domain.Donation, error)

	// ListUnreconciledDonations returns donations whose campaign stats were never
	// applied, or whose ledger id is missing and whose ledger claim is absent or
	// older than staleBefore, oldest first.
	ListUnreconciledDonations(ctx context.Context, staleBefore time.Time, limit int) ([]domain.Donation, error)

	// PlatformStats aggregates donation totals across all campaigns.
	PlatformStats(ctx context.Context) (domain.PlatformStats, error)
}

// DonationWriter defines write operations for donation data
type DonationWriter interface {
	// SaveDonation inserts a donation. A second donation with the same gateway
	// payment id fails with apperrors.ErrDuplicate.
	SaveDonation(ctx context.Context, donation domain.Donation) error

	// ClaimLedgerStep stamps the donation's ledger claim with at, but only when it
	// has no ledger id and no claim newer than staleBefore. It reports whether the
	// caller now owns the ledger write.
	ClaimLedgerStep(ctx context.Context, donationID string, at, staleBefore time.Time) (bool, error)

	// ReleaseLedgerClaim clears the claim of a donation that still has no ledger id.
	ReleaseLedgerClaim(ctx context.Context, donationID string) error

	// AttachLedgerTx sets the ledger id only if none is set yet. Losing that race
	// returns apperrors.ErrDuplicate.
	AttachLedgerTx(ctx context.Context, donationID, ledgerTxID string) (*domain.Donation, error)

	// ApplyDonationStats credits the donation to its campaign exactly once. The
	// returned bool is false when the credit had already been applied.
	ApplyDonationStats(ctx context.Context, donationID string) (*domain.Campaign, bool, error)
}

// DonationRepositoryFacade combines all donation-related repository interfaces
type DonationRepositoryFacade interface {
	DonationReader
	DonationWriter
}

// DonationRepositoryWithTx extends DonationRepositoryFacade with transaction capabilities
type DonationRepositoryWithTx interface {
	DonationRepositoryFacade
	TransactionManager
}
