package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/heartchain_backend/internal/core/ports/repositories"
	"github.com/SscSPs/heartchain_backend/internal/models"
	"github.com/SscSPs/heartchain_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const donationColumns = `id, campaign_id, donor_name, donor_email, amount, payment_method, razorpay_payment_id, blockchain_tx_hash, is_anonymous, message, stats_applied, created_at, ledger_claimed_at`

type PgxDonationRepository struct {
	BaseRepository
}

// newPgxDonationRepository creates a new repository for donation data.
func newPgxDonationRepository(pool *pgxpool.Pool) *PgxDonationRepository {
	return &PgxDonationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DonationRepositoryWithTx = (*PgxDonationRepository)(nil)

// SaveDonation inserts a donation. The unique index on razorpay_payment_id turns
// a concurrent duplicate delivery into apperrors.ErrDuplicate.
func (r *PgxDonationRepository) SaveDonation(ctx context.Context, donation domain.Donation) error {
	if err := r.ready(); err != nil {
		return err
	}
	m := mapping.ToModelDonation(donation)
	query := `
		INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DonationID, m.CampaignID, m.DonorName, m.DonorEmail, m.Amount, m.PaymentMethod,
		m.RazorpayPaymentID, m.BlockchainTxHash, m.IsAnonymous, m.Message, m.StatsApplied, m.CreatedAt,
		m.LedgerClaimedAt,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return fmt.Errorf("%w: donation for payment %s already exists", apperrors.ErrDuplicate, m.RazorpayPaymentID)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: campaign %s does not exist", apperrors.ErrNotFound, m.CampaignID)
		}
		return fmt.Errorf("failed to save donation %s: %w", m.DonationID, err)
	}
	return nil
}

func (r *PgxDonationRepository) findOne(ctx context.Context, where string, arg any) (*domain.Donation, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	rows, err := r.Pool.Query(ctx, `SELECT `+donationColumns+` FROM donations WHERE `+where+` = $1;`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query donation: %w", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Donation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan donation: %w", err)
	}
	d := mapping.ToDomainDonation(m)
	return &d, nil
}

// FindDonationByID retrieves a donation by its ID.
func (r *PgxDonationRepository) FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	return r.findOne(ctx, "id", donationID)
}

// FindDonationByGatewayPaymentID retrieves a donation by its gateway payment id.
func (r *PgxDonationRepository) FindDonationByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.Donation, error) {
	return r.findOne(ctx, "razorpay_payment_id", gatewayPaymentID)
}

func (r *PgxDonationRepository) ListDonationsByCampaign(ctx context.Context, campaignID string, limit, offset int) ([]domain.Donation, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	query := `
		SELECT ` + donationColumns + ` FROM donations
		WHERE campaign_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, campaignID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations for campaign %s: %w", campaignID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Donation])
	if err != nil {
		return nil, fmt.Errorf("failed to scan donations: %w", err)
	}
	return mapping.ToDomainDonationSlice(ms), nil
}

// ListUnreconciledDonations skips donations whose ledger write is still owned
// by a live claim.
func (r *PgxDonationRepository) ListUnreconciledDonations(ctx context.Context, staleBefore time.Time, limit int) ([]domain.Donation, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	query := `
		SELECT ` + donationColumns + ` FROM donations
		WHERE (blockchain_tx_hash IS NULL OR stats_applied = FALSE)
		  AND (blockchain_tx_hash IS NOT NULL OR ledger_claimed_at IS NULL OR ledger_claimed_at < $1)
		ORDER BY created_at ASC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, staleBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unreconciled donations: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Donation])
	if err != nil {
		return nil, fmt.Errorf("failed to scan donations: %w", err)
	}
	return mapping.ToDomainDonationSlice(ms), nil
}

// ClaimLedgerStep is a compare-and-set on ledger_claimed_at, so of several
// deliveries racing for the same donation exactly one wins until the claim goes stale.
func (r *PgxDonationRepository) ClaimLedgerStep(ctx context.Context, donationID string, at, staleBefore time.Time) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}
	query := `
		UPDATE donations SET ledger_claimed_at = $2
		WHERE id = $1
		  AND blockchain_tx_hash IS NULL
		  AND (ledger_claimed_at IS NULL OR ledger_claimed_at < $3);
	`
	tag, err := r.Pool.Exec(ctx, query, donationID, at, staleBefore)
	if err != nil {
		return false, fmt.Errorf("failed to claim ledger step for donation %s: %w", donationID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxDonationRepository) ReleaseLedgerClaim(ctx context.Context, donationID string) error {
	if err := r.ready(); err != nil {
		return err
	}
	_, err := r.Pool.Exec(ctx, `
		UPDATE donations SET ledger_claimed_at = NULL
		WHERE id = $1 AND blockchain_tx_hash IS NULL;
	`, donationID)
	if err != nil {
		return fmt.Errorf("failed to release ledger claim for donation %s: %w", donationID, err)
	}
	return nil
}

// AttachLedgerTx only writes when no ledger id is present yet.
func (r *PgxDonationRepository) AttachLedgerTx(ctx context.Context, donationID, ledgerTxID string) (*domain.Donation, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	query := `
		UPDATE donations SET blockchain_tx_hash = $2
		WHERE id = $1 AND blockchain_tx_hash IS NULL
		RETURNING ` + donationColumns + `;
	`
	rows, err := r.Pool.Query(ctx, query, donationID, ledgerTxID)
	if err != nil {
		return nil, fmt.Errorf("failed to attach ledger tx to donation %s: %w", donationID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Donation])
	if err == nil {
		d := mapping.ToDomainDonation(m)
		return &d, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to attach ledger tx to donation %s: %w", donationID, err)
	}

	// Nothing updated: either the donation is gone or another attempt won.
	if _, findErr := r.FindDonationByID(ctx, donationID); findErr != nil {
		return nil, findErr
	}
	return nil, fmt.Errorf("%w: donation %s already has a ledger transaction", apperrors.ErrDuplicate, donationID)
}

// ApplyDonationStats flips stats_applied and credits the campaign in the same
// transaction, so a donation is counted at most once.
func (r *PgxDonationRepository) ApplyDonationStats(ctx context.Context, donationID string) (*domain.Campaign, bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var (
		campaignID string
		amount     decimal.Decimal
	)
	err = tx.QueryRow(ctx, `
		UPDATE donations SET stats_applied = TRUE
		WHERE id = $1 AND stats_applied = FALSE
		RETURNING campaign_id, amount;
	`, donationID).Scan(&campaignID, &amount)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("failed to mark stats applied for donation %s: %w", donationID, err)
		}
		existing, findErr := r.FindDonationByID(ctx, donationID)
		if findErr != nil {
			return nil, false, findErr
		}
		campaign, findErr := newPgxCampaignRepository(r.Pool).FindCampaignByID(ctx, existing.CampaignID)
		if findErr != nil {
			return nil, false, findErr
		}
		return campaign, false, nil
	}

	campaign, err := incrementCampaignStats(ctx, tx, campaignID, amount)
	if err != nil {
		return nil, false, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, false, err
	}
	return campaign, true, nil
}

func (r *PgxDonationRepository) PlatformStats(ctx context.Context) (domain.PlatformStats, error) {
	var stats domain.PlatformStats
	if err := r.ready(); err != nil {
		return stats, err
	}
	query := `
		SELECT
			(SELECT COUNT(*) FROM donations),
			(SELECT COALESCE(SUM(amount), 0) FROM donations),
			(SELECT COUNT(*) FROM campaigns WHERE is_active = TRUE);
	`
	if err := r.Pool.QueryRow(ctx, query).Scan(&stats.TotalDonations, &stats.TotalRaised, &stats.ActiveCampaigns); err != nil {
		return stats, fmt.Errorf("failed to aggregate platform stats: %w", err)
	}
	return stats, nil
}
