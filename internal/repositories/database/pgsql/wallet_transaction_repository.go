package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/heartchain_backend/internal/core/ports/repositories"
	"github.com/SscSPs/heartchain_backend/internal/models"
	"github.com/SscSPs/heartchain_backend/internal/utils/mapping"
	"github.com/SscSPs/heartchain_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const walletTxColumns = `hash, campaign_id, campaign_title, amount, donor_address, status, block_number, gas_used, chain_id, tx_timestamp, recorded_at`

type PgxWalletTransactionRepository struct {
	BaseRepository
}

func newPgxWalletTransactionRepository(pool *pgxpool.Pool) *PgxWalletTransactionRepository {
	return &PgxWalletTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WalletTransactionRepositoryFacade = (*PgxWalletTransactionRepository)(nil)

// UpsertWalletTransaction keys on the transaction hash. xmax = 0 only for rows
// the statement inserted.
func (r *PgxWalletTransactionRepository) UpsertWalletTransaction(ctx context.Context, wtx domain.WalletTransaction) (*domain.WalletTransaction, bool, error) {
	if err := r.ready(); err != nil {
		return nil, false, err
	}
	m := mapping.ToModelWalletTransaction(wtx)
	query := `
		INSERT INTO wallet_transactions (` + walletTxColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (hash) DO UPDATE SET
			status = EXCLUDED.status,
			block_number = COALESCE(EXCLUDED.block_number, wallet_transactions.block_number),
			gas_used = COALESCE(EXCLUDED.gas_used, wallet_transactions.gas_used)
		RETURNING ` + walletTxColumns + `, (xmax = 0) AS inserted;
	`
	var (
		out      models.WalletTransaction
		inserted bool
	)
	err := r.Pool.QueryRow(ctx, query,
		m.Hash, m.CampaignID, m.CampaignTitle, m.Amount, m.DonorAddress, m.Status,
		m.BlockNumber, m.GasUsed, m.ChainID, m.TxTimestamp, m.RecordedAt,
	).Scan(
		&out.Hash, &out.CampaignID, &out.CampaignTitle, &out.Amount, &out.DonorAddress, &out.Status,
		&out.BlockNumber, &out.GasUsed, &out.ChainID, &out.TxTimestamp, &out.RecordedAt, &inserted,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert wallet transaction %s: %w", m.Hash, err)
	}
	d := mapping.ToDomainWalletTransaction(out)
	return &d, inserted, nil
}

func (r *PgxWalletTransactionRepository) FindWalletTransactionByHash(ctx context.Context, hash string) (*domain.WalletTransaction, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	rows, err := r.Pool.Query(ctx, `SELECT `+walletTxColumns+` FROM wallet_transactions WHERE hash = $1;`, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet transaction %s: %w", hash, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.WalletTransaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan wallet transaction %s: %w", hash, err)
	}
	d := mapping.ToDomainWalletTransaction(m)
	return &d, nil
}

// ListWalletTransactions pages newest first. It fetches one extra row to know
// whether a next token is needed.
func (r *PgxWalletTransactionRepository) ListWalletTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.WalletTransaction, *string, error) {
	if err := r.ready(); err != nil {
		return nil, nil, err
	}

	var (
		rows pgx.Rows
		err  error
	)
	if nextToken != nil && *nextToken != "" {
		recordedAt, hash, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr)
		}
		rows, err = r.Pool.Query(ctx, `
			SELECT `+walletTxColumns+` FROM wallet_transactions
			WHERE (recorded_at, hash) < ($1, $2)
			ORDER BY recorded_at DESC, hash DESC
			LIMIT $3;`, recordedAt, hash, limit+1)
	} else {
		rows, err = r.Pool.Query(ctx, `
			SELECT `+walletTxColumns+` FROM wallet_transactions
			ORDER BY recorded_at DESC, hash DESC
			LIMIT $1;`, limit+1)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.WalletTransaction])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan wallet transactions: %w", err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(last.RecordedAt, last.Hash)
		next = &token
	}
	return mapping.ToDomainWalletTransactionSlice(ms), next, nil
}

func (r *PgxWalletTransactionRepository) WalletTransactionStats(ctx context.Context) (domain.WalletTransactionStats, error) {
	var stats domain.WalletTransactionStats
	if err := r.ready(); err != nil {
		return stats, err
	}
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COALESCE(SUM(amount), 0)
		FROM wallet_transactions;
	`
	err := r.Pool.QueryRow(ctx, query).Scan(&stats.Total, &stats.Confirmed, &stats.Pending, &stats.Failed, &stats.TotalAmount)
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate wallet transactions: %w", err)
	}
	return stats, nil
}
