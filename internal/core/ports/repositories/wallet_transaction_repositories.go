package repositories

import (
	"context"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
)

// WalletTransactionRepositoryFacade persists wallet transactions reported by the frontend.
type WalletTransactionRepositoryFacade interface {
	// UpsertWalletTransaction inserts a transaction or, when the hash is already
	// known, updates its status, block number and gas used. The bool reports an insert.
	UpsertWalletTransaction(ctx context.Context, tx domain.WalletTransaction) (*domain.WalletTransaction, bool, error)

	FindWalletTransactionByHash(ctx context.Context, hash string) (*domain.WalletTransaction, error)

	// ListWalletTransactions pages by recorded_at descending using a keyset token.
	ListWalletTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.WalletTransaction, *string, error)

	WalletTransactionStats(ctx context.Context) (domain.WalletTransactionStats, error)
}
