package services

import (
	"context"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	"github.com/SscSPs/heartchain_backend/internal/dto"
)

// WalletTransactionSvcFacade manages transactions reported by donor wallets.
type WalletTransactionSvcFacade interface {
	// RecordTransaction upserts by hash; the bool reports whether it was new.
	RecordTransaction(ctx context.Context, req dto.RecordWalletTransactionRequest) (*domain.WalletTransaction, bool, error)

	ListTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.WalletTransaction, *string, error)

	// RecentLedgerRecords returns backend-written ledger records, newest first.
	RecentLedgerRecords(ctx context.Context, limit int) ([]domain.LedgerRecord, error)

	// LookupTransaction checks wallet records first and then the ledger.
	// Exactly one of the returned values is non-nil on success.
	LookupTransaction(ctx context.Context, hash string) (*domain.WalletTransaction, *domain.LedgerRecord, error)

	IsRecorded(ctx context.Context, hash string) (bool, error)

	Stats(ctx context.Context) (domain.WalletTransactionStats, domain.LedgerStats, error)

	ExplorerURL(hash string) string
}
