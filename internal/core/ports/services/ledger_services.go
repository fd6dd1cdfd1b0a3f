package services

import (
	"context"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
)

// LedgerRecorder writes and reads append-only proof-of-donation records.
// Implementations must be safe for concurrent use.
type LedgerRecorder interface {
	// Record appends a record and returns its ledger transaction id.
	// A failure here is never downgraded to a success.
	Record(ctx context.Context, req domain.LedgerEntryRequest) (string, error)

	// Read returns a record, apperrors.ErrNotFound when the id is unknown.
	Read(ctx context.Context, txID string) (*domain.LedgerRecord, error)

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.LedgerRecord, error)

	Count(ctx context.Context) (int64, error)

	// TotalAmount is the sum of recorded amounts in minor units.
	TotalAmount(ctx context.Context) (int64, error)

	// ExplorerURL is pure formatting and performs no I/O.
	ExplorerURL(txID string) string

	// Mode reports "simulated" or "chain". Only health and stats read it.
	Mode() string
}
