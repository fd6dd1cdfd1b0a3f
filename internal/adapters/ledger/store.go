// Package ledger implements the proof-of-donation ledger: a simulated recorder
// for development, a chain-backed recorder, and the stores that index records
// for reads and aggregates.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
)

// Store indexes ledger records. Append is append-only: a second append of the
// same id fails with apperrors.ErrDuplicate.
type Store interface {
	Append(ctx context.Context, rec domain.LedgerRecord) error
	Get(ctx context.Context, txID string) (*domain.LedgerRecord, error)
	Recent(ctx context.Context, limit int) ([]domain.LedgerRecord, error)
	Count(ctx context.Context) (int64, error)
	TotalAmount(ctx context.Context) (int64, error)
}

func explorerURL(base, txID string) string {
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(base, "/"), txID)
}
