package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
)

// MemoryStore keeps records for the life of the process only; everything is
// lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]int
	records []domain.LedgerRecord
	total   int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Append(_ context.Context, rec domain.LedgerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[rec.TxID]; exists {
		return fmt.Errorf("ledger record %s: %w", rec.TxID, apperrors.ErrDuplicate)
	}
	s.byID[rec.TxID] = len(s.records)
	s.records = append(s.records, rec)
	s.total += rec.AmountMinor
	return nil
}

func (s *MemoryStore) Get(_ context.Context, txID string) (*domain.LedgerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[txID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	rec := s.records[idx]
	return &rec, nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]domain.LedgerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]domain.LedgerRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

func (s *MemoryStore) TotalAmount(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total, nil
}
