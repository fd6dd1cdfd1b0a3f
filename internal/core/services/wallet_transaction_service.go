package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/heartchain_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/dto"
)

const defaultWalletTxPageSize = 50

type walletTransactionService struct {
	BaseService
	repo   portsrepo.WalletTransactionRepositoryFacade
	ledger portssvc.LedgerRecorder
	now    func() time.Time
}

// NewWalletTransactionService creates the service behind the /blockchain endpoints.
func NewWalletTransactionService(repo portsrepo.WalletTransactionRepositoryFacade, ledger portssvc.LedgerRecorder) portssvc.WalletTransactionSvcFacade {
	return &walletTransactionService{repo: repo, ledger: ledger, now: time.Now}
}

func (s *walletTransactionService) RecordTransaction(ctx context.Context, req dto.RecordWalletTransactionRequest) (*domain.WalletTransaction, bool, error) {
	if req.Amount.IsNegative() {
		return nil, false, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	wtx := req.ToWalletTransaction()
	wtx.Hash = strings.TrimSpace(wtx.Hash)
	wtx.RecordedAt = s.now().UTC()

	saved, created, err := s.repo.UpsertWalletTransaction(ctx, wtx)
	if err != nil {
		s.LogError(ctx, err, "Failed to record wallet transaction", slog.String("hash", wtx.Hash))
		return nil, false, err
	}

	msg := "Wallet transaction updated"
	if created {
		msg = "Wallet transaction recorded"
	}
	s.LogInfo(ctx, msg,
		slog.String("hash", saved.Hash),
		slog.String("campaign_id", saved.CampaignID),
		slog.String("amount", saved.Amount.String()),
		slog.String("status", string(saved.Status)),
	)
	return saved, created, nil
}

func (s *walletTransactionService) ListTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.WalletTransaction, *string, error) {
	if limit <= 0 {
		limit = defaultWalletTxPageSize
	}
	txs, next, err := s.repo.ListWalletTransactions(ctx, limit, nextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list wallet transactions")
		}
		return nil, nil, err
	}
	if txs == nil {
		txs = []domain.WalletTransaction{}
	}
	return txs, next, nil
}

func (s *walletTransactionService) RecentLedgerRecords(ctx context.Context, limit int) ([]domain.LedgerRecord, error) {
	if limit <= 0 {
		limit = defaultWalletTxPageSize
	}
	records, err := s.ledger.Recent(ctx, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to read recent ledger records")
		return nil, err
	}
	return records, nil
}

func (s *walletTransactionService) LookupTransaction(ctx context.Context, hash string) (*domain.WalletTransaction, *domain.LedgerRecord, error) {
	wtx, err := s.repo.FindWalletTransactionByHash(ctx, hash)
	if err == nil {
		return wtx, nil, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up wallet transaction", slog.String("hash", hash))
		return nil, nil, err
	}

	rec, err := s.ledger.Read(ctx, hash)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to look up ledger record", slog.String("hash", hash))
		}
		return nil, nil, err
	}
	return nil, rec, nil
}

// IsRecorded only consults wallet records.
func (s *walletTransactionService) IsRecorded(ctx context.Context, hash string) (bool, error) {
	_, err := s.repo.FindWalletTransactionByHash(ctx, hash)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return false, nil
	default:
		s.LogError(ctx, err, "Failed to verify wallet transaction", slog.String("hash", hash))
		return false, err
	}
}

func (s *walletTransactionService) Stats(ctx context.Context) (domain.WalletTransactionStats, domain.LedgerStats, error) {
	ledgerStats := domain.LedgerStats{Mode: s.ledger.Mode()}
	stats, err := s.repo.WalletTransactionStats(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate wallet transactions")
		return stats, ledgerStats, err
	}
	if ledgerStats.TotalRecords, err = s.ledger.Count(ctx); err != nil {
		return stats, ledgerStats, fmt.Errorf("failed to count ledger records: %w", err)
	}
	if ledgerStats.TotalAmountMinor, err = s.ledger.TotalAmount(ctx); err != nil {
		return stats, ledgerStats, fmt.Errorf("failed to total ledger amounts: %w", err)
	}
	return stats, ledgerStats, nil
}

func (s *walletTransactionService) ExplorerURL(hash string) string {
	return s.ledger.ExplorerURL(hash)
}
