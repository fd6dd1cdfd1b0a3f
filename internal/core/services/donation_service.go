package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/heartchain_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	gocache "github.com/patrickmn/go-cache"
)

const platformStatsCacheKey = "platform_stats"

type donationService struct {
	BaseService
	donationRepo portsrepo.DonationReader
	ledger       portssvc.LedgerRecorder
	statsCache   *gocache.Cache
}

// NewDonationService creates a donation service. Platform stats are cached for
// statsTTL; a non-positive TTL disables the cache.
func NewDonationService(donationRepo portsrepo.DonationReader, ledger portssvc.LedgerRecorder, statsTTL time.Duration) portssvc.DonationSvcFacade {
	s := &donationService{donationRepo: donationRepo, ledger: ledger}
	if statsTTL > 0 {
		s.statsCache = gocache.New(statsTTL, 2*statsTTL)
	}
	return s
}

func (s *donationService) GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	donation, err := s.donationRepo.FindDonationByID(ctx, donationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find donation", slog.String("donation_id", donationID))
		}
		return nil, err
	}
	masked := donation.Masked()
	return &masked, nil
}

func (s *donationService) VerifyLedgerTx(ctx context.Context, txID string) (*domain.LedgerRecord, error) {
	rec, err := s.ledger.Read(ctx, txID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to read ledger record", slog.String("tx_hash", txID))
	}
	return rec, err
}

// PlatformStats reads the datastore aggregate through the cache and the ledger
// totals directly.
func (s *donationService) PlatformStats(ctx context.Context) (domain.PlatformStats, domain.LedgerStats, error) {
	ledgerStats := domain.LedgerStats{Mode: s.ledger.Mode()}

	stats, err := s.cachedPlatformStats(ctx)
	if err != nil {
		return domain.PlatformStats{}, ledgerStats, err
	}

	if ledgerStats.TotalRecords, err = s.ledger.Count(ctx); err != nil {
		s.LogError(ctx, err, "Failed to count ledger records")
		return stats, ledgerStats, fmt.Errorf("failed to count ledger records: %w", err)
	}
	if ledgerStats.TotalAmountMinor, err = s.ledger.TotalAmount(ctx); err != nil {
		s.LogError(ctx, err, "Failed to total ledger amounts")
		return stats, ledgerStats, fmt.Errorf("failed to total ledger amounts: %w", err)
	}
	return stats, ledgerStats, nil
}

func (s *donationService) cachedPlatformStats(ctx context.Context) (domain.PlatformStats, error) {
	if s.statsCache != nil {
		if cached, ok := s.statsCache.Get(platformStatsCacheKey); ok {
			return cached.(domain.PlatformStats), nil
		}
	}

	stats, err := s.donationRepo.PlatformStats(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate platform stats")
		return domain.PlatformStats{}, fmt.Errorf("failed to aggregate platform stats: %w", err)
	}
	if s.statsCache != nil {
		s.statsCache.SetDefault(platformStatsCacheKey, stats)
	}
	return stats, nil
}

func (s *donationService) ExplorerURL(txID string) string {
	return s.ledger.ExplorerURL(txID)
}
