package repositories

import (
	"context"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CampaignReader defines read operations for campaign data
type CampaignReader interface {
	// FindCampaignByID retrieves a campaign, apperrors.ErrNotFound when absent.
	FindCampaignByID(ctx context.Context, campaignID string) (*domain.Campaign, error)

	// ListCampaigns returns campaigns newest first.
	ListCampaigns(ctx context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error)
}

// CampaignWriter defines write operations for campaign data
type CampaignWriter interface {
	// SaveCampaign inserts a new campaign.
	SaveCampaign(ctx context.Context, campaign domain.Campaign) error

	// UpdateCampaign rewrites the non-aggregate fields of an existing campaign.
	UpdateCampaign(ctx context.Context, campaign domain.Campaign) error

	// UpdateCampaignStats adds amount to raised_amount and one to donor_count in a
	// single atomic statement and returns the updated campaign.
	UpdateCampaignStats(ctx context.Context, campaignID string, amount decimal.Decimal) (*domain.Campaign, error)
}

// CampaignRepositoryFacade combines all campaign-related repository interfaces
type CampaignRepositoryFacade interface {
	CampaignReader
	CampaignWriter
}

// CampaignRepositoryWithTx extends CampaignRepositoryFacade with transaction capabilities
type CampaignRepositoryWithTx interface {
	CampaignRepositoryFacade
	TransactionManager
}
