package services

import (
	"context"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	"github.com/SscSPs/heartchain_backend/internal/dto"
)

// CampaignReaderSvc defines read operations for campaigns
type CampaignReaderSvc interface {
	GetCampaignByID(ctx context.Context, campaignID string) (*domain.Campaign, error)
	ListCampaigns(ctx context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error)

	// ListCampaignDonations returns the campaign and its masked donations.
	ListCampaignDonations(ctx context.Context, campaignID string, limit, offset int) (*domain.Campaign, []domain.Donation, error)
}

// CampaignWriterSvc defines write operations for campaigns
type CampaignWriterSvc interface {
	CreateCampaign(ctx context.Context, req dto.CreateCampaignRequest) (*domain.Campaign, error)
	UpdateCampaign(ctx context.Context, campaignID string, req dto.UpdateCampaignRequest) (*domain.Campaign, error)
}

// CampaignSvcFacade combines all campaign-related service interfaces
type CampaignSvcFacade interface {
	CampaignReaderSvc
	CampaignWriterSvc
}
