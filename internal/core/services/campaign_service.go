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
	"github.com/SscSPs/heartchain_backend/internal/dto"
	"github.com/google/uuid"
)

const defaultDonationPageSize = 50

type campaignService struct {
	BaseService
	campaignRepo portsrepo.CampaignRepositoryFacade
	donationRepo portsrepo.DonationReader
	now          func() time.Time
}

// NewCampaignService creates a campaign service.
func NewCampaignService(campaignRepo portsrepo.CampaignRepositoryFacade, donationRepo portsrepo.DonationReader) portssvc.CampaignSvcFacade {
	return &campaignService{
		campaignRepo: campaignRepo,
		donationRepo: donationRepo,
		now:          time.Now,
	}
}

func (s *campaignService) CreateCampaign(ctx context.Context, req dto.CreateCampaignRequest) (*domain.Campaign, error) {
	if !req.GoalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: goal_amount must be greater than zero", apperrors.ErrValidation)
	}

	now := s.now().UTC()
	campaign := domain.Campaign{
		CampaignID:      uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		BeneficiaryName: req.BeneficiaryName,
		GoalAmount:      req.GoalAmount,
		Category:        req.Category,
		ImageURL:        req.ImageURL,
		IsActive:        true,
		EndDate:         req.EndDate,
		Timestamps:      domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	if err := s.campaignRepo.SaveCampaign(ctx, campaign); err != nil {
		s.LogError(ctx, err, "Failed to save campaign", slog.String("campaign_id", campaign.CampaignID))
		return nil, err
	}

	s.LogInfo(ctx, "Campaign created", slog.String("campaign_id", campaign.CampaignID), slog.String("goal", campaign.GoalAmount.String()))
	return &campaign, nil
}

func (s *campaignService) GetCampaignByID(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	campaign, err := s.campaignRepo.FindCampaignByID(ctx, campaignID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find campaign", slog.String("campaign_id", campaignID))
		}
		return nil, err
	}
	return campaign, nil
}

func (s *campaignService) ListCampaigns(ctx context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error) {
	campaigns, err := s.campaignRepo.ListCampaigns(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list campaigns", slog.Int("limit", filter.Limit), slog.Int("offset", filter.Offset))
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	if campaigns == nil {
		return []domain.Campaign{}, nil
	}
	return campaigns, nil
}

func (s *campaignService) UpdateCampaign(ctx context.Context, campaignID string, req dto.UpdateCampaignRequest) (*domain.Campaign, error) {
	if req.GoalAmount != nil && !req.GoalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: goal_amount must be greater than zero", apperrors.ErrValidation)
	}

	campaign, err := s.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	req.ToPatch().Apply(campaign)
	campaign.UpdatedAt = s.now().UTC()

	if err := s.campaignRepo.UpdateCampaign(ctx, *campaign); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update campaign", slog.String("campaign_id", campaignID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Campaign updated", slog.String("campaign_id", campaignID))
	return campaign, nil
}

// ListCampaignDonations returns donations already masked for public display.
func (s *campaignService) ListCampaignDonations(ctx context.Context, campaignID string, limit, offset int) (*domain.Campaign, []domain.Donation, error) {
	campaign, err := s.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = defaultDonationPageSize
	}

	donations, err := s.donationRepo.ListDonationsByCampaign(ctx, campaignID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list campaign donations", slog.String("campaign_id", campaignID))
		return nil, nil, fmt.Errorf("failed to list donations: %w", err)
	}

	masked := make([]domain.Donation, len(donations))
	for i, d := range donations {
		masked[i] = d.Masked()
	}
	return campaign, masked, nil
}
