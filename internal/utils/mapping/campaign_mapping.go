package mapping

import (
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	"github.com/SscSPs/heartchain_backend/internal/models"
)

// ToModelCampaign converts a domain Campaign to a model Campaign
func ToModelCampaign(d domain.Campaign) models.Campaign {
	return models.Campaign{
		CampaignID:      d.CampaignID,
		Title:           d.Title,
		Description:     d.Description,
		BeneficiaryName: d.BeneficiaryName,
		GoalAmount:      d.GoalAmount,
		RaisedAmount:    d.RaisedAmount,
		DonorCount:      d.DonorCount,
		Category:        d.Category,
		ImageURL:        d.ImageURL,
		IsActive:        d.IsActive,
		EndDate:         d.EndDate,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ToDomainCampaign converts a model Campaign to a domain Campaign
func ToDomainCampaign(m models.Campaign) domain.Campaign {
	return domain.Campaign{
		CampaignID:      m.CampaignID,
		Title:           m.Title,
		Description:     m.Description,
		BeneficiaryName: m.BeneficiaryName,
		GoalAmount:      m.GoalAmount,
		RaisedAmount:    m.RaisedAmount,
		DonorCount:      m.DonorCount,
		Category:        m.Category,
		ImageURL:        m.ImageURL,
		IsActive:        m.IsActive,
		EndDate:         m.EndDate,
		Timestamps: domain.Timestamps{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

// ToDomainCampaignSlice converts a slice of model Campaigns to domain Campaigns
func ToDomainCampaignSlice(ms []models.Campaign) []domain.Campaign {
	ds := make([]domain.Campaign, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCampaign(m)
	}
	return ds
}
