package dto

import (
	"time"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCampaignRequest defines the data needed to create a new campaign.
type CreateCampaignRequest struct {
	Title           string          `json:"title" binding:"required,min=3,max=200"`
	Description     string          `json:"description" binding:"required,min=10,max=5000"`
	BeneficiaryName string          `json:"beneficiary_name" binding:"required,min=2,max=100"`
	GoalAmount      decimal.Decimal `json:"goal_amount"`
	Category        *string         `json:"category,omitempty" binding:"omitempty,max=50"`
	ImageURL        *string         `json:"image_url,omitempty" binding:"omitempty,url"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
}

// UpdateCampaignRequest defines the fields that can be changed on a campaign.
// Raised amount and donor count are not updatable through this path.
type UpdateCampaignRequest struct {
	Title       *string          `json:"title,omitempty" binding:"omitempty,min=3,max=200"`
	Description *string          `json:"description,omitempty" binding:"omitempty,min=10,max=5000"`
	GoalAmount  *decimal.Decimal `json:"goal_amount,omitempty"`
	Category    *string          `json:"category,omitempty" binding:"omitempty,max=50"`
	ImageURL    *string          `json:"image_url,omitempty" binding:"omitempty,url"`
	EndDate     *time.Time       `json:"end_date,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// ToPatch converts the request to a domain patch.
func (r UpdateCampaignRequest) ToPatch() domain.CampaignPatch {
	return domain.CampaignPatch{
		Title:       r.Title,
		Description: r.Description,
		GoalAmount:  r.GoalAmount,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		EndDate:     r.EndDate,
		IsActive:    r.IsActive,
	}
}

// ListCampaignsParams defines the query parameters for listing campaigns.
type ListCampaignsParams struct {
	Limit      int     `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset     int     `form:"offset" binding:"omitempty,min=0"`
	Category   *string `form:"category"`
	ActiveOnly *bool   `form:"active_only"`
}

// ToFilter converts the params to a domain filter, applying defaults.
func (p ListCampaignsParams) ToFilter() domain.CampaignFilter {
	limit := p.Limit
	if limit == 0 {
		limit = 20
	}
	activeOnly := true
	if p.ActiveOnly != nil {
		activeOnly = *p.ActiveOnly
	}
	return domain.CampaignFilter{
		Limit:      limit,
		Offset:     p.Offset,
		Category:   p.Category,
		ActiveOnly: activeOnly,
	}
}

// CampaignResponse defines the data returned for a campaign.
type CampaignResponse struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	BeneficiaryName    string          `json:"beneficiary_name"`
	GoalAmount         decimal.Decimal `json:"goal_amount"`
	RaisedAmount       decimal.Decimal `json:"raised_amount"`
	DonorCount         int             `json:"donor_count"`
	Category           *string         `json:"category,omitempty"`
	ImageURL           *string         `json:"image_url,omitempty"`
	IsActive           bool            `json:"is_active"`
	CreatedAt          time.Time       `json:"created_at"`
	EndDate            *time.Time      `json:"end_date,omitempty"`
	ProgressPercentage float64         `json:"progress_percentage"`
}

// ToCampaignResponse converts a domain.Campaign to CampaignResponse DTO
func ToCampaignResponse(c *domain.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:                 c.CampaignID,
		Title:              c.Title,
		Description:        c.Description,
		BeneficiaryName:    c.BeneficiaryName,
		GoalAmount:         c.GoalAmount,
		RaisedAmount:       c.RaisedAmount,
		DonorCount:         c.DonorCount,
		Category:           c.Category,
		ImageURL:           c.ImageURL,
		IsActive:           c.IsActive,
		CreatedAt:          c.CreatedAt,
		EndDate:            c.EndDate,
		ProgressPercentage: c.ProgressPercentage(),
	}
}

// ToListCampaignResponse converts a slice of domain.Campaign to a slice of CampaignResponse DTOs
func ToListCampaignResponse(campaigns []domain.Campaign) []CampaignResponse {
	res := make([]CampaignResponse, len(campaigns))
	for i := range campaigns {
		res[i] = ToCampaignResponse(&campaigns[i])
	}
	return res
}
