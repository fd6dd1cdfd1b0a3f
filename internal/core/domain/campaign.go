package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campaign is a fundraising target that donations are credited to.
// RaisedAmount and DonorCount are only ever increased by reconciliation.
type Campaign struct {
	CampaignID      string          `json:"campaignID"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	BeneficiaryName string          `json:"beneficiaryName"`
	GoalAmount      decimal.Decimal `json:"goalAmount"`
	RaisedAmount    decimal.Decimal `json:"raisedAmount"`
	DonorCount      int             `json:"donorCount"`
	Category        *string         `json:"category,omitempty"`
	ImageURL        *string         `json:"imageURL,omitempty"`
	IsActive        bool            `json:"isActive"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
	Timestamps
}

// ProgressPercentage returns raised/goal as a percentage, 0 when the goal is not positive.
func (c Campaign) ProgressPercentage() float64 {
	if !c.GoalAmount.IsPositive() {
		return 0
	}
	pct, _ := c.RaisedAmount.Div(c.GoalAmount).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// CampaignFilter narrows campaign listings.
type CampaignFilter struct {
	Limit      int
	Offset     int
	Category   *string
	ActiveOnly bool
}

// CampaignPatch lists the mutable, non-aggregate fields of a campaign.
// Nil fields are left untouched.
type CampaignPatch struct {
	Title       *string
	Description *string
	GoalAmount  *decimal.Decimal
	Category    *string
	ImageURL    *string
	EndDate     *time.Time
	IsActive    *bool
}

// Apply copies the non-nil fields of the patch onto c.
func (p CampaignPatch) Apply(c *Campaign) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.GoalAmount != nil {
		c.GoalAmount = *p.GoalAmount
	}
	if p.Category != nil {
		c.Category = p.Category
	}
	if p.ImageURL != nil {
		c.ImageURL = p.ImageURL
	}
	if p.EndDate != nil {
		c.EndDate = p.EndDate
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}
