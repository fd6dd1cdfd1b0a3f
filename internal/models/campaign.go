package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campaign is the campaigns row.
type Campaign struct {
	CampaignID      string          `db:"id"`
	Title           string          `db:"title"`
	Description     string          `db:"description"`
	BeneficiaryName string          `db:"beneficiary_name"`
	GoalAmount      decimal.Decimal `db:"goal_amount"`
	RaisedAmount    decimal.Decimal `db:"raised_amount"`
	DonorCount      int             `db:"donor_count"`
	Category        *string         `db:"category"`
	ImageURL        *string         `db:"image_url"`
	IsActive        bool            `db:"is_active"`
	EndDate         *time.Time      `db:"end_date"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}
