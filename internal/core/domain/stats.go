package domain

import "github.com/shopspring/decimal"

// PlatformStats aggregates donation totals from the datastore.
type PlatformStats struct {
	TotalDonations  int64           `json:"totalDonations"`
	TotalRaised     decimal.Decimal `json:"totalRaised"`
	ActiveCampaigns int64           `json:"activeCampaigns"`
}
