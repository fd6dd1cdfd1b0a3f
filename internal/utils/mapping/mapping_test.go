package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	"github.com/SscSPs/heartchain_backend/internal/models"
	"github.com/SscSPs/heartchain_backend/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDonationMapping_RenamesGatewayColumns(t *testing.T) {
	tx := "0xabc"
	d := domain.Donation{
		DonationID:       "don-1",
		CampaignID:       "camp-1",
		Amount:           decimal.RequireFromString("1000.50"),
		PaymentMethod:    domain.PaymentMethodUPI,
		GatewayPaymentID: "pay_ABC",
		LedgerTxID:       &tx,
		StatsApplied:     true,
		CreatedAt:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	m := mapping.ToModelDonation(d)
	assert.Equal(t, "pay_ABC", m.RazorpayPaymentID)
	assert.Equal(t, &tx, m.BlockchainTxHash)
	assert.Equal(t, "upi", m.PaymentMethod)
	assert.Equal(t, d, mapping.ToDomainDonation(m))
}

func TestCampaignMapping_KeepsTimestamps(t *testing.T) {
	now := time.Now().UTC()
	c := domain.Campaign{
		CampaignID: "camp-1",
		GoalAmount: decimal.NewFromInt(5000),
		IsActive:   true,
		Timestamps: domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	got := mapping.ToDomainCampaignSlice([]models.Campaign{mapping.ToModelCampaign(c)})
	assert.Equal(t, []domain.Campaign{c}, got)
}
