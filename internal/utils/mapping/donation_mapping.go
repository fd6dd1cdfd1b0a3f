package mapping

import (
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	"github.com/SscSPs/heartchain_backend/internal/models"
)

// ToModelDonation converts a domain Donation to a model Donation
func ToModelDonation(d domain.Donation) models.Donation {
	return models.Donation{
		DonationID:        d.DonationID,
		CampaignID:        d.CampaignID,
		DonorName:         d.DonorName,
		DonorEmail:        d.DonorEmail,
		Amount:            d.Amount,
		PaymentMethod:     string(d.PaymentMethod),
		RazorpayPaymentID: d.GatewayPaymentID,
		BlockchainTxHash:  d.LedgerTxID,
		IsAnonymous:       d.IsAnonymous,
		Message:           d.Message,
		StatsApplied:      d.StatsApplied,
		CreatedAt:         d.CreatedAt,
		LedgerClaimedAt:   d.LedgerClaimedAt,
	}
}

// ToDomainDonation converts a model Donation to a domain Donation
func ToDomainDonation(m models.Donation) domain.Donation {
	return domain.Donation{
		DonationID:       m.DonationID,
		CampaignID:       m.CampaignID,
		DonorName:        m.DonorName,
		DonorEmail:       m.DonorEmail,
		Amount:           m.Amount,
		PaymentMethod:    domain.PaymentMethod(m.PaymentMethod),
		GatewayPaymentID: m.RazorpayPaymentID,
		LedgerTxID:       m.BlockchainTxHash,
		IsAnonymous:      m.IsAnonymous,
		Message:          m.Message,
		StatsApplied:     m.StatsApplied,
		CreatedAt:        m.CreatedAt,
		LedgerClaimedAt:  m.LedgerClaimedAt,
	}
}

// ToDomainDonationSlice converts a slice of model Donations to domain Donations
func ToDomainDonationSlice(ms []models.Donation) []domain.Donation {
	ds := make([]domain.Donation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDonation(m)
	}
	return ds
}
