package mapping

import (
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	"github.com/SscSPs/heartchain_backend/internal/models"
)

func ToModelWalletTransaction(d domain.WalletTransaction) models.WalletTransaction {
	return models.WalletTransaction{
		Hash:          d.Hash,
		CampaignID:    d.CampaignID,
		CampaignTitle: d.CampaignTitle,
		Amount:        d.Amount,
		DonorAddress:  d.DonorAddress,
		Status:        string(d.Status),
		BlockNumber:   d.BlockNumber,
		GasUsed:       d.GasUsed,
		ChainID:       d.ChainID,
		TxTimestamp:   d.Timestamp,
		RecordedAt:    d.RecordedAt,
	}
}

func ToDomainWalletTransaction(m models.WalletTransaction) domain.WalletTransaction {
	return domain.WalletTransaction{
		Hash:          m.Hash,
		CampaignID:    m.CampaignID,
		CampaignTitle: m.CampaignTitle,
		Amount:        m.Amount,
		DonorAddress:  m.DonorAddress,
		Status:        domain.WalletTransactionStatus(m.Status),
		BlockNumber:   m.BlockNumber,
		GasUsed:       m.GasUsed,
		ChainID:       m.ChainID,
		Timestamp:     m.TxTimestamp,
		RecordedAt:    m.RecordedAt,
	}
}

func ToDomainWalletTransactionSlice(ms []models.WalletTransaction) []domain.WalletTransaction {
	ds := make([]domain.WalletTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainWalletTransaction(m)
	}
	return ds
}
