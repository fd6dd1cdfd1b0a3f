package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletTransactionStatus is the lifecycle state a wallet reports for a transaction.
type WalletTransactionStatus string

const (
	WalletTxPending   WalletTransactionStatus = "pending"
	WalletTxConfirmed WalletTransactionStatus = "confirmed"
	WalletTxFailed    WalletTransactionStatus = "failed"
)

// WalletTransaction is a donor-submitted on-chain transaction reported by the frontend wallet.
type WalletTransaction struct {
	Hash          string                  `json:"hash"`
	CampaignID    string                  `json:"campaignID"`
	CampaignTitle string                  `json:"campaignTitle"`
	Amount        decimal.Decimal         `json:"amount"`
	DonorAddress  string                  `json:"donorAddress"`
	Status        WalletTransactionStatus `json:"status"`
	BlockNumber   *int64                  `json:"blockNumber,omitempty"`
	GasUsed       *string                 `json:"gasUsed,omitempty"`
	ChainID       *string                 `json:"chainID,omitempty"`
	Timestamp     time.Time               `json:"timestamp"`
	RecordedAt    time.Time               `json:"recordedAt"`
}

// WalletTransactionStats summarises recorded wallet transactions.
type WalletTransactionStats struct {
	Total       int64
	Confirmed   int64
	Pending     int64
	Failed      int64
	TotalAmount decimal.Decimal
}
