package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletTransaction is the wallet_transactions row.
type WalletTransaction struct {
	Hash          string          `db:"hash"`
	CampaignID    string          `db:"campaign_id"`
	CampaignTitle string          `db:"campaign_title"`
	Amount        decimal.Decimal `db:"amount"`
	DonorAddress  string          `db:"donor_address"`
	Status        string          `db:"status"`
	BlockNumber   *int64          `db:"block_number"`
	GasUsed       *string         `db:"gas_used"`
	ChainID       *string         `db:"chain_id"`
	TxTimestamp   time.Time       `db:"tx_timestamp"`
	RecordedAt    time.Time       `db:"recorded_at"`
}
