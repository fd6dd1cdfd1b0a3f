package domain

import "time"

// LedgerEntryRequest is the input to a ledger write.
// DonorEmail is only used to derive the donor identity and is never stored on the ledger.
type LedgerEntryRequest struct {
	CampaignID    string
	AmountMinor   int64
	DonorEmail    *string
	Anonymous     bool
	PaymentMethod string
}

// LedgerRecord is an append-only proof of donation.
type LedgerRecord struct {
	TxID          string    `json:"tx_hash"`
	CampaignID    string    `json:"campaign_id"`
	AmountMinor   int64     `json:"amount_paise"`
	DonorIdentity string    `json:"donor_id"`
	PaymentMethod string    `json:"payment_method"`
	Timestamp     time.Time `json:"timestamp"`
	BlockNumber   *uint64   `json:"block_number,omitempty"`
}

// LedgerStats summarises everything written to the ledger.
type LedgerStats struct {
	Mode             string `json:"mode"`
	TotalRecords     int64  `json:"totalRecords"`
	TotalAmountMinor int64  `json:"totalAmountMinor"`
}
