package dto

import (
	"time"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DonationResponse is the public view of a donation. It never carries the donor email.
type DonationResponse struct {
	ID                    string          `json:"id"`
	CampaignID            string          `json:"campaign_id"`
	DonorName             *string         `json:"donor_name"`
	Amount                decimal.Decimal `json:"amount"`
	PaymentMethod         string          `json:"payment_method"`
	RazorpayPaymentID     string          `json:"razorpay_payment_id"`
	BlockchainTxHash      *string         `json:"blockchain_tx_hash"`
	BlockchainExplorerURL *string         `json:"blockchain_explorer_url,omitempty"`
	IsAnonymous           bool            `json:"is_anonymous"`
	Message               *string         `json:"message"`
	CreatedAt             time.Time       `json:"created_at"`
}

// ToDonationResponse masks d and converts it; explorerURL is attached when non-empty.
func ToDonationResponse(d domain.Donation, explorerURL string) DonationResponse {
	masked := d.Masked()
	resp := DonationResponse{
		ID:                masked.DonationID,
		CampaignID:        masked.CampaignID,
		DonorName:         masked.DonorName,
		Amount:            masked.Amount,
		PaymentMethod:     string(masked.PaymentMethod),
		RazorpayPaymentID: masked.GatewayPaymentID,
		BlockchainTxHash:  masked.LedgerTxID,
		IsAnonymous:       masked.IsAnonymous,
		Message:           masked.Message,
		CreatedAt:         masked.CreatedAt,
	}
	if explorerURL != "" {
		resp.BlockchainExplorerURL = &explorerURL
	}
	return resp
}

// ListCampaignDonationsParams defines the query parameters for a campaign's donations.
type ListCampaignDonationsParams struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// CampaignDonationsResponse lists a campaign's donations.
type CampaignDonationsResponse struct {
	CampaignID    string             `json:"campaign_id"`
	CampaignTitle string             `json:"campaign_title"`
	Donations     []DonationResponse `json:"donations"`
	Total         int                `json:"total"`
}

// LedgerRecordResponse is the public view of a ledger record.
type LedgerRecordResponse struct {
	TxHash        string    `json:"tx_hash"`
	CampaignID    string    `json:"campaign_id"`
	AmountPaise   int64     `json:"amount_paise"`
	DonorID       string    `json:"donor_id"`
	PaymentMethod string    `json:"payment_method"`
	Timestamp     time.Time `json:"timestamp"`
	BlockNumber   *uint64   `json:"block_number,omitempty"`
}

// ToLedgerRecordResponse converts a domain.LedgerRecord.
func ToLedgerRecordResponse(r *domain.LedgerRecord) *LedgerRecordResponse {
	if r == nil {
		return nil
	}
	return &LedgerRecordResponse{
		TxHash:        r.TxID,
		CampaignID:    r.CampaignID,
		AmountPaise:   r.AmountMinor,
		DonorID:       r.DonorIdentity,
		PaymentMethod: r.PaymentMethod,
		Timestamp:     r.Timestamp,
		BlockNumber:   r.BlockNumber,
	}
}

// DonationVerificationResponse reports whether a ledger id is known to the ledger.
type DonationVerificationResponse struct {
	TxHash      string                `json:"tx_hash"`
	ExplorerURL string                `json:"explorer_url"`
	Verified    bool                  `json:"verified"`
	Message     string                `json:"message"`
	Record      *LedgerRecordResponse `json:"record,omitempty"`
}

// DatabaseStats is the datastore half of the platform stats.
type DatabaseStats struct {
	TotalDonations    int64           `json:"total_donations"`
	TotalAmountRaised decimal.Decimal `json:"total_amount_raised"`
	TotalCampaigns    int64           `json:"total_campaigns"`
}

// LedgerTotals is the ledger half of the platform stats.
type LedgerTotals struct {
	Mode                  string          `json:"mode"`
	TotalDonationsOnChain int64           `json:"total_donations_on_chain"`
	TotalAmountInPaise    int64           `json:"total_amount_in_paise"`
	TotalAmountInINR      decimal.Decimal `json:"total_amount_in_inr"`
}

// PlatformStatsResponse combines datastore and ledger totals.
type PlatformStatsResponse struct {
	Database   DatabaseStats `json:"database"`
	Blockchain LedgerTotals  `json:"blockchain"`
}
