package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation is the donations row. The gateway payment id and ledger id keep the
// column names used by the public API.
type Donation struct {
	DonationID        string          `db:"id"`
	CampaignID        string          `db:"campaign_id"`
	DonorName         *string         `db:"donor_name"`
	DonorEmail        *string         `db:"donor_email"`
	Amount            decimal.Decimal `db:"amount"`
	PaymentMethod     string          `db:"payment_method"`
	RazorpayPaymentID string          `db:"razorpay_payment_id"`
	BlockchainTxHash  *string         `db:"blockchain_tx_hash"`
	IsAnonymous       bool            `db:"is_anonymous"`
	Message           *string         `db:"message"`
	StatsApplied      bool            `db:"stats_applied"`
	CreatedAt         time.Time       `db:"created_at"`
	LedgerClaimedAt   *time.Time      `db:"ledger_claimed_at"`
}
