package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the instrument a donor paid with, as reported by the gateway.
type PaymentMethod string

const (
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodNetbanking PaymentMethod = "netbanking"
	PaymentMethodWallet     PaymentMethod = "wallet"
	PaymentMethodCrypto     PaymentMethod = "crypto"
	PaymentMethodUnknown    PaymentMethod = "unknown"
)

// IsKnown reports whether m is one of the methods the platform recognises.
func (m PaymentMethod) IsKnown() bool {
	switch m {
	case PaymentMethodUPI, PaymentMethodCard, PaymentMethodNetbanking, PaymentMethodWallet, PaymentMethodCrypto:
		return true
	}
	return false
}

// AnonymousDonorName replaces the donor name wherever anonymity is requested.
const AnonymousDonorName = "Anonymous"

// MaxDonationMessageLength bounds the stored donor message.
const MaxDonationMessageLength = 500

// Donation is one captured payment credited to a campaign.
// GatewayPaymentID is unique and serves as the idempotency key.
type Donation struct {
	DonationID       string          `json:"donationID"`
	CampaignID       string          `json:"campaignID"`
	DonorName        *string         `json:"donorName,omitempty"`
	DonorEmail       *string         `json:"donorEmail,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	GatewayPaymentID string          `json:"gatewayPaymentID"`
	LedgerTxID       *string         `json:"ledgerTxID,omitempty"`
	IsAnonymous      bool            `json:"isAnonymous"`
	Message          *string         `json:"message,omitempty"`
	StatsApplied     bool            `json:"statsApplied"`
	CreatedAt        time.Time       `json:"createdAt"`
	// LedgerClaimedAt marks the delivery currently writing the ledger record.
	LedgerClaimedAt *time.Time `json:"-"`
}

// IsReconciled reports whether every reconciliation step has been applied.
func (d Donation) IsReconciled() bool {
	return d.LedgerTxID != nil && d.StatsApplied
}

// Masked returns a copy suitable for public responses. The email is always
// dropped; anonymous donations also have the name replaced.
func (d Donation) Masked() Donation {
	if !d.IsAnonymous {
		d.DonorEmail = nil
		return d
	}
	name := AnonymousDonorName
	d.DonorName = &name
	d.DonorEmail = nil
	return d
}
