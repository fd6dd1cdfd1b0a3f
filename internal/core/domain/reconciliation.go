package domain

// RepairReport summarises one pass over donations left unreconciled by earlier failures.
type RepairReport struct {
	Scanned    int
	Reconciled int
	Failed     int
	// Skipped counts donations another attempt was already finishing.
	Skipped int
}

// DonationReconciledEvent is published once a donation is fully reconciled.
type DonationReconciledEvent struct {
	DonationID       string `json:"donation_id"`
	CampaignID       string `json:"campaign_id"`
	GatewayPaymentID string `json:"razorpay_payment_id"`
	AmountMinor      int64  `json:"amount_paise"`
	LedgerTxID       string `json:"blockchain_tx_hash"`
	PaymentMethod    string `json:"payment_method"`
	Resumed          bool   `json:"resumed"`
}

// EventDonationReconciled names the topic/event for DonationReconciledEvent.
const EventDonationReconciled = "donation.reconciled"
