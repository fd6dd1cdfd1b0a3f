package domain

// OrderRequest describes a donation checkout to open with the gateway.
type OrderRequest struct {
	AmountMinor int64
	CampaignID  string
	DonorName   *string
	DonorEmail  *string
	IsAnonymous bool
	Message     *string
}

// Order is a gateway order handed back to the checkout widget.
type Order struct {
	OrderID     string            `json:"orderID"`
	AmountMinor int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Receipt     string            `json:"receipt"`
	KeyID       string            `json:"keyID"`
	Notes       map[string]string `json:"notes,omitempty"`
}

// Payment is the gateway's view of a single payment.
type Payment struct {
	PaymentID   string            `json:"id"`
	OrderID     string            `json:"order_id"`
	Status      string            `json:"status"`
	Method      string            `json:"method"`
	Currency    string            `json:"currency"`
	AmountMinor int64             `json:"amount"`
	Email       *string           `json:"email,omitempty"`
	Captured    bool              `json:"captured"`
	Notes       map[string]string `json:"notes,omitempty"`
}

// Refund is a gateway refund issued against a payment.
type Refund struct {
	RefundID    string `json:"id"`
	PaymentID   string `json:"payment_id"`
	AmountMinor int64  `json:"amount"`
	Status      string `json:"status"`
}

// WebhookStatus is the terminal status reported back to the gateway.
type WebhookStatus string

const (
	WebhookStatusIgnored          WebhookStatus = "ignored"
	WebhookStatusAlreadyProcessed WebhookStatus = "already_processed"
	WebhookStatusSuccess          WebhookStatus = "success"
)

// WebhookOutcome is the result of reconciling one webhook delivery.
type WebhookOutcome struct {
	Status      WebhookStatus
	Event       string
	DonationID  string
	LedgerTxID  string
	ExplorerURL string
	Resumed     bool
}
