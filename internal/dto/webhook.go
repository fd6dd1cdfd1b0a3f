package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
)

// WebhookPayload is the subset of a gateway webhook delivery the reconciler reads.
type WebhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity *WebhookPaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// PaymentEntity returns the embedded payment entity, nil when absent.
func (p WebhookPayload) PaymentEntity() *WebhookPaymentEntity {
	if p.Payload.Payment == nil {
		return nil
	}
	return p.Payload.Payment.Entity
}

// WebhookPaymentEntity is the captured payment inside a webhook.
type WebhookPaymentEntity struct {
	ID       string       `json:"id" validate:"required"`
	Amount   int64        `json:"amount" validate:"gt=0"`
	Currency string       `json:"currency"`
	Method   string       `json:"method"`
	Email    *string      `json:"email"`
	Notes    WebhookNotes `json:"notes"`
}

// WebhookNotes are the order notes echoed back by the gateway.
type WebhookNotes struct {
	CampaignID  string  `json:"campaign_id" validate:"required"`
	DonorName   *string `json:"donor_name"`
	DonorEmail  *string `json:"donor_email"`
	IsAnonymous string  `json:"is_anonymous"`
	Message     *string `json:"message"`
}

// UnmarshalJSON accepts the empty JSON array the gateway sends when an order has no notes.
func (n *WebhookNotes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("[]")) || bytes.Equal(trimmed, []byte("null")) {
		*n = WebhookNotes{}
		return nil
	}
	type plain WebhookNotes
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*n = WebhookNotes(p)
	return nil
}

// Anonymous reports whether the donor asked to stay anonymous.
func (n WebhookNotes) Anonymous() bool {
	return strings.EqualFold(strings.TrimSpace(n.IsAnonymous), "true")
}

// DonorEmail prefers the email the gateway captured over the one given at checkout.
func (e WebhookPaymentEntity) DonorEmail() *string {
	if e.Email != nil && strings.TrimSpace(*e.Email) != "" {
		return e.Email
	}
	if e.Notes.DonorEmail != nil && strings.TrimSpace(*e.Notes.DonorEmail) != "" {
		return e.Notes.DonorEmail
	}
	return nil
}

// WebhookResponse is returned to the gateway for every accepted delivery.
type WebhookResponse struct {
	Status           string `json:"status"`
	Event            string `json:"event,omitempty"`
	DonationID       string `json:"donation_id,omitempty"`
	BlockchainTxHash string `json:"blockchain_tx_hash,omitempty"`
	TxHash           string `json:"tx_hash,omitempty"`
	ExplorerURL      string `json:"explorer_url,omitempty"`
	Resumed          bool   `json:"resumed,omitempty"`
}

// ToWebhookResponse shapes an outcome the way each terminal status is reported.
func ToWebhookResponse(o *domain.WebhookOutcome) WebhookResponse {
	resp := WebhookResponse{Status: string(o.Status)}
	switch o.Status {
	case domain.WebhookStatusIgnored:
		resp.Event = o.Event
	case domain.WebhookStatusAlreadyProcessed:
		resp.DonationID = o.DonationID
		resp.TxHash = o.LedgerTxID
	case domain.WebhookStatusSuccess:
		resp.DonationID = o.DonationID
		resp.BlockchainTxHash = o.LedgerTxID
		resp.ExplorerURL = o.ExplorerURL
		resp.Resumed = o.Resumed
	}
	return resp
}
