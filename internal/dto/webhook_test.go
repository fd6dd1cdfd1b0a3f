package dto

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookPayload_EmptyNotesArray(t *testing.T) {
	body := `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","amount":500,"method":"upi","notes":[]}}}}`

	var p WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	require.NotNil(t, p.PaymentEntity())
	assert.Equal(t, "", p.PaymentEntity().Notes.CampaignID)
	assert.False(t, p.PaymentEntity().Notes.Anonymous())
}

func TestWebhookPayload_MissingEntity(t *testing.T) {
	var p WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(`{"event":"payment.captured","payload":{}}`), &p))
	assert.Nil(t, p.PaymentEntity())
}

func TestWebhookNotes_Anonymous(t *testing.T) {
	assert.True(t, WebhookNotes{IsAnonymous: "true"}.Anonymous())
	assert.True(t, WebhookNotes{IsAnonymous: "TRUE"}.Anonymous())
	assert.False(t, WebhookNotes{IsAnonymous: "false"}.Anonymous())
	assert.False(t, WebhookNotes{}.Anonymous())
}

func TestToWebhookResponse(t *testing.T) {
	success := ToWebhookResponse(&domain.WebhookOutcome{
		Status: domain.WebhookStatusSuccess, DonationID: "d1", LedgerTxID: "0xabc", ExplorerURL: "https://x/tx/0xabc",
	})
	assert.Equal(t, "success", success.Status)
	assert.Equal(t, "0xabc", success.BlockchainTxHash)
	assert.Empty(t, success.TxHash)

	dup := ToWebhookResponse(&domain.WebhookOutcome{
		Status: domain.WebhookStatusAlreadyProcessed, DonationID: "d1", LedgerTxID: "0xabc",
	})
	assert.Equal(t, "0xabc", dup.TxHash)
	assert.Empty(t, dup.BlockchainTxHash)

	ignored := ToWebhookResponse(&domain.WebhookOutcome{Status: domain.WebhookStatusIgnored, Event: "payment.failed"})
	assert.Equal(t, "payment.failed", ignored.Event)
	assert.Empty(t, ignored.DonationID)
}
