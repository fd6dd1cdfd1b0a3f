package dto

import (
	"time"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordWalletTransactionRequest is sent by the frontend after a wallet submits a transaction.
type RecordWalletTransactionRequest struct {
	Hash          string          `json:"hash" binding:"required"`
	CampaignID    string          `json:"campaignId" binding:"required"`
	CampaignTitle string          `json:"campaignTitle" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	DonorAddress  string          `json:"donorAddress" binding:"required"`
	Timestamp     time.Time       `json:"timestamp" binding:"required"`
	Status        string          `json:"status" binding:"required,oneof=pending confirmed failed"`
	BlockNumber   *int64          `json:"blockNumber,omitempty"`
	GasUsed       *string         `json:"gasUsed,omitempty"`
	ChainID       *string         `json:"chainId,omitempty"`
}

// ToWalletTransaction converts the request to its domain form.
func (r RecordWalletTransactionRequest) ToWalletTransaction() domain.WalletTransaction {
	return domain.WalletTransaction{
		Hash:          r.Hash,
		CampaignID:    r.CampaignID,
		CampaignTitle: r.CampaignTitle,
		Amount:        r.Amount,
		DonorAddress:  r.DonorAddress,
		Status:        domain.WalletTransactionStatus(r.Status),
		BlockNumber:   r.BlockNumber,
		GasUsed:       r.GasUsed,
		ChainID:       r.ChainID,
		Timestamp:     r.Timestamp,
	}
}

// WalletTransactionResponse is the public view of a wallet transaction.
type WalletTransactionResponse struct {
	Hash          string          `json:"hash"`
	CampaignID    string          `json:"campaignId"`
	CampaignTitle string          `json:"campaignTitle"`
	Amount        decimal.Decimal `json:"amount"`
	DonorAddress  string          `json:"donorAddress"`
	Timestamp     time.Time       `json:"timestamp"`
	Status        string          `json:"status"`
	BlockNumber   *int64          `json:"blockNumber,omitempty"`
	GasUsed       *string         `json:"gasUsed,omitempty"`
	ChainID       *string         `json:"chainId,omitempty"`
	ExplorerURL   string          `json:"explorerUrl"`
	RecordedAt    time.Time       `json:"recordedAt"`
}

// ToWalletTransactionResponse converts a domain.WalletTransaction.
func ToWalletTransactionResponse(tx *domain.WalletTransaction, explorerURL string) WalletTransactionResponse {
	return WalletTransactionResponse{
		Hash:          tx.Hash,
		CampaignID:    tx.CampaignID,
		CampaignTitle: tx.CampaignTitle,
		Amount:        tx.Amount,
		DonorAddress:  tx.DonorAddress,
		Timestamp:     tx.Timestamp,
		Status:        string(tx.Status),
		BlockNumber:   tx.BlockNumber,
		GasUsed:       tx.GasUsed,
		ChainID:       tx.ChainID,
		ExplorerURL:   explorerURL,
		RecordedAt:    tx.RecordedAt,
	}
}

// RecordWalletTransactionResponse reports the result of a record call.
type RecordWalletTransactionResponse struct {
	Success     bool                      `json:"success"`
	Message     string                    `json:"message"`
	Transaction WalletTransactionResponse `json:"transaction"`
}

// ListWalletTransactionsParams defines the query parameters for listing wallet transactions.
type ListWalletTransactionsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"next_token"`
}

// ListWalletTransactionsResponse lists wallet transactions alongside recent ledger records.
type ListWalletTransactionsResponse struct {
	FrontendTransactions []WalletTransactionResponse `json:"frontend_transactions"`
	BackendTransactions  []LedgerRecordResponse      `json:"backend_transactions"`
	TotalCount           int                         `json:"total_count"`
	NextToken            *string                     `json:"next_token,omitempty"`
}

// WalletTransactionLookupResponse is returned for a single hash lookup.
type WalletTransactionLookupResponse struct {
	Found       bool                       `json:"found"`
	Source      string                     `json:"source"`
	Transaction *WalletTransactionResponse `json:"transaction,omitempty"`
	Record      *LedgerRecordResponse      `json:"record,omitempty"`
}

// VerifyWalletTransactionResponse reports whether a hash is in local records.
type VerifyWalletTransactionResponse struct {
	Hash        string `json:"hash"`
	Verified    bool   `json:"verified"`
	ExplorerURL string `json:"explorerUrl"`
	Message     string `json:"message"`
}

// BlockchainStatsResponse summarises wallet transactions and ledger totals.
type BlockchainStatsResponse struct {
	TotalTransactions     int64           `json:"total_transactions"`
	ConfirmedTransactions int64           `json:"confirmed_transactions"`
	PendingTransactions   int64           `json:"pending_transactions"`
	FailedTransactions    int64           `json:"failed_transactions"`
	TotalAmountINR        decimal.Decimal `json:"total_amount_inr"`
	LedgerMode            string          `json:"ledger_mode"`
	BackendTransactions   int64           `json:"backend_transactions"`
	BackendAmountPaise    int64           `json:"backend_amount_paise"`
}
