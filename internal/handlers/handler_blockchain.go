package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/dto"
	"github.com/SscSPs/heartchain_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Lookup sources reported by getTransaction.
const (
	sourceFrontend = "frontend"
	sourceBackend  = "backend"
)

type blockchainHandler struct {
	walletTxService portssvc.WalletTransactionSvcFacade
}

func registerBlockchainRoutes(rg *gin.RouterGroup, limited gin.HandlerFunc, ws portssvc.WalletTransactionSvcFacade) {
	h := &blockchainHandler{walletTxService: ws}

	bc := rg.Group("/blockchain")
	{
		bc.POST("/record-transaction", limited, h.recordTransaction)
		bc.GET("/transactions", h.listTransactions)
		bc.GET("/transactions/:hash", h.getTransaction)
		bc.GET("/verify/:hash", h.verifyTransaction)
		bc.GET("/stats", h.stats)
	}
}

// recordTransaction godoc
// @Summary Record a wallet transaction
// @Description Stores a transaction submitted from the donor's wallet. Re-recording a hash updates its status.
// @Tags blockchain
// @Accept json
// @Produce json
// @Param transaction body dto.RecordWalletTransactionRequest true "Wallet transaction"
// @Success 200 {object} dto.RecordWalletTransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /blockchain/record-transaction [post]
func (h *blockchainHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordWalletTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	saved, created, err := h.walletTxService.RecordTransaction(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to record transaction")
		return
	}

	msg := "Transaction updated"
	if created {
		msg = "Transaction recorded successfully"
	}
	c.JSON(http.StatusOK, dto.RecordWalletTransactionResponse{
		Success:     true,
		Message:     msg,
		Transaction: dto.ToWalletTransactionResponse(saved, h.walletTxService.ExplorerURL(saved.Hash)),
	})
}

// listTransactions godoc
// @Summary List transactions
// @Description Wallet-submitted transactions (keyset paginated) alongside recent backend ledger records.
// @Tags blockchain
// @Produce json
// @Param limit query int false "Page size (1-100)" default(50)
// @Param next_token query string false "Token from the previous page"
// @Success 200 {object} dto.ListWalletTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /blockchain/transactions [get]
func (h *blockchainHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListWalletTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	txs, next, err := h.walletTxService.ListTransactions(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	records, err := h.walletTxService.RecentLedgerRecords(c.Request.Context(), params.Limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list ledger records")
		return
	}

	resp := dto.ListWalletTransactionsResponse{
		FrontendTransactions: make([]dto.WalletTransactionResponse, len(txs)),
		BackendTransactions:  make([]dto.LedgerRecordResponse, len(records)),
		TotalCount:           len(txs) + len(records),
		NextToken:            next,
	}
	for i := range txs {
		resp.FrontendTransactions[i] = dto.ToWalletTransactionResponse(&txs[i], h.walletTxService.ExplorerURL(txs[i].Hash))
	}
	for i := range records {
		resp.BackendTransactions[i] = *dto.ToLedgerRecordResponse(&records[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Look up a transaction by hash
// @Description Checks wallet-submitted transactions first, then backend ledger records.
// @Tags blockchain
// @Produce json
// @Param hash path string true "Transaction hash"
// @Success 200 {object} dto.WalletTransactionLookupResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /blockchain/transactions/{hash} [get]
func (h *blockchainHandler) getTransaction(c *gin.Context) {
	hash := c.Param("hash")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("hash", hash))

	wtx, rec, err := h.walletTxService.LookupTransaction(c.Request.Context(), hash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
			return
		}
		respondError(c, logger, err, "Failed to look up transaction")
		return
	}

	resp := dto.WalletTransactionLookupResponse{Found: true}
	if wtx != nil {
		view := dto.ToWalletTransactionResponse(wtx, h.walletTxService.ExplorerURL(wtx.Hash))
		resp.Source = sourceFrontend
		resp.Transaction = &view
	} else {
		resp.Source = sourceBackend
		resp.Record = dto.ToLedgerRecordResponse(rec)
	}
	c.JSON(http.StatusOK, resp)
}

// verifyTransaction godoc
// @Summary Verify a wallet transaction
// @Tags blockchain
// @Produce json
// @Param hash path string true "Transaction hash"
// @Success 200 {object} dto.VerifyWalletTransactionResponse
// @Failure 500 {object} ErrorResponse
// @Router /blockchain/verify/{hash} [get]
func (h *blockchainHandler) verifyTransaction(c *gin.Context) {
	hash := c.Param("hash")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("hash", hash))

	verified, err := h.walletTxService.IsRecorded(c.Request.Context(), hash)
	if err != nil {
		respondError(c, logger, err, "Failed to verify transaction")
		return
	}

	msg := "Transaction not found in local records. Check the explorer."
	if verified {
		msg = "Transaction found in records"
	}
	c.JSON(http.StatusOK, dto.VerifyWalletTransactionResponse{
		Hash:        hash,
		Verified:    verified,
		ExplorerURL: h.walletTxService.ExplorerURL(hash),
		Message:     msg,
	})
}

// stats godoc
// @Summary Blockchain statistics
// @Tags blockchain
// @Produce json
// @Success 200 {object} dto.BlockchainStatsResponse
// @Failure 500 {object} ErrorResponse
// @Router /blockchain/stats [get]
func (h *blockchainHandler) stats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, ledgerStats, err := h.walletTxService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute blockchain stats")
		return
	}
	c.JSON(http.StatusOK, dto.BlockchainStatsResponse{
		TotalTransactions:     stats.Total,
		ConfirmedTransactions: stats.Confirmed,
		PendingTransactions:   stats.Pending,
		FailedTransactions:    stats.Failed,
		TotalAmountINR:        stats.TotalAmount,
		LedgerMode:            ledgerStats.Mode,
		BackendTransactions:   ledgerStats.TotalRecords,
		BackendAmountPaise:    ledgerStats.TotalAmountMinor,
	})
}
