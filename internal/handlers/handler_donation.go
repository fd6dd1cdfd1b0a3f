package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/dto"
	"github.com/SscSPs/heartchain_backend/internal/middleware"
	"github.com/SscSPs/heartchain_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type donationHandler struct {
	donationService portssvc.DonationSvcFacade
}

func registerDonationRoutes(rg *gin.RouterGroup, ds portssvc.DonationSvcFacade) {
	h := &donationHandler{donationService: ds}

	donations := rg.Group("/donations")
	{
		donations.GET("/stats/platform", h.platformStats)
		donations.GET("/verify/:txHash", h.verifyDonation)
		donations.GET("/:id", h.getDonation)
	}
}

// getDonation godoc
// @Summary Get a donation by ID
// @Tags donations
// @Produce json
// @Param id path string true "Donation ID"
// @Success 200 {object} dto.DonationResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /donations/{id} [get]
func (h *donationHandler) getDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("donation_id", c.Param("id")))

	donation, err := h.donationService.GetDonationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve donation")
		return
	}

	explorer := ""
	if donation.LedgerTxID != nil {
		explorer = h.donationService.ExplorerURL(*donation.LedgerTxID)
	}
	c.JSON(http.StatusOK, dto.ToDonationResponse(*donation, explorer))
}

// verifyDonation godoc
// @Summary Verify a donation on the ledger
// @Description Always answers 200; verified is false when the ledger does not know the hash.
// @Tags donations
// @Produce json
// @Param txHash path string true "Ledger transaction hash"
// @Success 200 {object} dto.DonationVerificationResponse
// @Failure 500 {object} ErrorResponse
// @Router /donations/verify/{txHash} [get]
func (h *donationHandler) verifyDonation(c *gin.Context) {
	txHash := c.Param("txHash")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("tx_hash", txHash))

	resp := dto.DonationVerificationResponse{
		TxHash:      txHash,
		ExplorerURL: h.donationService.ExplorerURL(txHash),
	}

	rec, err := h.donationService.VerifyLedgerTx(c.Request.Context(), txHash)
	switch {
	case err == nil:
		resp.Verified = true
		resp.Message = "Donation verified on blockchain"
		resp.Record = dto.ToLedgerRecordResponse(rec)
	case errors.Is(err, apperrors.ErrNotFound):
		resp.Message = "Transaction not found"
	default:
		respondError(c, logger, err, "Failed to verify donation")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// platformStats godoc
// @Summary Platform statistics
// @Tags donations
// @Produce json
// @Success 200 {object} dto.PlatformStatsResponse
// @Failure 500 {object} ErrorResponse
// @Router /donations/stats/platform [get]
func (h *donationHandler) platformStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, ledgerStats, err := h.donationService.PlatformStats(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute platform stats")
		return
	}

	c.JSON(http.StatusOK, dto.PlatformStatsResponse{
		Database: dto.DatabaseStats{
			TotalDonations:    stats.TotalDonations,
			TotalAmountRaised: stats.TotalRaised,
			TotalCampaigns:    stats.ActiveCampaigns,
		},
		Blockchain: dto.LedgerTotals{
			Mode:                  ledgerStats.Mode,
			TotalDonationsOnChain: ledgerStats.TotalRecords,
			TotalAmountInPaise:    ledgerStats.TotalAmountMinor,
			TotalAmountInINR:      utils.MinorToMajor(ledgerStats.TotalAmountMinor),
		},
	})
}
