package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/dto"
	"github.com/SscSPs/heartchain_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// campaignHandler handles HTTP requests related to campaigns.
type campaignHandler struct {
	campaignService portssvc.CampaignSvcFacade
	donationService portssvc.DonationSvcFacade
}

func newCampaignHandler(cs portssvc.CampaignSvcFacade, ds portssvc.DonationSvcFacade) *campaignHandler {
	return &campaignHandler{campaignService: cs, donationService: ds}
}

// registerCampaignRoutes registers campaign routes. Writes go through admin.
func registerCampaignRoutes(public, admin *gin.RouterGroup, cs portssvc.CampaignSvcFacade, ds portssvc.DonationSvcFacade) {
	h := newCampaignHandler(cs, ds)

	campaigns := public.Group("/campaigns")
	{
		campaigns.GET("", h.listCampaigns)
		campaigns.GET("/:id", h.getCampaign)
		campaigns.GET("/:id/donations", h.listCampaignDonations)
	}

	adminCampaigns := admin.Group("/campaigns")
	{
		adminCampaigns.POST("", h.createCampaign)
		adminCampaigns.PATCH("/:id", h.updateCampaign)
	}
}

// createCampaign godoc
// @Summary Create a campaign
// @Tags campaigns
// @Accept json
// @Produce json
// @Param campaign body dto.CreateCampaignRequest true "Campaign details"
// @Success 201 {object} dto.CampaignResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /campaigns [post]
func (h *campaignHandler) createCampaign(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	campaign, err := h.campaignService.CreateCampaign(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create campaign")
		return
	}

	logger.Info("Campaign created", slog.String("campaign_id", campaign.CampaignID))
	c.JSON(http.StatusCreated, dto.ToCampaignResponse(campaign))
}

// listCampaigns godoc
// @Summary List campaigns
// @Description Lists campaigns newest first. Only active campaigns unless active_only=false.
// @Tags campaigns
// @Produce json
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Param category query string false "Category filter"
// @Param active_only query bool false "Only active campaigns" default(true)
// @Success 200 {array} dto.CampaignResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /campaigns [get]
func (h *campaignHandler) listCampaigns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCampaignsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	campaigns, err := h.campaignService.ListCampaigns(c.Request.Context(), params.ToFilter())
	if err != nil {
		respondError(c, logger, err, "Failed to list campaigns")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCampaignResponse(campaigns))
}

// getCampaign godoc
// @Summary Get a campaign by ID
// @Tags campaigns
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} dto.CampaignResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /campaigns/{id} [get]
func (h *campaignHandler) getCampaign(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("campaign_id", c.Param("id")))

	campaign, err := h.campaignService.GetCampaignByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve campaign")
		return
	}
	c.JSON(http.StatusOK, dto.ToCampaignResponse(campaign))
}

// updateCampaign godoc
// @Summary Update a campaign
// @Description Partially updates a campaign. Raised amount and donor count cannot be changed.
// @Tags campaigns
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Param campaign body dto.UpdateCampaignRequest true "Fields to update"
// @Success 200 {object} dto.CampaignResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /campaigns/{id} [patch]
func (h *campaignHandler) updateCampaign(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("campaign_id", c.Param("id")))
	var req dto.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	campaign, err := h.campaignService.UpdateCampaign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update campaign")
		return
	}
	c.JSON(http.StatusOK, dto.ToCampaignResponse(campaign))
}

// listCampaignDonations godoc
// @Summary List a campaign's donations
// @Description Donations are masked: no emails, and anonymous donors show as Anonymous.
// @Tags campaigns
// @Produce json
// @Param id path string true "Campaign ID"
// @Param limit query int false "Page size (1-100)" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.CampaignDonationsResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /campaigns/{id}/donations [get]
func (h *campaignHandler) listCampaignDonations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("campaign_id", c.Param("id")))
	var params dto.ListCampaignDonationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	campaign, donations, err := h.campaignService.ListCampaignDonations(c.Request.Context(), c.Param("id"), params.Limit, params.Offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list donations")
		return
	}

	resp := dto.CampaignDonationsResponse{
		CampaignID:    campaign.CampaignID,
		CampaignTitle: campaign.Title,
		Donations:     make([]dto.DonationResponse, len(donations)),
		Total:         len(donations),
	}
	for i, d := range donations {
		explorer := ""
		if d.LedgerTxID != nil {
			explorer = h.donationService.ExplorerURL(*d.LedgerTxID)
		}
		resp.Donations[i] = dto.ToDonationResponse(d, explorer)
	}
	c.JSON(http.StatusOK, resp)
}
