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

// WebhookSignatureHeader carries the gateway's HMAC of the raw webhook body.
const WebhookSignatureHeader = "X-Razorpay-Signature"

type paymentHandler struct {
	paymentService        portssvc.PaymentSvcFacade
	reconciliationService portssvc.ReconciliationSvc
}

// registerPaymentRoutes registers checkout and webhook routes. limited is applied
// to the unauthenticated write endpoints.
func registerPaymentRoutes(public, admin *gin.RouterGroup, limited gin.HandlerFunc, ps portssvc.PaymentSvcFacade, rs portssvc.ReconciliationSvc) {
	h := &paymentHandler{paymentService: ps, reconciliationService: rs}

	payments := public.Group("/payments")
	{
		payments.GET("/config", h.paymentConfig)
		payments.POST("/create-order", limited, h.createOrder)
		payments.POST("/verify", limited, h.verifyPayment)
		payments.POST("/webhook/razorpay", limited, h.razorpayWebhook)
	}

	admin.POST("/payments/:paymentID/refund", h.refundPayment)
}

// createOrder godoc
// @Summary Create a payment order
// @Description Opens a gateway order for a donation to an active campaign. Amount is in paise.
// @Tags payments
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "Order details"
// @Success 200 {object} dto.CreateOrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Campaign not found"
// @Failure 500 {object} ErrorResponse
// @Router /payments/create-order [post]
func (h *paymentHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	logger = logger.With(slog.String("campaign_id", req.CampaignID))

	order, err := h.paymentService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create payment order")
		return
	}

	logger.Info("Payment order created", slog.String("order_id", order.OrderID), slog.Int64("amount_paise", order.AmountMinor))
	c.JSON(http.StatusOK, dto.ToCreateOrderResponse(order))
}

// verifyPayment godoc
// @Summary Verify a checkout signature
// @Description Accepts the checkout callback fields as JSON or as form/query parameters.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.VerifyPaymentRequest true "Checkout callback"
// @Success 200 {object} dto.VerifyPaymentResponse
// @Failure 400 {object} ErrorResponse "Invalid payment signature"
// @Router /payments/verify [post]
func (h *paymentHandler) verifyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	if err := h.paymentService.VerifyCheckout(c.Request.Context(), req); err != nil {
		if errors.Is(err, apperrors.ErrSignatureInvalid) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid payment signature"})
			return
		}
		respondError(c, logger, err, "Failed to verify payment")
		return
	}

	c.JSON(http.StatusOK, dto.VerifyPaymentResponse{
		Verified:  true,
		PaymentID: req.RazorpayPaymentID,
		Message:   "Payment verified successfully",
	})
}

// razorpayWebhook godoc
// @Summary Gateway webhook
// @Description Reconciles payment.captured events into donations. Other events are acknowledged and ignored.
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Razorpay-Signature header string false "HMAC-SHA256 of the raw body"
// @Success 200 {object} dto.WebhookResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /payments/webhook/razorpay [post]
func (h *paymentHandler) razorpayWebhook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	body, err := c.GetRawData()
	if err != nil {
		logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read request body"})
		return
	}

	outcome, err := h.reconciliationService.HandleWebhook(c.Request.Context(), body, c.GetHeader(WebhookSignatureHeader))
	if err != nil {
		respondError(c, logger, err, "Webhook processing failed")
		return
	}
	c.JSON(http.StatusOK, dto.ToWebhookResponse(outcome))
}

// paymentConfig godoc
// @Summary Checkout configuration
// @Tags payments
// @Produce json
// @Success 200 {object} dto.PaymentConfigResponse
// @Router /payments/config [get]
func (h *paymentHandler) paymentConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.paymentService.Config())
}

// refundPayment godoc
// @Summary Refund a payment
// @Description Refunds at the gateway. Campaign totals and the ledger are not changed.
// @Tags payments
// @Accept json
// @Produce json
// @Param paymentID path string true "Gateway payment ID"
// @Param refund body dto.RefundRequest false "Partial amount in paise and reason"
// @Success 200 {object} dto.RefundResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /payments/{paymentID}/refund [post]
func (h *paymentHandler) refundPayment(c *gin.Context) {
	paymentID := c.Param("paymentID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payment_id", paymentID))

	var req dto.RefundRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, logger, err)
			return
		}
	}

	refund, err := h.paymentService.RefundPayment(c.Request.Context(), paymentID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to refund payment")
		return
	}
	if subject, ok := middleware.GetSubjectFromContext(c); ok {
		logger.Info("Refund requested by admin", slog.String("subject", subject), slog.String("refund_id", refund.RefundID))
	}
	c.JSON(http.StatusOK, dto.ToRefundResponse(refund))
}
