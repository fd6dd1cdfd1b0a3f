package dto

import "github.com/SscSPs/heartchain_backend/internal/core/domain"

// CreateOrderRequest defines the data needed to open a donation checkout.
type CreateOrderRequest struct {
	Amount      int64   `json:"amount" binding:"required,gt=0"` // paise
	CampaignID  string  `json:"campaign_id" binding:"required"`
	DonorName   *string `json:"donor_name,omitempty" binding:"omitempty,max=100"`
	DonorEmail  *string `json:"donor_email,omitempty" binding:"omitempty,email"`
	IsAnonymous bool    `json:"is_anonymous"`
	Message     *string `json:"message,omitempty" binding:"omitempty,max=500"`
}

// ToOrderRequest converts the request to its domain form.
func (r CreateOrderRequest) ToOrderRequest() domain.OrderRequest {
	return domain.OrderRequest{
		AmountMinor: r.Amount,
		CampaignID:  r.CampaignID,
		DonorName:   r.DonorName,
		DonorEmail:  r.DonorEmail,
		IsAnonymous: r.IsAnonymous,
		Message:     r.Message,
	}
}

// CreateOrderResponse is handed to the checkout widget.
type CreateOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// ToCreateOrderResponse converts a domain.Order.
func ToCreateOrderResponse(o *domain.Order) CreateOrderResponse {
	return CreateOrderResponse{
		OrderID:  o.OrderID,
		Amount:   o.AmountMinor,
		Currency: o.Currency,
		KeyID:    o.KeyID,
	}
}

// VerifyPaymentRequest carries the checkout callback fields. They are accepted
// either as a JSON body or as query/form parameters.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" form:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" form:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" form:"razorpay_signature" binding:"required"`
}

// VerifyPaymentResponse confirms a checkout signature.
type VerifyPaymentResponse struct {
	Verified  bool   `json:"verified"`
	PaymentID string `json:"payment_id"`
	Message   string `json:"message"`
}

// PaymentConfigResponse is the public checkout configuration.
type PaymentConfigResponse struct {
	KeyID       string `json:"key_id"`
	Currency    string `json:"currency"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ThemeColor  string `json:"theme_color"`
	Configured  bool   `json:"configured"`
}

// RefundRequest issues a refund; Amount nil refunds in full.
type RefundRequest struct {
	Amount *int64  `json:"amount,omitempty" binding:"omitempty,gt=0"`
	Reason *string `json:"reason,omitempty" binding:"omitempty,max=200"`
}

// RefundResponse reports a gateway refund.
type RefundResponse struct {
	RefundID  string `json:"refund_id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// ToRefundResponse converts a domain.Refund.
func ToRefundResponse(r *domain.Refund) RefundResponse {
	return RefundResponse{
		RefundID:  r.RefundID,
		PaymentID: r.PaymentID,
		Amount:    r.AmountMinor,
		Status:    r.Status,
	}
}
