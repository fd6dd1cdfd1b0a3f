package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/core/services"
	"github.com/SscSPs/heartchain_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memoryDatastore
	gateway  *MockPaymentGateway
	service  portssvc.PaymentSvcFacade
	campaign domain.Campaign
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newMemoryDatastore()
	suite.gateway = new(MockPaymentGateway)
	suite.service = services.NewPaymentService(suite.gateway, suite.store)
	suite.campaign = domain.Campaign{CampaignID: uuid.NewString(), GoalAmount: decimal.NewFromInt(1000), IsActive: true}
	suite.Require().NoError(suite.store.SaveCampaign(suite.ctx, suite.campaign))
}

func (suite *PaymentServiceTestSuite) TestCreateOrder_Success() {
	req := dto.CreateOrderRequest{Amount: 50000, CampaignID: suite.campaign.CampaignID}
	order := &domain.Order{OrderID: "order_1", AmountMinor: 50000, Currency: "INR", KeyID: "rzp_test"}
	suite.gateway.On("CreateOrder", suite.ctx, req.ToOrderRequest()).Return(order, nil).Once()

	got, err := suite.service.CreateOrder(suite.ctx, req)
	suite.Require().NoError(err)
	suite.Equal(order, got)
	suite.gateway.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestCreateOrder_UnknownCampaign() {
	_, err := suite.service.CreateOrder(suite.ctx, dto.CreateOrderRequest{Amount: 100, CampaignID: uuid.NewString()})
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.gateway.AssertNotCalled(suite.T(), "CreateOrder", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestCreateOrder_InactiveCampaign() {
	closed := domain.Campaign{CampaignID: uuid.NewString(), GoalAmount: decimal.NewFromInt(10)}
	suite.Require().NoError(suite.store.SaveCampaign(suite.ctx, closed))

	_, err := suite.service.CreateOrder(suite.ctx, dto.CreateOrderRequest{Amount: 100, CampaignID: closed.CampaignID})
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal(http.StatusNotFound, apperrors.HTTPStatus(err))
	suite.gateway.AssertNotCalled(suite.T(), "CreateOrder", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestCreateOrder_GatewayNotConfigured() {
	suite.gateway.On("CreateOrder", suite.ctx, mock.Anything).Return(nil, apperrors.ErrNotConfigured).Once()

	_, err := suite.service.CreateOrder(suite.ctx, dto.CreateOrderRequest{Amount: 100, CampaignID: suite.campaign.CampaignID})
	suite.ErrorIs(err, apperrors.ErrNotConfigured)
}

func (suite *PaymentServiceTestSuite) TestVerifyCheckout() {
	suite.gateway.On("VerifyCheckoutSignature", "order_1", "pay_1", "good").Return(true).Once()
	suite.gateway.On("VerifyCheckoutSignature", "order_1", "pay_1", "bad").Return(false).Once()

	suite.NoError(suite.service.VerifyCheckout(suite.ctx, dto.VerifyPaymentRequest{RazorpayOrderID: "order_1", RazorpayPaymentID: "pay_1", RazorpaySignature: "good"}))
	err := suite.service.VerifyCheckout(suite.ctx, dto.VerifyPaymentRequest{RazorpayOrderID: "order_1", RazorpayPaymentID: "pay_1", RazorpaySignature: "bad"})
	suite.ErrorIs(err, apperrors.ErrSignatureInvalid)
}

func (suite *PaymentServiceTestSuite) TestConfig() {
	suite.gateway.On("PublicKey").Return("rzp_test_key")
	suite.gateway.On("IsConfigured").Return(true)

	cfg := suite.service.Config()
	suite.Equal("rzp_test_key", cfg.KeyID)
	suite.Equal("INR", cfg.Currency)
	suite.Equal("HeartChain", cfg.Name)
	suite.Equal("#e63355", cfg.ThemeColor)
	suite.True(cfg.Configured)
}

func (suite *PaymentServiceTestSuite) TestRefundPayment_DefaultReason() {
	refund := &domain.Refund{RefundID: "rfnd_1", PaymentID: "pay_1", AmountMinor: 100, Status: "processed"}
	suite.gateway.On("Refund", suite.ctx, "pay_1", (*int64)(nil), "Donation cancelled").Return(refund, nil).Once()

	blank := "  "
	got, err := suite.service.RefundPayment(suite.ctx, "pay_1", dto.RefundRequest{Reason: &blank})
	suite.Require().NoError(err)
	suite.Equal("rfnd_1", got.RefundID)
	suite.gateway.AssertExpectations(suite.T())
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
