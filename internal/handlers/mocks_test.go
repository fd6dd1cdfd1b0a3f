package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock CampaignService ---
type MockCampaignService struct {
	mock.Mock
}

func (m *MockCampaignService) GetCampaignByID(ctx context.Context, id string) (*domain.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

func (m *MockCampaignService) ListCampaigns(ctx context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Campaign), args.Error(1)
}

func (m *MockCampaignService) ListCampaignDonations(ctx context.Context, id string, limit, offset int) (*domain.Campaign, []domain.Donation, error) {
	args := m.Called(ctx, id, limit, offset)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Campaign), args.Get(1).([]domain.Donation), args.Error(2)
}

func (m *MockCampaignService) CreateCampaign(ctx context.Context, req dto.CreateCampaignRequest) (*domain.Campaign, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

func (m *MockCampaignService) UpdateCampaign(ctx context.Context, id string, req dto.UpdateCampaignRequest) (*domain.Campaign, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

// --- Mock DonationService ---
type MockDonationService struct {
	mock.Mock
}

func (m *MockDonationService) GetDonationByID(ctx context.Context, id string) (*domain.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *MockDonationService) VerifyLedgerTx(ctx context.Context, txID string) (*domain.LedgerRecord, error) {
	args := m.Called(ctx, txID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerRecord), args.Error(1)
}

func (m *MockDonationService) PlatformStats(ctx context.Context) (domain.PlatformStats, domain.LedgerStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.PlatformStats), args.Get(1).(domain.LedgerStats), args.Error(2)
}

func (m *MockDonationService) ExplorerURL(txID string) string {
	return "https://explorer.test/tx/" + txID
}

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockPaymentService) VerifyCheckout(ctx context.Context, req dto.VerifyPaymentRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPaymentService) Config() dto.PaymentConfigResponse {
	return m.Called().Get(0).(dto.PaymentConfigResponse)
}

func (m *MockPaymentService) RefundPayment(ctx context.Context, paymentID string, req dto.RefundRequest) (*domain.Refund, error) {
	args := m.Called(ctx, paymentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) HandleWebhook(ctx context.Context, body []byte, signature string) (*domain.WebhookOutcome, error) {
	args := m.Called(ctx, body, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebhookOutcome), args.Error(1)
}

func (m *MockReconciliationService) ReconcilePending(ctx context.Context, limit int) (domain.RepairReport, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).(domain.RepairReport), args.Error(1)
}

// --- Mock WalletTransactionService ---
type MockWalletTransactionService struct {
	mock.Mock
}

func (m *MockWalletTransactionService) RecordTransaction(ctx context.Context, req dto.RecordWalletTransactionRequest) (*domain.WalletTransaction, bool, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.WalletTransaction), args.Bool(1), args.Error(2)
}

func (m *MockWalletTransactionService) ListTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.WalletTransaction, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	return args.Get(0).([]domain.WalletTransaction), nil, args.Error(2)
}

func (m *MockWalletTransactionService) RecentLedgerRecords(ctx context.Context, limit int) ([]domain.LedgerRecord, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.LedgerRecord), args.Error(1)
}

func (m *MockWalletTransactionService) LookupTransaction(ctx context.Context, hash string) (*domain.WalletTransaction, *domain.LedgerRecord, error) {
	args := m.Called(ctx, hash)
	var wtx *domain.WalletTransaction
	var rec *domain.LedgerRecord
	if args.Get(0) != nil {
		wtx = args.Get(0).(*domain.WalletTransaction)
	}
	if args.Get(1) != nil {
		rec = args.Get(1).(*domain.LedgerRecord)
	}
	return wtx, rec, args.Error(2)
}

func (m *MockWalletTransactionService) IsRecorded(ctx context.Context, hash string) (bool, error) {
	args := m.Called(ctx, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletTransactionService) Stats(ctx context.Context) (domain.WalletTransactionStats, domain.LedgerStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.WalletTransactionStats), args.Get(1).(domain.LedgerStats), args.Error(2)
}

func (m *MockWalletTransactionService) ExplorerURL(hash string) string {
	return "https://explorer.test/tx/" + hash
}

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// --- Mock HealthService ---
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Detailed(ctx context.Context) domain.HealthReport {
	return m.Called(ctx).Get(0).(domain.HealthReport)
}

// Ensure mocks implement the interfaces
var (
	_ portssvc.CampaignSvcFacade          = (*MockCampaignService)(nil)
	_ portssvc.DonationSvcFacade          = (*MockDonationService)(nil)
	_ portssvc.PaymentSvcFacade           = (*MockPaymentService)(nil)
	_ portssvc.ReconciliationSvc          = (*MockReconciliationService)(nil)
	_ portssvc.WalletTransactionSvcFacade = (*MockWalletTransactionService)(nil)
	_ portssvc.AuthSvc                    = (*MockAuthService)(nil)
	_ portssvc.HealthSvc                  = (*MockHealthService)(nil)
)
