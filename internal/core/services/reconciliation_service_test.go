package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/heartchain_backend/internal/adapters/ledger"
	"github.com/SscSPs/heartchain_backend/internal/adapters/payment"
	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/core/services"
	"github.com/SscSPs/heartchain_backend/internal/platform/config"
	"github.com/SscSPs/heartchain_backend/internal/utils/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testExplorerBase = "https://explorer.test"

type webhookFixture struct {
	paymentID string
	amount    int64
	method    string
	email     string
	notes     map[string]any
}

func capturedWebhook(f webhookFixture) []byte {
	entity := map[string]any{
		"id":       f.paymentID,
		"amount":   f.amount,
		"currency": "INR",
		"method":   f.method,
		"notes":    f.notes,
	}
	if f.email != "" {
		entity["email"] = f.email
	}
	body, _ := json.Marshal(map[string]any{
		"event":   services.EventPaymentCaptured,
		"payload": map[string]any{"payment": map[string]any{"entity": entity}},
	})
	return body
}

type ReconciliationServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memoryDatastore
	gateway   *MockPaymentGateway
	ledger    *flakyLedger
	publisher *recordingPublisher
	service   portssvc.ReconciliationSvc
	campaign  domain.Campaign
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newMemoryDatastore()
	suite.gateway = new(MockPaymentGateway)
	suite.gateway.On("HasWebhookSecret").Return(false).Maybe()
	suite.ledger = &flakyLedger{LedgerRecorder: ledger.NewSimulatedRecorder(ledger.NewMemoryStore(), testExplorerBase)}
	suite.publisher = &recordingPublisher{}
	suite.service = services.NewReconciliationService(suite.store, suite.gateway, suite.ledger,
		services.WithEventPublisher(suite.publisher, "donations"),
	)

	suite.campaign = domain.Campaign{
		CampaignID:   uuid.NewString(),
		Title:        "Clean water",
		GoalAmount:   decimal.NewFromInt(500000),
		RaisedAmount: decimal.Zero,
		IsActive:     true,
	}
	suite.Require().NoError(suite.store.SaveCampaign(suite.ctx, suite.campaign))
}

func (suite *ReconciliationServiceTestSuite) fixture(paymentID string) webhookFixture {
	return webhookFixture{
		paymentID: paymentID,
		amount:    100000,
		method:    "upi",
		email:     "donor@example.com",
		notes: map[string]any{
			"campaign_id":  suite.campaign.CampaignID,
			"donor_name":   "Asha",
			"is_anonymous": "false",
		},
	}
}

func (suite *ReconciliationServiceTestSuite) campaignNow() *domain.Campaign {
	c, err := suite.store.FindCampaignByID(suite.ctx, suite.campaign.CampaignID)
	suite.Require().NoError(err)
	return c
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_EndToEnd() {
	body := capturedWebhook(suite.fixture("pay_ABC"))

	outcome, err := suite.service.HandleWebhook(suite.ctx, body, "")
	suite.Require().NoError(err)
	suite.Equal(domain.WebhookStatusSuccess, outcome.Status)
	suite.False(outcome.Resumed)
	suite.Regexp(`^0x[0-9a-f]{64}$`, outcome.LedgerTxID)
	suite.Equal(testExplorerBase+"/tx/"+outcome.LedgerTxID, outcome.ExplorerURL)

	donation, err := suite.store.FindDonationByGatewayPaymentID(suite.ctx, "pay_ABC")
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(1000).Equal(donation.Amount))
	suite.Equal(domain.PaymentMethodUPI, donation.PaymentMethod)
	suite.Equal(outcome.LedgerTxID, *donation.LedgerTxID)
	suite.True(donation.StatsApplied)
	suite.Equal("Asha", *donation.DonorName)

	c := suite.campaignNow()
	suite.True(decimal.NewFromInt(1000).Equal(c.RaisedAmount))
	suite.Equal(1, c.DonorCount)

	rec, err := suite.ledger.Read(suite.ctx, outcome.LedgerTxID)
	suite.Require().NoError(err)
	suite.Equal(int64(100000), rec.AmountMinor)
	suite.Equal(identity.HashEmail("donor@example.com"), rec.DonorIdentity)
	suite.Equal("upi", rec.PaymentMethod)

	// Redelivery changes nothing.
	again, err := suite.service.HandleWebhook(suite.ctx, body, "")
	suite.Require().NoError(err)
	suite.Equal(domain.WebhookStatusAlreadyProcessed, again.Status)
	suite.Equal(outcome.DonationID, again.DonationID)
	suite.Equal(outcome.LedgerTxID, again.LedgerTxID)

	c = suite.campaignNow()
	suite.True(decimal.NewFromInt(1000).Equal(c.RaisedAmount))
	suite.Equal(1, c.DonorCount)
	count, _ := suite.ledger.Count(suite.ctx)
	suite.Equal(int64(1), count)
	suite.Len(suite.publisher.published(), 1)
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_ConcurrentDeliveries() {
	body := capturedWebhook(suite.fixture("pay_RACE"))

	const deliveries = 16
	var wg sync.WaitGroup
	outcomes := make([]*domain.WebhookOutcome, deliveries)
	errs := make([]error, deliveries)
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = suite.service.HandleWebhook(suite.ctx, body, "")
		}(i)
	}
	wg.Wait()

	successes := 0
	for i := range outcomes {
		suite.Require().NoError(errs[i])
		switch outcomes[i].Status {
		case domain.WebhookStatusSuccess:
			successes++
		case domain.WebhookStatusAlreadyProcessed:
		default:
			suite.Failf("unexpected status", "%s", outcomes[i].Status)
		}
	}
	suite.GreaterOrEqual(successes, 1)
	suite.Equal(1, suite.store.donationCount())
	suite.Equal(int32(1), suite.ledger.writes.Load())
	count, err := suite.ledger.Count(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)

	c := suite.campaignNow()
	suite.True(decimal.NewFromInt(1000).Equal(c.RaisedAmount))
	suite.Equal(1, c.DonorCount)
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_RedeliveryDuringSlowLedgerWrite() {
	gated := newGatedLedger(ledger.NewSimulatedRecorder(ledger.NewMemoryStore(), testExplorerBase))
	svc := services.NewReconciliationService(suite.store, suite.gateway, gated)
	body := capturedWebhook(suite.fixture("pay_OVERLAP"))

	type result struct {
		outcome *domain.WebhookOutcome
		err     error
	}
	first := make(chan result, 1)
	go func() {
		outcome, err := svc.HandleWebhook(suite.ctx, body, "")
		first <- result{outcome, err}
	}()
	<-gated.entered

	// The gateway retries while the first delivery waits on the ledger.
	second, err := svc.HandleWebhook(suite.ctx, body, "")
	suite.Require().NoError(err)
	suite.Equal(domain.WebhookStatusAlreadyProcessed, second.Status)

	// A repair pass leaves the in-flight donation alone.
	report, err := svc.ReconcilePending(suite.ctx, 10)
	suite.Require().NoError(err)
	suite.Equal(domain.RepairReport{}, report)

	close(gated.release)
	res := <-first
	suite.Require().NoError(res.err)
	suite.Equal(domain.WebhookStatusSuccess, res.outcome.Status)
	suite.Equal(res.outcome.DonationID, second.DonationID)

	suite.Equal(int32(1), gated.writes.Load())
	count, err := gated.Count(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
	suite.Equal(1, suite.campaignNow().DonorCount)
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_ConcurrentDistinctPayments() {
	const deliveries = 20
	var (
		wg       sync.WaitGroup
		errs     = make([]error, deliveries)
		outcomes = make([]*domain.WebhookOutcome, deliveries)
		total    = decimal.Zero
	)
	for i := 0; i < deliveries; i++ {
		f := suite.fixture(fmt.Sprintf("pay_D%02d", i))
		f.amount = int64(100 * (i + 1))
		total = total.Add(decimal.New(int64(i+1), 0))
		wg.Add(1)
		go func(i int, body []byte) {
			defer wg.Done()
			outcomes[i], errs[i] = suite.service.HandleWebhook(suite.ctx, body, "")
		}(i, capturedWebhook(f))
	}
	wg.Wait()

	for i := range errs {
		suite.Require().NoError(errs[i])
		suite.Equal(domain.WebhookStatusSuccess, outcomes[i].Status)
	}
	c := suite.campaignNow()
	suite.True(total.Equal(c.RaisedAmount), "raised %s, want %s", c.RaisedAmount, total)
	suite.Equal(deliveries, c.DonorCount)
	suite.Equal(deliveries, suite.store.donationCount())
	count, err := suite.ledger.Count(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(deliveries), count)
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_SignatureMismatch() {
	gateway := new(MockPaymentGateway)
	gateway.On("HasWebhookSecret").Return(true)
	body := capturedWebhook(suite.fixture("pay_SIG"))
	gateway.On("VerifyWebhookSignature", body, "bad").Return(false).Once()
	service := services.NewReconciliationService(suite.store, gateway, suite.ledger)

	outcome, err := service.HandleWebhook(suite.ctx, body, "bad")
	suite.ErrorIs(err, apperrors.ErrSignatureInvalid)
	suite.Nil(outcome)
	suite.Equal(0, suite.store.donationCount())
	gateway.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_MissingSignatureWithSecret() {
	gateway := new(MockPaymentGateway)
	gateway.On("HasWebhookSecret").Return(true)
	service := services.NewReconciliationService(suite.store, gateway, suite.ledger)

	_, err := service.HandleWebhook(suite.ctx, capturedWebhook(suite.fixture("pay_NOSIG")), "  ")
	suite.ErrorIs(err, apperrors.ErrSignatureInvalid)
	gateway.AssertNotCalled(suite.T(), "VerifyWebhookSignature", mock.Anything, mock.Anything)
	suite.Equal(0, suite.store.donationCount())
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_ValidSignature() {
	gateway := new(MockPaymentGateway)
	gateway.On("HasWebhookSecret").Return(true)
	body := capturedWebhook(suite.fixture("pay_OK"))
	gateway.On("VerifyWebhookSignature", body, "good").Return(true).Once()
	service := services.NewReconciliationService(suite.store, gateway, suite.ledger)

	outcome, err := service.HandleWebhook(suite.ctx, body, "good")
	suite.Require().NoError(err)
	suite.Equal(domain.WebhookStatusSuccess, outcome.Status)
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_UnsignedWithoutSecretInDevMode() {
	// The adapter fails closed without a secret; the workflow decides to accept.
	gateway := payment.NewClient(&config.Config{})
	suite.Require().False(gateway.VerifyWebhookSignature([]byte("{}"), ""))
	service := services.NewReconciliationService(suite.store, gateway, suite.ledger)

	outcome, err := service.HandleWebhook(suite.ctx, capturedWebhook(suite.fixture("pay_DEV")), "")
	suite.Require().NoError(err)
	suite.Equal(domain.WebhookStatusSuccess, outcome.Status)

	strict := services.NewReconciliationService(suite.store, gateway, suite.ledger, services.WithStrictWebhook(true))
	_, err = strict.HandleWebhook(suite.ctx, capturedWebhook(suite.fixture("pay_DEV2")), "")
	suite.ErrorIs(err, apperrors.ErrSignatureInvalid)
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_StrictModeWithoutSecret() {
	service := services.NewReconciliationService(suite.store, suite.gateway, suite.ledger, services.WithStrictWebhook(true))

	_, err := service.HandleWebhook(suite.ctx, capturedWebhook(suite.fixture("pay_STRICT")), "anything")
	suite.ErrorIs(err, apperrors.ErrSignatureInvalid)
	suite.Equal(0, suite.store.donationCount())
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_IgnoresOtherEvents() {
	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_F","amount":100}}}}`)

	outcome, err := suite.service.HandleWebhook(suite.ctx, body, "")
	suite.Require().NoError(err)
	suite.Equal(domain.WebhookStatusIgnored, outcome.Status)
	suite.Equal("payment.failed", outcome.Event)
	suite.Equal(0, suite.store.donationCount())
	suite.Equal(int32(0), suite.ledger.writes.Load())
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_ValidationFailures() {
	noCampaign := suite.fixture("pay_NOCAMP")
	noCampaign.notes = map[string]any{"donor_name": "X"}

	unknownCampaign := suite.fixture("pay_UNKNOWN")
	unknownCampaign.notes = map[string]any{"campaign_id": uuid.NewString()}

	zeroAmount := suite.fixture("pay_ZERO")
	zeroAmount.amount = 0

	cases := map[string][]byte{
		"invalid json":     []byte(`{"event":`),
		"missing entity":   []byte(`{"event":"payment.captured","payload":{}}`),
		"empty notes":      []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_E","amount":100,"notes":[]}}}}`),
		"missing campaign": capturedWebhook(noCampaign),
		"unknown campaign": capturedWebhook(unknownCampaign),
		"zero amount":      capturedWebhook(zeroAmount),
	}
	for name, body := range cases {
		suite.Run(name, func() {
			_, err := suite.service.HandleWebhook(suite.ctx, body, "")
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.Equal(0, suite.store.donationCount())
	suite.Equal(int32(0), suite.ledger.writes.Load())
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_LedgerFailureThenRedelivery() {
	body := capturedWebhook(suite.fixture("pay_FLAKY"))
	suite.ledger.failNext.Store(1)

	_, err := suite.service.HandleWebhook(suite.ctx, body, "")
	suite.ErrorIs(err, apperrors.ErrDownstream)

	partial, err := suite.store.FindDonationByGatewayPaymentID(suite.ctx, "pay_FLAKY")
	suite.Require().NoError(err)
	suite.Nil(partial.LedgerTxID)
	suite.False(partial.StatsApplied)
	suite.Equal(0, suite.campaignNow().DonorCount)

	outcome, err := suite.service.HandleWebhook(suite.ctx, body, "")
	suite.Require().NoError(err)
	suite.Equal(domain.WebhookStatusSuccess, outcome.Status)
	suite.True(outcome.Resumed)
	suite.Equal(partial.DonationID, outcome.DonationID)

	c := suite.campaignNow()
	suite.Equal(1, c.DonorCount)
	suite.True(decimal.NewFromInt(1000).Equal(c.RaisedAmount))
}

func (suite *ReconciliationServiceTestSuite) TestReconcilePending_ResumesStatsStep() {
	suite.store.statsErr = apperrors.ErrDownstream
	_, err := suite.service.HandleWebhook(suite.ctx, capturedWebhook(suite.fixture("pay_STATS")), "")
	suite.ErrorIs(err, apperrors.ErrDownstream)

	partial, err := suite.store.FindDonationByGatewayPaymentID(suite.ctx, "pay_STATS")
	suite.Require().NoError(err)
	suite.NotNil(partial.LedgerTxID)
	suite.False(partial.StatsApplied)

	report, err := suite.service.ReconcilePending(suite.ctx, 10)
	suite.Require().NoError(err)
	suite.Equal(domain.RepairReport{Scanned: 1, Reconciled: 1}, report)

	c := suite.campaignNow()
	suite.Equal(1, c.DonorCount)
	count, _ := suite.ledger.Count(suite.ctx)
	suite.Equal(int64(1), count, "repair must not write a second ledger record")

	report, err = suite.service.ReconcilePending(suite.ctx, 10)
	suite.Require().NoError(err)
	suite.Equal(0, report.Scanned)
}

func (suite *ReconciliationServiceTestSuite) TestReconcilePending_CountsFailures() {
	suite.ledger.failNext.Store(1)
	_, err := suite.service.HandleWebhook(suite.ctx, capturedWebhook(suite.fixture("pay_R1")), "")
	suite.Require().Error(err)

	suite.ledger.failNext.Store(1)
	report, err := suite.service.ReconcilePending(suite.ctx, 10)
	suite.Require().NoError(err)
	suite.Equal(domain.RepairReport{Scanned: 1, Failed: 1}, report)
}

func (suite *ReconciliationServiceTestSuite) TestReconcilePending_TakesOverStaleClaim() {
	svc := services.NewReconciliationService(suite.store, suite.gateway, suite.ledger,
		services.WithLedgerClaimTTL(time.Minute),
	)
	suite.ledger.failNext.Store(1)
	_, err := svc.HandleWebhook(suite.ctx, capturedWebhook(suite.fixture("pay_STALE")), "")
	suite.Require().Error(err)

	partial, err := suite.store.FindDonationByGatewayPaymentID(suite.ctx, "pay_STALE")
	suite.Require().NoError(err)
	suite.Nil(partial.LedgerClaimedAt, "a failed ledger write releases its claim")

	// A live claim keeps the donation out of the repair pass.
	suite.store.setLedgerClaim(partial.DonationID, time.Now().UTC())
	report, err := svc.ReconcilePending(suite.ctx, 10)
	suite.Require().NoError(err)
	suite.Equal(0, report.Scanned)

	// Once the owner has been gone longer than the lease, repair takes over.
	suite.store.setLedgerClaim(partial.DonationID, time.Now().UTC().Add(-2*time.Minute))
	report, err = svc.ReconcilePending(suite.ctx, 10)
	suite.Require().NoError(err)
	suite.Equal(domain.RepairReport{Scanned: 1, Reconciled: 1}, report)
	suite.Equal(int32(1), suite.ledger.writes.Load())
	suite.Equal(1, suite.campaignNow().DonorCount)
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_AnonymousDonor() {
	f := suite.fixture("pay_ANON")
	f.notes["is_anonymous"] = "true"
	f.notes["donor_name"] = "Hidden Person"

	outcome, err := suite.service.HandleWebhook(suite.ctx, capturedWebhook(f), "")
	suite.Require().NoError(err)

	donation, err := suite.store.FindDonationByID(suite.ctx, outcome.DonationID)
	suite.Require().NoError(err)
	suite.True(donation.IsAnonymous)
	suite.Nil(donation.DonorEmail)
	suite.Equal(domain.AnonymousDonorName, *donation.Masked().DonorName)

	rec, err := suite.ledger.Read(suite.ctx, outcome.LedgerTxID)
	suite.Require().NoError(err)
	suite.Equal(identity.Anonymous, rec.DonorIdentity)
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_NormalisesDonationFields() {
	f := suite.fixture("pay_FIELDS")
	f.method = ""
	f.email = ""
	f.notes["donor_name"] = "  "
	f.notes["message"] = strings.Repeat("é", 600)

	outcome, err := suite.service.HandleWebhook(suite.ctx, capturedWebhook(f), "")
	suite.Require().NoError(err)

	donation, err := suite.store.FindDonationByID(suite.ctx, outcome.DonationID)
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentMethodUnknown, donation.PaymentMethod)
	suite.Equal(domain.AnonymousDonorName, *donation.DonorName)
	suite.Nil(donation.DonorEmail)
	suite.Len([]rune(*donation.Message), domain.MaxDonationMessageLength)
	suite.WithinDuration(time.Now(), donation.CreatedAt, 5*time.Second)
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_PublishesReconciledEvent() {
	outcome, err := suite.service.HandleWebhook(suite.ctx, capturedWebhook(suite.fixture("pay_EVT")), "")
	suite.Require().NoError(err)

	events := suite.publisher.published()
	suite.Require().Len(events, 1)
	suite.Equal("donations", events[0].topic)
	suite.Equal(outcome.DonationID, events[0].key)

	var evt domain.DonationReconciledEvent
	suite.Require().NoError(json.Unmarshal(events[0].payload, &evt))
	suite.Equal("pay_EVT", evt.GatewayPaymentID)
	suite.Equal(int64(100000), evt.AmountMinor)
	suite.Equal(outcome.LedgerTxID, evt.LedgerTxID)
}

func (suite *ReconciliationServiceTestSuite) TestHandleWebhook_PublishFailureDoesNotFail() {
	suite.publisher.err = apperrors.ErrDownstream

	outcome, err := suite.service.HandleWebhook(suite.ctx, capturedWebhook(suite.fixture("pay_PUBERR")), "")
	suite.Require().NoError(err)
	suite.Equal(domain.WebhookStatusSuccess, outcome.Status)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
