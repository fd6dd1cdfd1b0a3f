package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// memoryDatastore mimics the Postgres repositories: unique gateway payment ids,
// the ledger claim compare-and-set, conditional ledger attach and exactly-once
// stats application.
type memoryDatastore struct {
	mu        sync.Mutex
	campaigns map[string]domain.Campaign
	donations map[string]domain.Donation
	byPayment map[string]string

	attachErr error
	statsErr  error
}

func newMemoryDatastore() *memoryDatastore {
	return &memoryDatastore{
		campaigns: make(map[string]domain.Campaign),
		donations: make(map[string]domain.Donation),
		byPayment: make(map[string]string),
	}
}

func (s *memoryDatastore) SaveCampaign(_ context.Context, c domain.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[c.CampaignID]; ok {
		return apperrors.ErrDuplicate
	}
	s.campaigns[c.CampaignID] = c
	return nil
}

func (s *memoryDatastore) FindCampaignByID(_ context.Context, id string) (*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (s *memoryDatastore) ListCampaigns(_ context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Campaign
	for _, c := range s.campaigns {
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *memoryDatastore) UpdateCampaign(_ context.Context, c domain.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.campaigns[c.CampaignID]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.RaisedAmount = existing.RaisedAmount
	c.DonorCount = existing.DonorCount
	s.campaigns[c.CampaignID] = c
	return nil
}

func (s *memoryDatastore) UpdateCampaignStats(_ context.Context, id string, amount decimal.Decimal) (*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incrementLocked(id, amount)
}

func (s *memoryDatastore) incrementLocked(id string, amount decimal.Decimal) (*domain.Campaign, error) {
	c, ok := s.campaigns[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c.RaisedAmount = c.RaisedAmount.Add(amount)
	c.DonorCount++
	s.campaigns[id] = c
	return &c, nil
}

func (s *memoryDatastore) SaveDonation(_ context.Context, d domain.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byPayment[d.GatewayPaymentID]; ok {
		return apperrors.ErrDuplicate
	}
	if _, ok := s.campaigns[d.CampaignID]; !ok {
		return apperrors.ErrNotFound
	}
	s.donations[d.DonationID] = d
	s.byPayment[d.GatewayPaymentID] = d.DonationID
	return nil
}

func (s *memoryDatastore) FindDonationByID(_ context.Context, id string) (*domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &d, nil
}

func (s *memoryDatastore) FindDonationByGatewayPaymentID(_ context.Context, paymentID string) (*domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPayment[paymentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	d := s.donations[id]
	return &d, nil
}

func (s *memoryDatastore) ListDonationsByCampaign(_ context.Context, campaignID string, limit, offset int) ([]domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Donation
	for _, d := range s.donations {
		if d.CampaignID == campaignID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func claimIsLive(d domain.Donation, staleBefore time.Time) bool {
	return d.LedgerClaimedAt != nil && !d.LedgerClaimedAt.Before(staleBefore)
}

func (s *memoryDatastore) ListUnreconciledDonations(_ context.Context, staleBefore time.Time, limit int) ([]domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Donation
	for _, d := range s.donations {
		if d.IsReconciled() {
			continue
		}
		if d.LedgerTxID == nil && claimIsLive(d, staleBefore) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryDatastore) PlatformStats(_ context.Context) (domain.PlatformStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := domain.PlatformStats{TotalRaised: decimal.Zero}
	for _, d := range s.donations {
		stats.TotalDonations++
		stats.TotalRaised = stats.TotalRaised.Add(d.Amount)
	}
	for _, c := range s.campaigns {
		if c.IsActive {
			stats.ActiveCampaigns++
		}
	}
	return stats, nil
}

func (s *memoryDatastore) ClaimLedgerStep(_ context.Context, donationID string, at, staleBefore time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[donationID]
	if !ok || d.LedgerTxID != nil || claimIsLive(d, staleBefore) {
		return false, nil
	}
	d.LedgerClaimedAt = &at
	s.donations[donationID] = d
	return true, nil
}

func (s *memoryDatastore) ReleaseLedgerClaim(_ context.Context, donationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[donationID]
	if !ok || d.LedgerTxID != nil {
		return nil
	}
	d.LedgerClaimedAt = nil
	s.donations[donationID] = d
	return nil
}

// setLedgerClaim backdates a donation's claim, as if its owner had died.
func (s *memoryDatastore) setLedgerClaim(donationID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.donations[donationID]
	d.LedgerClaimedAt = &at
	s.donations[donationID] = d
}

func (s *memoryDatastore) AttachLedgerTx(_ context.Context, donationID, txID string) (*domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attachErr != nil {
		err := s.attachErr
		s.attachErr = nil
		return nil, err
	}
	d, ok := s.donations[donationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if d.LedgerTxID != nil {
		return nil, apperrors.ErrDuplicate
	}
	d.LedgerTxID = &txID
	s.donations[donationID] = d
	return &d, nil
}

func (s *memoryDatastore) ApplyDonationStats(_ context.Context, donationID string) (*domain.Campaign, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statsErr != nil {
		err := s.statsErr
		s.statsErr = nil
		return nil, false, err
	}
	d, ok := s.donations[donationID]
	if !ok {
		return nil, false, apperrors.ErrNotFound
	}
	if d.StatsApplied {
		c := s.campaigns[d.CampaignID]
		return &c, false, nil
	}
	c, err := s.incrementLocked(d.CampaignID, d.Amount)
	if err != nil {
		return nil, false, err
	}
	d.StatsApplied = true
	s.donations[donationID] = d
	return c, true, nil
}

func (s *memoryDatastore) donationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.donations)
}

// MockPaymentGateway is a mock type for the PaymentGateway interface
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockPaymentGateway) VerifyCheckoutSignature(orderID, paymentID, signature string) bool {
	return m.Called(orderID, paymentID, signature).Bool(0)
}

func (m *MockPaymentGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return m.Called(body, signature).Bool(0)
}

func (m *MockPaymentGateway) HasWebhookSecret() bool {
	return m.Called().Bool(0)
}

func (m *MockPaymentGateway) FetchPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, paymentID string, amountMinor *int64, reason string) (*domain.Refund, error) {
	args := m.Called(ctx, paymentID, amountMinor, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}

func (m *MockPaymentGateway) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *MockPaymentGateway) PublicKey() string {
	return m.Called().String(0)
}

// flakyLedger fails the next failNext writes, then delegates.
type flakyLedger struct {
	portssvc.LedgerRecorder
	failNext atomic.Int32
	writes   atomic.Int32
}

var errLedgerDown = errors.New("rpc unavailable")

func (l *flakyLedger) Record(ctx context.Context, req domain.LedgerEntryRequest) (string, error) {
	if l.failNext.Load() > 0 {
		l.failNext.Add(-1)
		return "", apperrors.Downstream("send transaction", errLedgerDown)
	}
	l.writes.Add(1)
	return l.LedgerRecorder.Record(ctx, req)
}

// gatedLedger holds its first Record call until release is closed, standing in
// for a slow chain confirmation.
type gatedLedger struct {
	portssvc.LedgerRecorder
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	writes  atomic.Int32
}

func newGatedLedger(inner portssvc.LedgerRecorder) *gatedLedger {
	return &gatedLedger{LedgerRecorder: inner, entered: make(chan struct{}), release: make(chan struct{})}
}

func (l *gatedLedger) Record(ctx context.Context, req domain.LedgerEntryRequest) (string, error) {
	l.writes.Add(1)
	l.once.Do(func() {
		close(l.entered)
		<-l.release
	})
	return l.LedgerRecorder.Record(ctx, req)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

type publishedEvent struct {
	topic   string
	key     string
	payload []byte
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, key: key, payload: payload})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}
