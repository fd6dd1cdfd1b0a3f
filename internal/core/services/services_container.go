package services

import (
	portsrepo "github.com/SscSPs/heartchain_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/platform/config"
	"github.com/SscSPs/heartchain_backend/internal/platform/metrics"
)

// Adapters bundles the external collaborators the services are built on.
type Adapters struct {
	Ledger    portssvc.LedgerRecorder
	Gateway   portssvc.PaymentGateway
	Publisher portssvc.EventPublisher
	Metrics   *metrics.Metrics
	// HealthChecks are extra named components reported by /health/detailed.
	HealthChecks map[string]portsrepo.HealthChecker
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, adapters Adapters) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Campaign = NewCampaignService(repos.CampaignRepo, repos.DonationRepo)
	container.Donation = NewDonationService(repos.DonationRepo, adapters.Ledger, cfg.StatsCacheTTL)
	container.Payment = NewPaymentService(adapters.Gateway, repos.CampaignRepo)
	container.WalletTransaction = NewWalletTransactionService(repos.WalletTransactionRepo, adapters.Ledger)
	container.Auth = NewAuthService(cfg)

	reconOpts := []ReconciliationOption{
		WithReconciliationMetrics(adapters.Metrics),
		WithStrictWebhook(cfg.WebhookStrictMode),
		WithLedgerClaimTTL(cfg.LedgerClaimTTL),
	}
	if adapters.Publisher != nil {
		reconOpts = append(reconOpts, WithEventPublisher(adapters.Publisher, cfg.EventsTopic))
	}
	container.Reconciliation = NewReconciliationService(repos.DonationRepo, adapters.Gateway, adapters.Ledger, reconOpts...)

	healthOpts := make([]HealthOption, 0, len(adapters.HealthChecks))
	for name, checker := range adapters.HealthChecks {
		healthOpts = append(healthOpts, WithHealthCheck(name, checker))
	}
	container.Health = NewHealthService(repos.Health, adapters.Ledger, adapters.Gateway, healthOpts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CampaignSvcFacade          = (*campaignService)(nil)
	_ portssvc.DonationSvcFacade          = (*donationService)(nil)
	_ portssvc.PaymentSvcFacade           = (*paymentService)(nil)
	_ portssvc.ReconciliationSvc          = (*reconciliationService)(nil)
	_ portssvc.WalletTransactionSvcFacade = (*walletTransactionService)(nil)
	_ portssvc.AuthSvc                    = (*authService)(nil)
	_ portssvc.HealthSvc                  = (*healthService)(nil)
)
