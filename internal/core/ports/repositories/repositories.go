package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CampaignRepo          CampaignRepositoryFacade
	DonationRepo          DonationRepositoryFacade
	WalletTransactionRepo WalletTransactionRepositoryFacade
	// Health reports datastore reachability; nil when no datastore is configured.
	Health HealthChecker
}
