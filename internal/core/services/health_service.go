package services

import (
	"context"
	"time"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/heartchain_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheckFunc adapts a function to portsrepo.HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) Ping(ctx context.Context) error { return f(ctx) }

type healthService struct {
	BaseService
	database portsrepo.HealthChecker
	ledger   portssvc.LedgerRecorder
	gateway  portssvc.PaymentGateway
	extra    map[string]portsrepo.HealthChecker
}

// HealthOption configures the health service.
type HealthOption func(*healthService)

// WithHealthCheck adds a named component, such as the ledger store or event broker.
func WithHealthCheck(name string, checker portsrepo.HealthChecker) HealthOption {
	return func(s *healthService) {
		if checker != nil {
			s.extra[name] = checker
		}
	}
}

// NewHealthService creates a health service. database may be nil when no datastore is configured.
func NewHealthService(database portsrepo.HealthChecker, ledger portssvc.LedgerRecorder, gateway portssvc.PaymentGateway, opts ...HealthOption) portssvc.HealthSvc {
	s := &healthService{
		database: database,
		ledger:   ledger,
		gateway:  gateway,
		extra:    make(map[string]portsrepo.HealthChecker),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *healthService) Detailed(ctx context.Context) domain.HealthReport {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	report := domain.HealthReport{Healthy: true, Components: make(map[string]domain.ComponentHealth)}

	report.Components["database"] = s.ping(ctx, "database", s.database)

	ledger := domain.ComponentHealth{
		Configured: true,
		Status:     domain.ComponentConnected,
		Detail:     map[string]any{"mode": s.ledger.Mode()},
	}
	if count, err := s.ledger.Count(ctx); err != nil {
		ledger.Status = domain.ComponentUnreachable
		ledger.Detail["error"] = err.Error()
	} else {
		ledger.Detail["total_on_chain"] = count
	}
	report.Components["blockchain"] = ledger

	payment := domain.ComponentHealth{
		Configured: s.gateway.IsConfigured(),
		Status:     domain.ComponentNotConfigured,
		Detail:     map[string]any{"webhook_signature_verification": s.gateway.HasWebhookSecret()},
	}
	if payment.Configured {
		payment.Status = domain.ComponentConnected
	}
	report.Components["payment"] = payment

	for name, checker := range s.extra {
		report.Components[name] = s.ping(ctx, name, checker)
	}

	for _, c := range report.Components {
		if c.Status == domain.ComponentUnreachable {
			report.Healthy = false
		}
	}
	if report.Components["database"].Status != domain.ComponentConnected {
		report.Healthy = false
	}
	return report
}

func (s *healthService) ping(ctx context.Context, name string, checker portsrepo.HealthChecker) domain.ComponentHealth {
	if checker == nil {
		return domain.ComponentHealth{Status: domain.ComponentNotConfigured}
	}
	if err := checker.Ping(ctx); err != nil {
		s.LogError(ctx, err, "Health check failed", "component", name)
		return domain.ComponentHealth{
			Configured: true,
			Status:     domain.ComponentUnreachable,
			Detail:     map[string]any{"error": err.Error()},
		}
	}
	return domain.ComponentHealth{Configured: true, Status: domain.ComponentConnected}
}
