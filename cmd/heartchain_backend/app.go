package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/heartchain_backend/internal/adapters/events"
	"github.com/SscSPs/heartchain_backend/internal/adapters/ledger"
	"github.com/SscSPs/heartchain_backend/internal/adapters/payment"
	portsrepo "github.com/SscSPs/heartchain_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/core/services"
	"github.com/SscSPs/heartchain_backend/internal/platform/config"
	"github.com/SscSPs/heartchain_backend/internal/platform/metrics"
	"github.com/SscSPs/heartchain_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/heartchain_backend/pkg/database"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// redisStreamMaxLen caps the donation event stream.
const redisStreamMaxLen = 100000

// app holds the process-wide collaborators shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	redis    *redis.Client
	metrics  *metrics.Metrics
	services *portssvc.ServiceContainer
	closers  []func() error
}

func newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	return logger
}

// newApp loads configuration and connects every configured collaborator.
func newApp(ctx context.Context, logger *slog.Logger) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, metrics: metrics.New(prometheus.DefaultRegisterer)}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("PGSQL_URL is required")
	}
	a.pool, err = database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	a.closers = append(a.closers, func() error { database.ClosePgxPool(a.pool); return nil })
	repos := pgsql.NewRepositoryProvider(a.pool)
	logger.Info("Database connection pool established.")

	if cfg.LedgerStore == config.LedgerStoreRedis || cfg.EventsBackend == config.EventsRedis {
		a.redis, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, a.redis.Close)
	}

	recorder, err := a.buildLedger(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	publisher := a.buildPublisher()
	a.closers = append(a.closers, publisher.Close)

	healthChecks := map[string]portsrepo.HealthChecker{}
	if a.redis != nil {
		healthChecks["redis"] = services.HealthCheckFunc(func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		})
	}

	a.services = services.NewServiceContainer(cfg, repos, services.Adapters{
		Ledger:       recorder,
		Gateway:      payment.NewClient(cfg),
		Publisher:    publisher,
		Metrics:      a.metrics,
		HealthChecks: healthChecks,
	})
	return a, nil
}

func (a *app) buildLedger(ctx context.Context) (portssvc.LedgerRecorder, error) {
	var store ledger.Store
	switch a.cfg.LedgerStore {
	case config.LedgerStoreRedis:
		store = ledger.NewRedisStore(a.redis, "")
	default:
		a.logger.Warn("Ledger records are kept in memory and are lost on restart")
		store = ledger.NewMemoryStore()
	}

	if a.cfg.LedgerMode != config.LedgerModeChain {
		a.logger.Info("Ledger running in simulated mode")
		return ledger.NewSimulatedRecorder(store, a.cfg.ExplorerBaseURL), nil
	}

	client, err := ethclient.DialContext(ctx, a.cfg.ChainRPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial chain RPC: %w", err)
	}
	a.closers = append(a.closers, func() error { client.Close(); return nil })

	opts := []ledger.ChainOption{
		ledger.WithConfirmTimeout(a.cfg.ChainConfirmTimeout),
		ledger.WithPollInterval(a.cfg.ChainPollInterval),
	}
	if a.cfg.ChainContractAddr != "" {
		opts = append(opts, ledger.WithContractAddress(a.cfg.ChainContractAddr))
	}
	recorder, err := ledger.NewChainRecorder(ctx, client, store, a.cfg.ChainPrivateKey, a.cfg.ExplorerBaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chain ledger: %w", err)
	}
	a.logger.Info("Ledger running against chain", slog.String("signer", recorder.Address().Hex()))
	return recorder, nil
}

func (a *app) buildPublisher() portssvc.EventPublisher {
	switch a.cfg.EventsBackend {
	case config.EventsKafka:
		a.logger.Info("Publishing donation events to Kafka", slog.Any("brokers", a.cfg.KafkaBrokers), slog.String("topic", a.cfg.EventsTopic))
		return events.NewKafkaPublisher(a.cfg.KafkaBrokers)
	case config.EventsRedis:
		a.logger.Info("Publishing donation events to a Redis stream", slog.String("stream", a.cfg.EventsTopic))
		return events.NewRedisStreamPublisher(a.redis, redisStreamMaxLen)
	default:
		return events.NoopPublisher{}
	}
}

// Close releases collaborators in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("Error during shutdown", slog.String("error", err.Error()))
		}
	}
	a.closers = nil
}
