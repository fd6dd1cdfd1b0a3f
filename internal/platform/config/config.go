package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Ledger modes.
const (
	LedgerModeSimulated = "simulated"
	LedgerModeChain     = "chain"
)

// Ledger stores.
const (
	LedgerStoreMemory = "memory"
	LedgerStoreRedis  = "redis"
)

// Event publishers.
const (
	EventsNone  = "none"
	EventsKafka = "kafka"
	EventsRedis = "redis"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	CORSOrigins   []string
	RateLimit     string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	AdminUsername     string
	AdminPasswordHash string

	// Payment gateway
	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string
	RazorpayBaseURL       string
	WebhookStrictMode     bool

	// Ledger
	LedgerMode          string
	LedgerStore         string
	RedisURL            string
	ChainRPCURL         string
	ChainPrivateKey     string
	ChainContractAddr   string
	ChainConfirmTimeout time.Duration
	ChainPollInterval   time.Duration
	ExplorerBaseURL     string
	// LedgerClaimTTL is how long one delivery owns a donation's ledger write
	// before another delivery or the repair pass may take it over.
	LedgerClaimTTL time.Duration

	// Events
	EventsBackend string
	KafkaBrokers  []string
	EventsTopic   string

	StatsCacheTTL time.Duration
}

// ledgerClaimMargin is added to the chain confirmation timeout to derive the
// default ledger claim lease.
const ledgerClaimMargin = time.Minute

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "60-M")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "heartchain-backend")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("RAZORPAY_KEY_ID", "")
	viper.SetDefault("RAZORPAY_KEY_SECRET", "")
	viper.SetDefault("RAZORPAY_WEBHOOK_SECRET", "")
	viper.SetDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1")
	viper.SetDefault("WEBHOOK_STRICT_MODE", false)
	viper.SetDefault("LEDGER_MODE", LedgerModeSimulated)
	viper.SetDefault("LEDGER_STORE", LedgerStoreMemory)
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("CHAIN_RPC_URL", "")
	viper.SetDefault("CHAIN_PRIVATE_KEY", "")
	viper.SetDefault("CHAIN_CONTRACT_ADDRESS", "")
	viper.SetDefault("CHAIN_CONFIRM_TIMEOUT", "120s")
	viper.SetDefault("CHAIN_POLL_INTERVAL", "2s")
	viper.SetDefault("EXPLORER_BASE_URL", "https://explorer-sphinx.shardeum.org")
	viper.SetDefault("EVENTS_BACKEND", EventsNone)
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("EVENTS_TOPIC", "heartchain.donations")
	viper.SetDefault("STATS_CACHE_TTL", "30s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.CORSOrigins = splitList(viper.GetString("CORS_ORIGINS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOr("JWT_EXPIRY_DURATION", time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.AdminUsername = viper.GetString("ADMIN_USERNAME")
	cfg.AdminPasswordHash = viper.GetString("ADMIN_PASSWORD_HASH")
	if cfg.AdminPasswordHash == "" {
		log.Println("Warning: ADMIN_PASSWORD_HASH not set. Admin login is disabled.")
	}

	cfg.RazorpayKeyID = viper.GetString("RAZORPAY_KEY_ID")
	cfg.RazorpayKeySecret = viper.GetString("RAZORPAY_KEY_SECRET")
	cfg.RazorpayWebhookSecret = viper.GetString("RAZORPAY_WEBHOOK_SECRET")
	cfg.RazorpayBaseURL = strings.TrimRight(viper.GetString("RAZORPAY_BASE_URL"), "/")
	cfg.WebhookStrictMode = viper.GetBool("WEBHOOK_STRICT_MODE")
	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		log.Println("Warning: RAZORPAY_KEY_ID/RAZORPAY_KEY_SECRET not set. Order creation will fail.")
	}
	if cfg.RazorpayWebhookSecret == "" {
		if cfg.WebhookStrictMode {
			log.Println("Warning: RAZORPAY_WEBHOOK_SECRET not set and WEBHOOK_STRICT_MODE is on. All webhooks will be rejected.")
		} else {
			log.Println("WARNING: RAZORPAY_WEBHOOK_SECRET not set. Webhooks are accepted WITHOUT signature verification (development mode).")
		}
	}

	cfg.LedgerMode = strings.ToLower(viper.GetString("LEDGER_MODE"))
	if cfg.LedgerMode != LedgerModeSimulated && cfg.LedgerMode != LedgerModeChain {
		return nil, fmt.Errorf("invalid LEDGER_MODE %q: expected %s or %s", cfg.LedgerMode, LedgerModeSimulated, LedgerModeChain)
	}
	cfg.LedgerStore = strings.ToLower(viper.GetString("LEDGER_STORE"))
	if cfg.LedgerStore != LedgerStoreMemory && cfg.LedgerStore != LedgerStoreRedis {
		return nil, fmt.Errorf("invalid LEDGER_STORE %q: expected %s or %s", cfg.LedgerStore, LedgerStoreMemory, LedgerStoreRedis)
	}
	if cfg.LedgerStore == LedgerStoreMemory {
		log.Println("Warning: LEDGER_STORE=memory. Ledger aggregates are lost on restart.")
	}
	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.ChainRPCURL = viper.GetString("CHAIN_RPC_URL")
	cfg.ChainPrivateKey = viper.GetString("CHAIN_PRIVATE_KEY")
	cfg.ChainContractAddr = viper.GetString("CHAIN_CONTRACT_ADDRESS")
	cfg.ChainConfirmTimeout = durationOr("CHAIN_CONFIRM_TIMEOUT", 120*time.Second)
	cfg.ChainPollInterval = durationOr("CHAIN_POLL_INTERVAL", 2*time.Second)
	cfg.ExplorerBaseURL = strings.TrimRight(viper.GetString("EXPLORER_BASE_URL"), "/")
	cfg.LedgerClaimTTL = durationOr("LEDGER_CLAIM_TTL", cfg.ChainConfirmTimeout+ledgerClaimMargin)
	if cfg.LedgerClaimTTL <= cfg.ChainConfirmTimeout {
		log.Printf("Warning: LEDGER_CLAIM_TTL (%s) does not exceed CHAIN_CONFIRM_TIMEOUT (%s). Using %s.\n",
			cfg.LedgerClaimTTL, cfg.ChainConfirmTimeout, cfg.ChainConfirmTimeout+ledgerClaimMargin)
		cfg.LedgerClaimTTL = cfg.ChainConfirmTimeout + ledgerClaimMargin
	}
	if cfg.LedgerMode == LedgerModeChain && (cfg.ChainRPCURL == "" || cfg.ChainPrivateKey == "") {
		return nil, fmt.Errorf("LEDGER_MODE=chain requires CHAIN_RPC_URL and CHAIN_PRIVATE_KEY")
	}

	cfg.EventsBackend = strings.ToLower(viper.GetString("EVENTS_BACKEND"))
	switch cfg.EventsBackend {
	case EventsNone, EventsKafka, EventsRedis:
	default:
		return nil, fmt.Errorf("invalid EVENTS_BACKEND %q", cfg.EventsBackend)
	}
	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.EventsTopic = viper.GetString("EVENTS_TOPIC")

	cfg.StatsCacheTTL = durationOr("STATS_CACHE_TTL", 30*time.Second)

	return cfg, nil
}

// durationOr parses key as a duration, logging and falling back to def when invalid.
func durationOr(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
