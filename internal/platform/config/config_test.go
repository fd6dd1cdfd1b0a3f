package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("PGSQL_URL", "postgres://localhost/heartchain")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, LedgerModeSimulated, cfg.LedgerMode)
	assert.Equal(t, LedgerStoreMemory, cfg.LedgerStore)
	assert.Equal(t, 120*time.Second, cfg.ChainConfirmTimeout)
	assert.Equal(t, 180*time.Second, cfg.LedgerClaimTTL)
	assert.Equal(t, "https://explorer-sphinx.shardeum.org", cfg.ExplorerBaseURL)
	assert.False(t, cfg.WebhookStrictMode)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadConfig_ChainRequiresKeys(t *testing.T) {
	viper.Reset()
	t.Setenv("LEDGER_MODE", "chain")
	t.Setenv("CHAIN_RPC_URL", "")
	t.Setenv("CHAIN_PRIVATE_KEY", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidLedgerMode(t *testing.T) {
	viper.Reset()
	t.Setenv("LEDGER_MODE", "paper")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_BadDurationFallsBack(t *testing.T) {
	viper.Reset()
	t.Setenv("CHAIN_CONFIRM_TIMEOUT", "soon")
	t.Setenv("STATS_CACHE_TTL", "5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, cfg.ChainConfirmTimeout)
	assert.Equal(t, 5*time.Second, cfg.StatsCacheTTL)
}

func TestLoadConfig_LedgerClaimOutlivesConfirmation(t *testing.T) {
	viper.Reset()
	t.Setenv("CHAIN_CONFIRM_TIMEOUT", "90s")
	t.Setenv("LEDGER_CLAIM_TTL", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 150*time.Second, cfg.LedgerClaimTTL)

	viper.Reset()
	t.Setenv("LEDGER_CLAIM_TTL", "10m")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.LedgerClaimTTL)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a:1", "b:2"}, splitList(" a:1, ,b:2 "))
	assert.Nil(t, splitList(""))
}
