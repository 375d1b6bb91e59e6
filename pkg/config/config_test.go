package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_STORE", "memory")
	t.Setenv("LEDGER_MAX_TX_RETRIES", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.App.Store)
	assert.Equal(t, 3, cfg.Ledger.MaxTxRetries)
	assert.Equal(t, "PICK", cfg.Ledger.PickTaskPrefix)
	assert.False(t, cfg.Ledger.AllowNegativeAdjustments)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_STORE", "MEMORY")
	t.Setenv("LEDGER_MAX_TX_RETRIES", "5")
	t.Setenv("LEDGER_ALLOW_NEGATIVE_ADJUSTMENTS", "true")
	t.Setenv("LEDGER_PICK_TASK_PREFIX", "PK")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.App.Store)
	assert.Equal(t, 5, cfg.Ledger.MaxTxRetries)
	assert.True(t, cfg.Ledger.AllowNegativeAdjustments)
	assert.Equal(t, "PK", cfg.Ledger.PickTaskPrefix)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			App:    AppConfig{Env: "development", Store: "memory"},
			HTTP:   HTTPConfig{Port: 8080},
			JWT:    JWTConfig{Expiration: 60},
			Ledger: LedgerConfig{MaxTxRetries: 3, PickTaskPrefix: "PICK"},
		}
	}

	ok := base()
	assert.NoError(t, ok.Validate())

	bad := base()
	bad.App.Store = "redis"
	assert.ErrorContains(t, bad.Validate(), "APP_STORE")

	bad = base()
	bad.Ledger.MaxTxRetries = 0
	assert.ErrorContains(t, bad.Validate(), "LEDGER_MAX_TX_RETRIES")

	bad = base()
	bad.App.Env = "production"
	assert.ErrorContains(t, bad.Validate(), "JWT_SECRET")
}

func TestDSN_EscapesPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/ledger?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
