package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("CYCLE_PL_METHOD", "ledger")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, portfolio.Ledger, cfg.Portfolio.CyclePLMethod)
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "DB_LOG_LEVEL", "API_TOKEN", "CYCLE_PL_METHOD", "RATE_LIMIT_CLIENTS"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Database.LogLevel)
	assert.Empty(t, cfg.Server.APIToken)
	assert.Equal(t, 1024, cfg.RateLimit.MaxClients)
	assert.Equal(t, portfolio.ScaleClosingSell, cfg.Portfolio.CyclePLMethod)
}

func TestLoadConfig_InvalidCycleMethod(t *testing.T) {
	t.Setenv("CYCLE_PL_METHOD", "lifo")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue int
		want         int
	}{
		{name: "parses set value", envValue: "42", defaultValue: 1, want: 42},
		{name: "default when unset", envValue: "", defaultValue: 7, want: 7},
		{name: "default when malformed", envValue: "many", defaultValue: 3, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.envValue)
			assert.Equal(t, tt.want, getEnvAsInt("TEST_INT", tt.defaultValue))
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "1m30s")
	assert.Equal(t, 90*time.Second, getEnvAsDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "soon")
	assert.Equal(t, time.Second, getEnvAsDuration("TEST_DURATION", time.Second))
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("TEST_LIST", " , ")
	assert.Equal(t, []string{"x"}, getEnvAsList("TEST_LIST", []string{"x"}))
}
