package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "PV", cfg.EISSourceID)
	assert.Equal(t, "EIS", cfg.EISDestination)
	assert.Equal(t, 30*time.Second, cfg.EISTimeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionVaultTTL)
	assert.Equal(t, "eisgateway", cfg.MetricsNamespace)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.CORSEnabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("EIS_SOURCE_ID", "PW")
	t.Setenv("EIS_TIMEOUT_SECONDS", "5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "PW", cfg.EISSourceID)
	assert.Equal(t, 5*time.Second, cfg.EISTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
