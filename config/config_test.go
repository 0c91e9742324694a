package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 0.90, cfg.Risk.SuccessMin)
	assert.Equal(t, 0.70, cfg.Risk.InfoMin)
	assert.Equal(t, 0.50, cfg.Risk.WarningMin)
	assert.Equal(t, 50, cfg.History.Limit)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LOAN_API_BASE_URL", "https://loans.example.com/api")
	t.Setenv("LOAN_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://loans.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	t.Setenv("LOAN_API_BASE_URL", "not a url")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestLoadRejectsNonDescendingThresholds(t *testing.T) {
	t.Setenv("LOAN_RISK_SUCCESS_MIN", "0.5")
	t.Setenv("LOAN_RISK_INFO_MIN", "0.9")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "thresholds")
}
