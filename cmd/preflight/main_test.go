package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arun-gupta/api-status-dashboard/internal/config"
	"github.com/arun-gupta/api-status-dashboard/internal/endpoints"
)

func baseConfig() config.Config {
	return config.Config{
		Addr:           "127.0.0.1:8080",
		CheckInterval:  time.Hour,
		DefaultTimeout: 10 * time.Second,
		TriggerRPM:     30,
		TriggerBurst:   5,
	}
}

func TestPreflight_DefaultsPassWithWarnings(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.True(t, preflight(baseConfig(), false, &out, &errOut))
	assert.Contains(t, out.String(), "built-in registry (6 endpoints)")
	assert.Contains(t, out.String(), "preflight passed")
	assert.Contains(t, errOut.String(), "OPENAI_API_KEY is empty")
	assert.Contains(t, errOut.String(), "history is kept in memory")
}

func TestPreflight_SecretsPresent(t *testing.T) {
	cfg := baseConfig()
	cfg.Secrets = endpoints.Secrets{OpenAIKey: "a", StripeKey: "b", OpenWeatherKey: "c"}
	var out, errOut bytes.Buffer
	require.True(t, preflight(cfg, false, &out, &errOut))
	assert.NotContains(t, errOut.String(), "is empty")
	assert.Contains(t, out.String(), "STRIPE_API_KEY present")
}

func TestPreflight_BadEndpointsFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoints: []\n"), 0o644))

	cfg := baseConfig()
	cfg.EndpointsFile = path
	var out, errOut bytes.Buffer
	assert.False(t, preflight(cfg, false, &out, &errOut))
	assert.Contains(t, errOut.String(), "endpoint registry")
	assert.NotContains(t, out.String(), "preflight passed")
}

func TestPreflight_ConnectSQLite(t *testing.T) {
	cfg := baseConfig()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "h.db")
	var out, errOut bytes.Buffer
	assert.True(t, preflight(cfg, true, &out, &errOut))
	assert.Contains(t, out.String(), "store driver: sqlite")
	assert.Contains(t, out.String(), "store reachable")
}

func TestPreflight_EndpointsFileSkipsBuiltinSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	yml := "endpoints:\n  - name: GitHub\n    url: https://api.github.com/zen\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg := baseConfig()
	cfg.EndpointsFile = path
	var out, errOut bytes.Buffer
	require.True(t, preflight(cfg, false, &out, &errOut))
	assert.NotContains(t, errOut.String(), "_API_KEY")
	assert.NotContains(t, out.String(), "_API_KEY")
	assert.Contains(t, out.String(), "(1 endpoints)")
}
