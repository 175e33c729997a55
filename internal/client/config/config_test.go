package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", c.APIGatewayURL)
	assert.Equal(t, "", c.AuthAppURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 4, c.LogLevel)
	assert.Equal(t, "itemgate.db", c.DataFile)
}

func TestLoad_NoSources(t *testing.T) {
	cfg, err := load(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, cfg)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_gateway_url": "http://json:1",
		"auth_app_url":    "http://auth-json",
		"request_timeout": "7s",
		"log_level":       0,
	})

	t.Setenv("API_GATEWAY_URL", "http://env:2")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg, err := load([]string{"-c", path, "-a", "http://flag:3"})
	require.NoError(t, err)

	assert.Equal(t, "http://flag:3", cfg.APIGatewayURL, "flag beats env and json")
	assert.Equal(t, "http://auth-json", cfg.AuthAppURL, "json beats defaults")
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout, "env beats json")
	assert.Equal(t, 0, cfg.LogLevel)
	assert.Equal(t, "itemgate.db", cfg.DataFile)
}

func TestParseJSON_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := &Config{}
		err := parseJSON(cfg, []string{"-config", filepath.Join(t.TempDir(), "nope.json")})
		require.Error(t, err)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))

		_, err := load([]string{"-c", bad})
		require.Error(t, err)
	})
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("AUTH_APP_URL", "https://auth.example.com")
	t.Setenv("LOG_LEVEL", "-4")
	t.Setenv("DATA_FILE", "/tmp/prefs.db")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "https://auth.example.com", cfg.AuthAppURL)
	assert.Equal(t, -4, cfg.LogLevel)
	assert.Equal(t, "/tmp/prefs.db", cfg.DataFile)
	assert.Equal(t, "http://localhost:8080", cfg.APIGatewayURL)
}

func TestParseEnv_BadValue(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")

	cfg := &Config{}
	require.Error(t, parseEnv(cfg))
}
