package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		original, existed := os.LookupEnv(key)
		if existed {
			t.Cleanup(func() { _ = os.Setenv(key, original) })
		} else {
			t.Cleanup(func() { _ = os.Unsetenv(key) })
		}
		_ = os.Unsetenv(key)
	}
}

func isolateConfig(t *testing.T) {
	t.Helper()
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpHome, ".config"))
	t.Chdir(t.TempDir())
	unsetEnv(t, "PORT", "DATA_DIR", "CLIENT_IP_HEADER", "DEBUG_GEO",
		"SKIP_LOCATION_HEADERS", "GEOLITE_DB_PATH", "IGNORE_IP")
}

func writeTestConfig(t *testing.T, home string, contents string) {
	t.Helper()
	configDir := filepath.Join(home, ".config", "tambua")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "tambua.toml"), []byte(contents), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	isolateConfig(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Empty(t, cfg.ClientIPHeader)
	assert.False(t, cfg.DebugGeo)
	assert.False(t, cfg.SkipLocationHeaders)
	assert.Empty(t, cfg.IgnoreIP)
	assert.Equal(t, filepath.Join("./data", "GeoLite2-City.mmdb"), cfg.GeoDBPath)
}

func TestLoadUsesEnvironmentVariables(t *testing.T) {
	isolateConfig(t)
	t.Setenv("PORT", "4321")
	t.Setenv("DATA_DIR", "/tmp/env-data")
	t.Setenv("CLIENT_IP_HEADER", "x-internal-client")
	t.Setenv("DEBUG_GEO", "1")
	t.Setenv("SKIP_LOCATION_HEADERS", "true")
	t.Setenv("IGNORE_IP", "203.0.113.0/24, 198.51.100.7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4321", cfg.Port)
	assert.Equal(t, "/tmp/env-data", cfg.DataDir)
	assert.Equal(t, "x-internal-client", cfg.ClientIPHeader)
	assert.True(t, cfg.DebugGeo)
	assert.True(t, cfg.SkipLocationHeaders)
	assert.Equal(t, "203.0.113.0/24, 198.51.100.7", cfg.IgnoreIP)
	// Default DB path follows DATA_DIR.
	assert.Equal(t, filepath.Join("/tmp/env-data", "GeoLite2-City.mmdb"), cfg.GeoDBPath)
}

func TestGeoDBPathOverride(t *testing.T) {
	isolateConfig(t)
	t.Setenv("GEOLITE_DB_PATH", "/opt/geo/city.mmdb")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/opt/geo/city.mmdb", cfg.GeoDBPath)
}

func TestConfigFileTakesPriorityOverEnv(t *testing.T) {
	isolateConfig(t)
	home := os.Getenv("HOME")
	writeTestConfig(t, home, `
port = "5000"
debug_geo = true
ignore_ip = "198.51.100.0/24"
`)
	t.Setenv("PORT", "4321")
	t.Setenv("DEBUG_GEO", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.True(t, cfg.DebugGeo)
	assert.Equal(t, "198.51.100.0/24", cfg.IgnoreIP)
}

func TestIsTruthy(t *testing.T) {
	assert.True(t, isTruthy("1"))
	assert.True(t, isTruthy("true"))
	assert.True(t, isTruthy("Yes"))
	assert.True(t, isTruthy(" on "))
	assert.False(t, isTruthy(""))
	assert.False(t, isTruthy("0"))
	assert.False(t, isTruthy("false"))
}
