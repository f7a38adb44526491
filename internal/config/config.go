package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mwenda/tambua/internal/geoip"
)

// Config holds application configuration.
type Config struct {
	Port    string
	DataDir string

	// ClientIPHeader names a header the operator asserts trust in for IP
	// extraction; empty means the built-in precedence list is used.
	ClientIPHeader string

	// DebugGeo enables diagnostic tracing through the resolution pipeline.
	DebugGeo bool

	// SkipLocationHeaders disables the CDN geo-header tier.
	SkipLocationHeaders bool

	// GeoDBPath is the GeoLite2-City database location. Defaults to
	// <DataDir>/GeoLite2-City.mmdb.
	GeoDBPath string

	// IgnoreIP is the comma-separated exact-IP/CIDR blocklist.
	IgnoreIP string
}

// Load reads configuration with priority: config file (./tambua.toml or
// XDG config dir), then environment variables, then defaults.
func Load() (*Config, error) {
	v := newBaseViper()
	_ = v.ReadInConfig()
	return buildConfig(v), nil
}

func newBaseViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("tambua")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	// XDG Base Directory, resolved manually so tests can repoint HOME.
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome != "" {
		v.AddConfigPath(filepath.Join(configHome, "tambua"))
	}

	return v
}

func buildConfig(v *viper.Viper) *Config {
	cfg := &Config{
		Port:    "3000",
		DataDir: "./data",
	}

	if v.IsSet("port") {
		cfg.Port = v.GetString("port")
	}
	if v.IsSet("data_dir") {
		cfg.DataDir = v.GetString("data_dir")
	}
	if v.IsSet("client_ip_header") {
		cfg.ClientIPHeader = v.GetString("client_ip_header")
	}
	if v.IsSet("debug_geo") {
		cfg.DebugGeo = v.GetBool("debug_geo")
	}
	if v.IsSet("skip_location_headers") {
		cfg.SkipLocationHeaders = v.GetBool("skip_location_headers")
	}
	if v.IsSet("geolite_db_path") {
		cfg.GeoDBPath = v.GetString("geolite_db_path")
	}
	if v.IsSet("ignore_ip") {
		cfg.IgnoreIP = v.GetString("ignore_ip")
	}

	// Environment fallback (only if not configured)
	if !v.IsSet("port") {
		if envPort := os.Getenv("PORT"); envPort != "" {
			cfg.Port = envPort
		}
	}
	if !v.IsSet("data_dir") {
		if envDataDir := os.Getenv("DATA_DIR"); envDataDir != "" {
			cfg.DataDir = envDataDir
		}
	}
	if cfg.ClientIPHeader == "" {
		cfg.ClientIPHeader = os.Getenv("CLIENT_IP_HEADER")
	}
	if !v.IsSet("debug_geo") {
		cfg.DebugGeo = isTruthy(os.Getenv("DEBUG_GEO"))
	}
	if !v.IsSet("skip_location_headers") {
		cfg.SkipLocationHeaders = isTruthy(os.Getenv("SKIP_LOCATION_HEADERS"))
	}
	if cfg.GeoDBPath == "" {
		cfg.GeoDBPath = os.Getenv("GEOLITE_DB_PATH")
	}
	if cfg.IgnoreIP == "" {
		cfg.IgnoreIP = os.Getenv("IGNORE_IP")
	}

	if cfg.GeoDBPath == "" {
		cfg.GeoDBPath = geoip.DatabasePath(cfg.DataDir)
	}

	return cfg
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
