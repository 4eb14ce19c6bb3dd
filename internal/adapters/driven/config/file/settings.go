package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/aptview/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyBaseURL       = "api.base_url"
	KeyTimeout       = "api.timeout_seconds"
	KeyVWorldKey     = "map.vworld_key"
	KeyStrictColumns = "display.strict_columns"
	KeyRateLimit     = "api.requests_per_second"
	KeyCacheTTL      = "api.cache_ttl_seconds"
)

// Environment variables overriding the keys above.
const (
	EnvBaseURL       = "APTVIEW_API_BASE_URL"
	EnvTimeout       = "APTVIEW_API_TIMEOUT"
	EnvVWorldKey     = "VWORLD_API_KEY"
	EnvStrictColumns = "APTVIEW_STRICT_COLUMNS"
	EnvRateLimit     = "APTVIEW_API_RPS"
	EnvCacheTTL      = "APTVIEW_CACHE_TTL"
)

// Defaults.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 60 * time.Second
)

var envKeys = map[string]string{
	KeyBaseURL:       EnvBaseURL,
	KeyTimeout:       EnvTimeout,
	KeyVWorldKey:     EnvVWorldKey,
	KeyStrictColumns: EnvStrictColumns,
	KeyRateLimit:     EnvRateLimit,
	KeyCacheTTL:      EnvCacheTTL,
}

// BaseURL returns the backend base URL.
func BaseURL(cfg driven.ConfigStore) string {
	if v := cfg.GetString(KeyBaseURL); v != "" {
		return v
	}
	return DefaultBaseURL
}

// Timeout returns the backend request timeout.
func Timeout(cfg driven.ConfigStore) time.Duration {
	if n := cfg.GetInt(KeyTimeout); n > 0 {
		return time.Duration(n) * time.Second
	}
	return DefaultTimeout
}

// VWorldKey returns the map tile credential, or "".
func VWorldKey(cfg driven.ConfigStore) string {
	return cfg.GetString(KeyVWorldKey)
}

// StrictColumns reports whether tables use the allow-list column policy.
func StrictColumns(cfg driven.ConfigStore) bool {
	return cfg.GetBool(KeyStrictColumns)
}

// RateLimit returns the backend request rate. 0 means the client
// default and a negative value disables throttling.
func RateLimit(cfg driven.ConfigStore) float64 {
	n := cfg.GetInt(KeyRateLimit)
	if n < 0 {
		return -1
	}
	return float64(n)
}

// CacheTTL returns how long reference lookups are cached. 0 means the
// client default and a negative value disables the cache.
func CacheTTL(cfg driven.ConfigStore) time.Duration {
	n := cfg.GetInt(KeyCacheTTL)
	if n < 0 {
		return -1
	}
	return time.Duration(n) * time.Second
}

// LoadDotEnv loads dir/.env into the environment. Variables already set
// win. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}
