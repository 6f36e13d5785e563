// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the environment.
const EnvPrefix = "GHREMOTE"

// Configuration keys. Each is read from GHREMOTE_<KEY in upper case>.
const (
	KeyListenAddr         = "listen_addr"
	KeyDBPath             = "db_path"
	KeyGitHubAPIURL       = "github_api_url"
	KeySecretKey          = "secret_key"
	KeyHTTPTimeout        = "http_timeout"
	KeyHTTPCache          = "http_cache"
	KeySecondaryRateLimit = "secondary_rate_limit"
)

// Config holds the application configuration.
type Config struct {
	ListenAddr string
	DBPath     string
	// GitHubAPIURL is the REST API root of a GitHub Enterprise server. Empty means api.github.com.
	GitHubAPIURL string
	// SecretKey is the 32-byte AES-256 key protecting stored SSH private keys.
	// Nil when GHREMOTE_SECRET_KEY is unset; key generation is then unavailable.
	SecretKey   []byte
	HTTPTimeout time.Duration
	// HTTPCache enables ETag revalidation of GitHub GET responses.
	HTTPCache          bool
	SecondaryRateLimit bool
}

// HasSecretKey returns true when a secret key was configured.
func (c *Config) HasSecretKey() bool {
	return len(c.SecretKey) > 0
}

// Load reads configuration from GHREMOTE_* environment variables and returns a
// validated Config. All variables are optional:
// GHREMOTE_LISTEN_ADDR (127.0.0.1:8080), GHREMOTE_DB_PATH (ghremote.db),
// GHREMOTE_GITHUB_API_URL, GHREMOTE_SECRET_KEY (64 hex chars),
// GHREMOTE_HTTP_TIMEOUT (30s), GHREMOTE_HTTP_CACHE (false),
// GHREMOTE_SECONDARY_RATE_LIMIT (false).
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads configuration through v, which callers may have bound to
// command-line flags. Environment variables are layered on with EnvPrefix.
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(KeyListenAddr, "127.0.0.1:8080")
	v.SetDefault(KeyDBPath, "ghremote.db")
	v.SetDefault(KeyHTTPTimeout, "30s")
	v.SetDefault(KeyHTTPCache, "false")
	v.SetDefault(KeySecondaryRateLimit, "false")

	timeoutRaw := v.GetString(KeyHTTPTimeout)
	timeout, err := time.ParseDuration(timeoutRaw)
	if err != nil {
		return nil, fmt.Errorf("%s has invalid duration %q: %w", envName(KeyHTTPTimeout), timeoutRaw, err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %s", envName(KeyHTTPTimeout), timeout)
	}

	httpCache, err := parseBool(v, KeyHTTPCache)
	if err != nil {
		return nil, err
	}

	secondaryRateLimit, err := parseBool(v, KeySecondaryRateLimit)
	if err != nil {
		return nil, err
	}

	var secretKey []byte
	if raw := v.GetString(KeySecretKey); raw != "" {
		secretKey, err = hex.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("%s is not valid hex: %w", envName(KeySecretKey), err)
		}
		if len(secretKey) != 32 {
			return nil, fmt.Errorf("%s must be 64 hex characters (32 bytes), got %d bytes", envName(KeySecretKey), len(secretKey))
		}
	}

	return &Config{
		ListenAddr:         v.GetString(KeyListenAddr),
		DBPath:             v.GetString(KeyDBPath),
		GitHubAPIURL:       strings.TrimSpace(v.GetString(KeyGitHubAPIURL)),
		SecretKey:          secretKey,
		HTTPTimeout:        timeout,
		HTTPCache:          httpCache,
		SecondaryRateLimit: secondaryRateLimit,
	}, nil
}

// parseBool reads key as a boolean, naming its environment variable on failure.
func parseBool(v *viper.Viper, key string) (bool, error) {
	raw := v.GetString(key)
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s has invalid boolean %q: %w", envName(key), raw, err)
	}
	return b, nil
}

// envName returns the environment variable that backs key.
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}
