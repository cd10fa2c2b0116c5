package config

import (
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// ListenAddr is the address the HTTP server binds to
	ListenAddr string
	// GoogleBooksAPIKey is the optional API key for the Google Books API
	GoogleBooksAPIKey string
	// CacheTTL is how long cached upstream responses stay valid
	CacheTTL time.Duration
	// RateLimitDelay is the minimum gap between outbound upstream calls
	RateLimitDelay time.Duration
	// RequestTimeout bounds each outbound upstream call
	RequestTimeout time.Duration
)

const (
	// DefaultCacheTTL matches the upstream response cache lifetime (15 minutes)
	DefaultCacheTTL = 15 * time.Minute
	// DefaultRateLimitDelay is the minimum pause between upstream requests
	DefaultRateLimitDelay = 100 * time.Millisecond
	// DefaultRequestTimeout is the total timeout for one upstream call
	DefaultRequestTimeout = 30 * time.Second
)

// InitConfig initializes the global configuration from viper
func InitConfig() {
	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("cache.ttl", DefaultCacheTTL.String())
	viper.SetDefault("ratelimit.delay", DefaultRateLimitDelay.String())
	viper.SetDefault("upstream.timeout", DefaultRequestTimeout.String())

	ListenAddr = viper.GetString("server.addr")
	GoogleBooksAPIKey = viper.GetString("GoogleBooksAPIKey")
	CacheTTL = durationOrDefault("cache.ttl", DefaultCacheTTL)
	RateLimitDelay = durationOrDefault("ratelimit.delay", DefaultRateLimitDelay)
	RequestTimeout = durationOrDefault("upstream.timeout", DefaultRequestTimeout)
}

// SetListenAddr sets the server listen address
func SetListenAddr(addr string) {
	ListenAddr = addr
}

// SetGoogleBooksAPIKey sets the Google Books API key
func SetGoogleBooksAPIKey(key string) {
	GoogleBooksAPIKey = key
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
