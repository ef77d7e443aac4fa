package config

import "time"

// CacheConfig controls the response cache sitting in front of the
// public movie and session catalog.  Only idempotent reads go through
// it; the booking endpoints are never cached.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration // lifetime of a cached response
	Prefix       string        // key namespace
	MaxBodyBytes int           // responses larger than this bypass the cache
}

// LoadCacheConfig reads the cache settings from the environment with
// conservative defaults: a short TTL keeps seat availability views
// close to live state.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 15*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
