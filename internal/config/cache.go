package config

import "time"

// CacheConfig defines settings for the per-day reservation cache.  When
// Enabled is false or no Redis client is configured, every read goes to
// the source.  Entries are namespaced by Prefix and the reservation date
// so that a change to one day only evicts that day.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads CACHE_* variables.  A non-positive TTL falls back
// to the default.
func LoadCacheConfig() CacheConfig {
	c := CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 30*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "cache"),
	}
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	return c
}
