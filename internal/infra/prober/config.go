package prober

import "time"

// Config holds the tunables for feed URL probing.
type Config struct {
	// Timeout bounds each individual probe, fallback attempt included.
	Timeout time.Duration

	// Concurrency is the chunk size for batch probing: at most this many
	// probes run at once, and a chunk completes before the next starts.
	Concurrency int

	// UserAgent is sent on primary probe requests.
	UserAgent string

	// MaxBodyBytes caps how much of a response body is read when
	// scanning for the feed's last-updated date.
	MaxBodyBytes int64

	// RatePerSecond limits outbound probe requests across the whole
	// prober. Zero disables rate limiting.
	RatePerSecond float64
}

// DefaultConfig returns the probing defaults: 5 second timeout,
// chunks of 5, 2 MiB body cap, no rate limit.
func DefaultConfig() Config {
	return Config{
		Timeout:      5 * time.Second,
		Concurrency:  5,
		UserAgent:    "OPML-Gardener/1.0",
		MaxBodyBytes: 2 << 20,
	}
}

// normalize fills zero fields with defaults so a partially populated
// Config is still usable.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = def.MaxBodyBytes
	}
	return c
}
