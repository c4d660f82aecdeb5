// Package config loads the application configuration from an optional
// YAML file with environment variable overrides. Every setting has a
// working default, so the server starts with no file and no environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"opml-gardener/internal/infra/prober"
	pkgconfig "opml-gardener/pkg/config"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
}

// ProberConfig holds the liveness prober settings.
type ProberConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	Concurrency   int           `yaml:"concurrency"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	RatePerSecond float64       `yaml:"rate_per_second"`
}

// Config is the whole application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Prober ProberConfig `yaml:"prober"`

	// RevalidateSchedule is a cron expression for the periodic liveness
	// check. Empty disables the schedule.
	RevalidateSchedule string `yaml:"revalidate_schedule"`
}

// Default returns the built-in configuration.
func Default() *Config {
	pc := prober.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    10 << 20,
			CORSOrigins:     []string{"*"},
			RateLimitRPS:    20,
			RateLimitBurst:  40,
		},
		Prober: ProberConfig{
			Timeout:       pc.Timeout,
			Concurrency:   pc.Concurrency,
			UserAgent:     pc.UserAgent,
			MaxBodyBytes:  pc.MaxBodyBytes,
			RatePerSecond: pc.RatePerSecond,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then environment overrides. The result
// is validated before it is returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables on the current values.
func (c *Config) applyEnv() {
	c.Server.Addr = pkgconfig.GetEnvString("SERVER_ADDR", c.Server.Addr)
	c.Server.ReadTimeout = pkgconfig.GetEnvDuration("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = pkgconfig.GetEnvDuration("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.RequestTimeout = pkgconfig.GetEnvDuration("SERVER_REQUEST_TIMEOUT", c.Server.RequestTimeout)
	c.Server.ShutdownTimeout = pkgconfig.GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.MaxBodyBytes = int64(pkgconfig.GetEnvInt("SERVER_MAX_BODY_BYTES", int(c.Server.MaxBodyBytes)))
	c.Server.CORSOrigins = pkgconfig.GetEnvStringList("CORS_ORIGINS", c.Server.CORSOrigins)
	c.Server.RateLimitRPS = pkgconfig.GetEnvFloat("RATE_LIMIT_RPS", c.Server.RateLimitRPS)
	c.Server.RateLimitBurst = pkgconfig.GetEnvInt("RATE_LIMIT_BURST", c.Server.RateLimitBurst)

	c.Prober.Timeout = pkgconfig.GetEnvDuration("PROBE_TIMEOUT", c.Prober.Timeout)
	c.Prober.Concurrency = pkgconfig.GetEnvInt("PROBE_CONCURRENCY", c.Prober.Concurrency)
	c.Prober.UserAgent = pkgconfig.GetEnvString("PROBE_USER_AGENT", c.Prober.UserAgent)
	c.Prober.RatePerSecond = pkgconfig.GetEnvFloat("PROBE_RATE_PER_SECOND", c.Prober.RatePerSecond)

	c.RevalidateSchedule = pkgconfig.GetEnvString("REVALIDATE_SCHEDULE", c.RevalidateSchedule)
}

// Validate checks the settings that would otherwise fail in confusing
// ways at runtime.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Server.ReadTimeout); err != nil {
		return fmt.Errorf("server read timeout: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Server.WriteTimeout); err != nil {
		return fmt.Errorf("server write timeout: %w", err)
	}
	if err := pkgconfig.ValidateDurationRange(c.Prober.Timeout, time.Second, 5*time.Minute); err != nil {
		return fmt.Errorf("prober timeout: %w", err)
	}
	if c.Prober.Concurrency < 1 {
		return fmt.Errorf("prober concurrency must be at least 1, got %d", c.Prober.Concurrency)
	}
	return nil
}

// ProberSettings converts the loaded settings into the prober's own
// config type.
func (c *Config) ProberSettings() prober.Config {
	return prober.Config{
		Timeout:       c.Prober.Timeout,
		Concurrency:   c.Prober.Concurrency,
		UserAgent:     c.Prober.UserAgent,
		MaxBodyBytes:  c.Prober.MaxBodyBytes,
		RatePerSecond: c.Prober.RatePerSecond,
	}
}
