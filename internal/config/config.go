// Package config loads service configuration from an optional YAML file
// with environment-variable overrides for secrets and deployment knobs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderConfig holds one provider's credentials and switches.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Enabled bool   `yaml:"enabled"`
}

// Config is the top-level service configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string

	// LogLevel is one of debug, info, error.
	LogLevel string

	// CacheTTL governs result cache expiry.
	CacheTTL time.Duration
	// CacheSweep is the cron spec for the periodic expired-entry sweep.
	CacheSweep string

	// RedisAddr selects the Redis cache backend when non-empty; the
	// in-memory cache is used otherwise.
	RedisAddr     string
	RedisPassword string

	// CallTimeout bounds each provider call within a request.
	CallTimeout time.Duration

	// HealthThreshold and HealthCooldown tune the provider health gate.
	HealthThreshold int
	HealthCooldown  time.Duration
	// HealthRecheck is the cron spec for cooldown re-validation.
	HealthRecheck string

	Ticketmaster ProviderConfig
	PredictHQ    ProviderConfig
	RapidAPI     ProviderConfig
}

// fileConfig is the YAML shape. Durations arrive as strings ("5m") because
// yaml.v3 cannot decode into time.Duration directly; pointers distinguish
// absent keys from zero values so partial files keep the defaults.
type fileConfig struct {
	Listen          *string         `yaml:"listen"`
	LogLevel        *string         `yaml:"log_level"`
	CacheTTL        *string         `yaml:"cache_ttl"`
	CacheSweep      *string         `yaml:"cache_sweep"`
	RedisAddr       *string         `yaml:"redis_addr"`
	RedisPassword   *string         `yaml:"redis_password"`
	CallTimeout     *string         `yaml:"call_timeout"`
	HealthThreshold *int            `yaml:"health_threshold"`
	HealthCooldown  *string         `yaml:"health_cooldown"`
	HealthRecheck   *string         `yaml:"health_recheck"`
	Ticketmaster    *ProviderConfig `yaml:"ticketmaster"`
	PredictHQ       *ProviderConfig `yaml:"predicthq"`
	RapidAPI        *ProviderConfig `yaml:"rapidapi"`
}

// Default returns the in-memory default configuration.
func Default() *Config {
	return &Config{
		Listen:          ":8080",
		LogLevel:        "info",
		CacheTTL:        5 * time.Minute,
		CacheSweep:      "@every 1m",
		CallTimeout:     10 * time.Second,
		HealthThreshold: 5,
		HealthCooldown:  5 * time.Minute,
		HealthRecheck:   "@every 1m",
		Ticketmaster:    ProviderConfig{Enabled: true},
		PredictHQ:       ProviderConfig{Enabled: true},
		RapidAPI:        ProviderConfig{Enabled: true},
	}
}

// Load reads configuration from path (optional) and applies environment
// overrides. A missing file is not an error; the defaults stand.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		} else if err := cfg.applyYAML(data); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.Normalize()
	return cfg, nil
}

// applyYAML overlays a parsed file onto the defaults. A provider block, when
// present, replaces that provider's config wholesale.
func (c *Config) applyYAML(data []byte) error {
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}

	if f.Listen != nil {
		c.Listen = *f.Listen
	}
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.CacheSweep != nil {
		c.CacheSweep = *f.CacheSweep
	}
	if f.RedisAddr != nil {
		c.RedisAddr = *f.RedisAddr
	}
	if f.RedisPassword != nil {
		c.RedisPassword = *f.RedisPassword
	}
	if f.HealthThreshold != nil {
		c.HealthThreshold = *f.HealthThreshold
	}
	if f.HealthRecheck != nil {
		c.HealthRecheck = *f.HealthRecheck
	}

	var err error
	if c.CacheTTL, err = overlayDuration(f.CacheTTL, c.CacheTTL, "cache_ttl"); err != nil {
		return err
	}
	if c.CallTimeout, err = overlayDuration(f.CallTimeout, c.CallTimeout, "call_timeout"); err != nil {
		return err
	}
	if c.HealthCooldown, err = overlayDuration(f.HealthCooldown, c.HealthCooldown, "health_cooldown"); err != nil {
		return err
	}

	if f.Ticketmaster != nil {
		c.Ticketmaster = *f.Ticketmaster
	}
	if f.PredictHQ != nil {
		c.PredictHQ = *f.PredictHQ
	}
	if f.RapidAPI != nil {
		c.RapidAPI = *f.RapidAPI
	}
	return nil
}

func overlayDuration(raw *string, fallback time.Duration, field string) (time.Duration, error) {
	if raw == nil {
		return fallback, nil
	}
	d, err := time.ParseDuration(*raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

// applyEnv overlays environment variables. Secrets are env-first so they
// stay out of config files.
func (c *Config) applyEnv() {
	if v := os.Getenv("BEACON_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("BEACON_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("BEACON_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CacheTTL = d
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("TICKETMASTER_API_KEY"); v != "" {
		c.Ticketmaster.APIKey = v
	}
	if v := os.Getenv("PREDICTHQ_TOKEN"); v != "" {
		c.PredictHQ.APIKey = v
	}
	if v := os.Getenv("RAPIDAPI_KEY"); v != "" {
		c.RapidAPI.APIKey = v
	}
}

// Normalize fills missing or nonsensical values with defaults so partial
// configs behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.CacheSweep == "" {
		c.CacheSweep = "@every 1m"
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 10 * time.Second
	}
	if c.HealthThreshold <= 0 {
		c.HealthThreshold = 5
	}
	if c.HealthCooldown <= 0 {
		c.HealthCooldown = 5 * time.Minute
	}
	if c.HealthRecheck == "" {
		c.HealthRecheck = "@every 1m"
	}
}
