package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/XavierBriggs/Beacon/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg := config.Default()
	if cfg.Listen != ":8080" {
		t.Errorf("default listen = %q, want :8080", cfg.Listen)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("default cache TTL = %v, want 5m", cfg.CacheTTL)
	}
	if cfg.HealthThreshold != 5 {
		t.Errorf("default health threshold = %d, want 5", cfg.HealthThreshold)
	}
	for name, pc := range map[string]config.ProviderConfig{
		"ticketmaster": cfg.Ticketmaster,
		"predicthq":    cfg.PredictHQ,
		"rapidapi":     cfg.RapidAPI,
	} {
		if !pc.Enabled {
			t.Errorf("provider %s should default to enabled", name)
		}
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "beacon.yaml")
	yaml := `
listen: ":9090"
cache_ttl: 2m
ticketmaster:
  api_key: from-file
  enabled: true
predicthq:
  enabled: false
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// Env wins over the file for secrets.
	t.Setenv("TICKETMASTER_API_KEY", "from-env")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("listen = %q, want :9090", cfg.Listen)
	}
	if cfg.CacheTTL != 2*time.Minute {
		t.Errorf("cache TTL = %v, want 2m", cfg.CacheTTL)
	}
	if cfg.Ticketmaster.APIKey != "from-env" {
		t.Errorf("env must override file key, got %q", cfg.Ticketmaster.APIKey)
	}
	if cfg.PredictHQ.Enabled {
		t.Error("file should disable predicthq")
	}
	// Fields the file omits keep their defaults.
	if cfg.CallTimeout != 10*time.Second {
		t.Errorf("call timeout = %v, want default 10s", cfg.CallTimeout)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("listen = %q, want default", cfg.Listen)
	}
}

func TestNormalizeRepairsNonsense(t *testing.T) {
	cfg := &config.Config{CacheTTL: -time.Minute, HealthThreshold: -1}
	cfg.Normalize()
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("negative TTL not repaired: %v", cfg.CacheTTL)
	}
	if cfg.HealthThreshold != 5 {
		t.Errorf("negative threshold not repaired: %d", cfg.HealthThreshold)
	}
	if cfg.Listen == "" || cfg.CacheSweep == "" || cfg.HealthRecheck == "" {
		t.Error("empty schedule fields not repaired")
	}
}
