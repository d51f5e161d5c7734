package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/XavierBriggs/Beacon/adapters/predicthq"
	"github.com/XavierBriggs/Beacon/adapters/rapidapi"
	"github.com/XavierBriggs/Beacon/adapters/ticketmaster"
	"github.com/XavierBriggs/Beacon/internal/aggregator"
	"github.com/XavierBriggs/Beacon/internal/cache"
	"github.com/XavierBriggs/Beacon/internal/config"
	"github.com/XavierBriggs/Beacon/internal/health"
	"github.com/XavierBriggs/Beacon/internal/httpserver"
	"github.com/XavierBriggs/Beacon/internal/logx"
	"github.com/XavierBriggs/Beacon/pkg/contracts"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	logx.SetLevel(cfg.LogLevel)

	// Cache backend: Redis when configured, in-memory otherwise.
	var resultCache contracts.ResultCache
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			fmt.Printf("failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
		resultCache = cache.NewRedis(redisClient, cfg.CacheTTL)
		fmt.Println("✓ Connected to Redis")
	} else {
		resultCache = cache.NewMemory(cfg.CacheTTL)
		fmt.Println("✓ Using in-memory cache")
	}

	healthMgr := health.NewManager(cfg.HealthThreshold, cfg.HealthCooldown)

	adapters := []contracts.SourceAdapter{
		ticketmaster.NewClient(cfg.Ticketmaster.APIKey),
		predicthq.NewClient(cfg.PredictHQ.APIKey),
		rapidapi.NewClient(cfg.RapidAPI.APIKey),
	}
	engine := aggregator.New(adapters, healthMgr, resultCache, cfg.CallTimeout)

	// Providers without credentials stay registered so sourceStats keeps a
	// stable key set, but the health gate skips them from the start.
	gateUnconfigured(healthMgr, ticketmaster.SourceName, cfg.Ticketmaster)
	gateUnconfigured(healthMgr, predicthq.SourceName, cfg.PredictHQ)
	gateUnconfigured(healthMgr, rapidapi.SourceName, cfg.RapidAPI)

	fmt.Printf("✓ Registered %d provider(s)\n", len(adapters))

	// Periodic jobs: cache sweep bounds memory without reads; health
	// recheck re-enables cooled-down providers.
	sched := cron.New()
	if _, err := sched.AddFunc(cfg.CacheSweep, func() { resultCache.Sweep(context.Background()) }); err != nil {
		fmt.Printf("invalid cache_sweep schedule: %v\n", err)
		os.Exit(1)
	}
	if _, err := sched.AddFunc(cfg.HealthRecheck, healthMgr.Recheck); err != nil {
		fmt.Printf("invalid health_recheck schedule: %v\n", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	router := httpserver.NewRouter(engine, healthMgr, redisClient)
	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("server error: %v\n", err)
			os.Exit(1)
		}
	}()

	fmt.Printf("✓ Beacon started on %s\n", cfg.Listen)
	fmt.Printf("  Cache TTL: %v\n", cfg.CacheTTL)
	fmt.Printf("  Call timeout: %v\n", cfg.CallTimeout)

	// Wait for interrupt signal.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	fmt.Println("\n✓ Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("✗ Shutdown error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Beacon stopped")
}

// gateUnconfigured disables a provider whose key is missing or which the
// config switched off.
func gateUnconfigured(hm *health.Manager, name string, pc config.ProviderConfig) {
	switch {
	case !pc.Enabled:
		hm.Disable(name, "disabled in config")
	case pc.APIKey == "":
		hm.Disable(name, "missing API key")
	}
}
