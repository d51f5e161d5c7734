package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/Beacon/internal/aggregator"
	"github.com/XavierBriggs/Beacon/internal/handlers"
	"github.com/XavierBriggs/Beacon/internal/health"
)

// NewRouter wires the public endpoints.
// Public: /health, /ready
// API: /api/v1/events/search, /api/v1/providers
//
// redisClient is nil when the in-memory cache is active; /ready then only
// confirms the process is serving.
func NewRouter(engine *aggregator.Engine, hm *health.Manager, redisClient *redis.Client) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the cache dependency is reachable when one is
	// configured.
	r.GET("/ready", func(c *gin.Context) {
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	api := r.Group("/api/v1")
	handlers.RegisterSearchRoutes(api, engine)
	handlers.RegisterProviderRoutes(api, hm)

	return r
}
