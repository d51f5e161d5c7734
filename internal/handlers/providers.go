package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/XavierBriggs/Beacon/internal/health"
)

// RegisterProviderRoutes wires the provider health diagnostics endpoint.
//
// GET /providers returns every provider's health record so operators can
// see which sources are currently gated out and why.
func RegisterProviderRoutes(r gin.IRoutes, hm *health.Manager) {
	r.GET("/providers", func(c *gin.Context) {
		records := hm.Snapshot()
		sort.Slice(records, func(i, j int) bool {
			return records[i].Provider < records[j].Provider
		})
		c.JSON(http.StatusOK, gin.H{"providers": records})
	})
}
