package handlers

import (
	"net/http"

	"math-operations-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// CacheStatsResponse is the body of GET /api/v1/cache/stats
type CacheStatsResponse struct {
	Size        int     `json:"size"`
	MaxSize     int     `json:"max_size"`
	TTLSeconds  float64 `json:"ttl_seconds"`
	Entries     int     `json:"entries"`
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	Evictions   uint64  `json:"evictions"`
	Expirations uint64  `json:"expirations"`
}

// GetCacheStats handles GET /api/v1/cache/stats
func (h *Handler) GetCacheStats(c *gin.Context) {
	st := h.calculations.CacheStats()
	c.JSON(http.StatusOK, CacheStatsResponse{
		Size:        st.Size,
		MaxSize:     st.MaxSize,
		TTLSeconds:  st.TTL.Seconds(),
		Entries:     st.Size,
		Hits:        st.Hits,
		Misses:      st.Misses,
		Evictions:   st.Evictions,
		Expirations: st.Expirations,
	})
}

// ClearCache handles DELETE /api/v1/cache (protected)
func (h *Handler) ClearCache(c *gin.Context) {
	h.calculations.ClearCache()
	h.log.Info().Str("username", c.GetString(middleware.ContextUsername)).Msg("cache cleared via api")
	c.JSON(http.StatusOK, gin.H{"message": "Cache cleared successfully"})
}
