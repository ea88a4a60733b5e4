package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inovasi-informatika/spp-admin/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SystemHandler reports process health.
type SystemHandler struct {
	rdb        *redis.Client
	apiBaseURL string
	startTime  time.Time
	log        zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler. rdb may be nil when flash
// messages are kept in memory.
func NewSystemHandler(rdb *redis.Client, apiBaseURL string, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		rdb:        rdb,
		apiBaseURL: apiBaseURL,
		startTime:  time.Now(),
		log:        log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /health
// Liveness plus the state of the flash store. The records API is not probed.
func (h *SystemHandler) Health(c *gin.Context) {
	body := gin.H{
		"status":      "ok",
		"uptime":      time.Since(h.startTime).Round(time.Second).String(),
		"records_api": h.apiBaseURL,
		"flash_store": "memory",
	}

	if h.rdb != nil {
		body["flash_store"] = "redis"
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			h.log.Warn().Err(err).Msg("Redis ping failed")
			body["status"] = "degraded"
			response.Success(c, http.StatusServiceUnavailable, body)
			return
		}
	}

	response.Success(c, http.StatusOK, body)
}
