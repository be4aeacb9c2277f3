package health

import (
	"context"
	"net/http"
	"time"

	"robotapp-backend/internal/cache"
	"robotapp-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// PingFunc checks connectivity to a backing service
type PingFunc func(ctx context.Context) error

// HealthHandler reports liveness and database connectivity
type HealthHandler struct {
	dbDriver  string
	pingDB    PingFunc
	cache     cache.Cache
	startedAt time.Time
}

// NewHealthHandler takes the database ping and, when Redis is configured,
// the cache. A nil cache is reported as disabled.
func NewHealthHandler(dbDriver string, pingDB PingFunc, c cache.Cache) *HealthHandler {
	return &HealthHandler{dbDriver: dbDriver, pingDB: pingDB, cache: c, startedAt: time.Now()}
}

// Check answers 503 when the database is unreachable
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	status := http.StatusOK
	body := gin.H{
		"status":    "ok",
		"database":  "connected",
		"driver":    h.dbDriver,
		"cache":     "disabled",
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC(),
	}

	if err := h.pingDB(ctx); err != nil {
		util.Logger.Error("database health check failed", zap.Error(err))
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["database"] = "disconnected"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			util.Logger.Warn("cache health check failed", zap.Error(err))
			body["cache"] = "disconnected"
			body["status"] = "degraded"
		} else {
			body["cache"] = "connected"
		}
	}

	c.JSON(status, gin.H{"success": status == http.StatusOK, "data": body})
}
