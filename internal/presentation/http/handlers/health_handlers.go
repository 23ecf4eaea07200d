package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/infrastructure/persistence/database"
)

// HealthHandlers contains the liveness and readiness handlers
type HealthHandlers struct {
	db        *database.DB
	logger    *logging.ChanneledLogger
	startedAt time.Time
}

// NewHealthHandlers creates health handlers with injected dependencies
func NewHealthHandlers(db *database.DB, logger *logging.ChanneledLogger) *HealthHandlers {
	return &HealthHandlers{
		db:        db,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// GetHealth handles GET /api/health - overall health including the database
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	if err := h.db.RoundTrip(); err != nil {
		h.logger.System().Error("Database health check failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// GetReady handles GET /api/health/ready - database readiness
func (h *HealthHandlers) GetReady(c *gin.Context) {
	if err := h.db.RoundTrip(); err != nil {
		h.logger.System().Error("Database readiness check failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "driver": h.db.DriverName()})
}

// GetLive handles GET /api/health/live - process liveness only
func (h *HealthHandlers) GetLive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}
