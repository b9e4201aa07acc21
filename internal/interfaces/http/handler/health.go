package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/sprayshop/backend/internal/infrastructure/persistence"
	"github.com/sprayshop/backend/internal/infrastructure/realtime"
)

// HealthHandler reports liveness and dependency health
type HealthHandler struct {
	BaseHandler
	db          *persistence.Database
	redisClient *redis.Client
	hub         *realtime.Hub
	startedAt   time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *persistence.Database, redisClient *redis.Client, hub *realtime.Hub) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		hub:         hub,
		startedAt:   time.Now(),
	}
}

// RegisterRoutes registers health routes
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health handles GET /health. It reports degraded dependencies with 503
// so load balancers stop routing to a broken instance.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	healthy := true
	checks := gin.H{}

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			healthy = false
			checks["database"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			stats, _ := h.db.Stats()
			checks["database"] = gin.H{
				"status":           "up",
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
			}
		}
	}

	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			healthy = false
			checks["redis"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			checks["redis"] = gin.H{"status": "up"}
		}
	}

	if h.hub != nil {
		checks["events"] = gin.H{"status": "up", "clients": h.hub.ClientCount()}
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status": status,
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
		"checks": checks,
	})
}
