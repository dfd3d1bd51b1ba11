package handler

import (
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler handles operational endpoints
type SystemHandler struct {
	BaseHandler
	db      Pinger
	appName string
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger, appName, version string) *SystemHandler {
	return &SystemHandler{
		db:      db,
		appName: appName,
		version: version,
	}
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
		}
	}

	h.Success(c, gin.H{
		"status":   status,
		"app":      h.appName,
		"version":  h.version,
		"database": dbStatus,
	})
}

// RegisterRoutes registers the system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}
