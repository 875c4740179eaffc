package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopassist/backend/internal/interfaces/http/dto"
)

// ReadinessChecker reports whether the backing store is reachable
type ReadinessChecker interface {
	Ping() error
}

// SystemHandler handles health and system endpoints
type SystemHandler struct {
	BaseHandler
	readiness ReadinessChecker
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. readiness may be nil,
// in which case the readiness probe only reports process liveness.
func NewSystemHandler(readiness ReadinessChecker) *SystemHandler {
	return &SystemHandler{
		readiness: readiness,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers the system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	system.GET("/health", h.Health)
	system.GET("/ready", h.Ready)
	system.GET("/info", h.GetSystemInfo)
}

// HealthResponse represents the health probe response
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Health is the liveness probe; it succeeds whenever the process serves
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(HealthResponse{Status: "ok"}))
}

// Ready is the readiness probe; it fails when the database is unreachable
func (h *SystemHandler) Ready(c *gin.Context) {
	if h.readiness != nil {
		if err := h.readiness.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(dto.ErrCodeInternal, "Database is not reachable"))
			return
		}
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(HealthResponse{Status: "ready"}))
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"ShopAssist Backend API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo returns basic system information including version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "ShopAssist Backend API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}
