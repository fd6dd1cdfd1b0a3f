package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// APIVersion is reported by the root endpoint.
const APIVersion = "1.0.0"

// getHome godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "HeartChain API",
		"version":     APIVersion,
		"description": "Transparent Blockchain Donations Platform",
		"docs":        "/swagger/index.html",
		"health":      "/health",
	})
}

type healthHandler struct {
	healthService portssvc.HealthSvc
}

func registerHealthRoutes(r *gin.Engine, hs portssvc.HealthSvc) {
	h := &healthHandler{healthService: hs}

	r.GET("/", getHome)
	r.GET("/health", h.health)
	r.GET("/health/detailed", h.detailed)
}

// health godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *healthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "heartchain-backend"})
}

// detailed godoc
// @Summary Detailed health check
// @Description Reports the datastore, ledger and payment gateway. Answers 503 when a configured component is unreachable.
// @Tags health
// @Produce json
// @Success 200 {object} dto.DetailedHealthResponse
// @Failure 503 {object} dto.DetailedHealthResponse
// @Router /health/detailed [get]
func (h *healthHandler) detailed(c *gin.Context) {
	report := h.healthService.Detailed(c.Request.Context())
	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.ToDetailedHealthResponse(report))
}
