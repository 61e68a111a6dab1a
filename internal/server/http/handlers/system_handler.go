package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ffmarket/internal/server/http/dto"
)

// Version is reported by the banner and health endpoints.
const Version = "2.0"

// SystemHandler serves banner, health and diagnostics endpoints.
type SystemHandler struct {
	facade      SystemFacade
	environment string
	now         func() time.Time
}

// NewSystemHandler constructs SystemHandler.
func NewSystemHandler(facade SystemFacade, environment string) *SystemHandler {
	return &SystemHandler{facade: facade, environment: environment, now: time.Now}
}

// Root handles GET /.
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.RootResponse{
		Message: "Free Fire Market Payment Server",
		Version: Version,
		Endpoints: map[string]string{
			"health":  "/health",
			"payment": "/api/payment",
		},
	})
}

// Health handles GET /health.
func (h *SystemHandler) Health(c *gin.Context) {
	db := "connected"
	if err := h.facade.CheckDatabase(c.Request.Context()); err != nil {
		db = "disconnected"
	}
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:      "ok",
		Version:     Version,
		Timestamp:   h.now().UTC().Format(time.RFC3339),
		Environment: h.environment,
		Supabase:    db,
	})
}

// Test handles GET /api/payment/test.
func (h *SystemHandler) Test(c *gin.Context) {
	d := h.facade.Diagnostics(c.Request.Context())
	db := "connected"
	if d.DatabaseErr != nil {
		db = "disconnected"
	}
	c.JSON(http.StatusOK, dto.DiagnosticsResponse{
		Success: true,
		Message: "ZiniPay payment routes are working",
		Config: dto.DiagnosticsConfig{
			HasAPIKey:   d.HasAPIKey,
			FrontendURL: d.FrontendURL,
			BackendURL:  d.BackendURL,
		},
		Database: db,
	})
}

// NotFound handles unmatched routes.
func (h *SystemHandler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
}
