// file: internal/handlers/api/v1/system/system_controller.go
package system

import (
	"net/http"
	"time"

	"linkedout/internal/middleware"
	"linkedout/internal/response"
	"linkedout/internal/services"
	"linkedout/internal/utils/appinfo"

	"go.uber.org/zap"
)

// HealthResponse is the health endpoint payload
type HealthResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	*services.ServiceHealth
}

// SystemController reports health and request metrics
type SystemController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
	metrics           *middleware.MetricsCollector
}

// NewSystemController creates a new system controller. metrics may be nil.
func NewSystemController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder, metrics *middleware.MetricsCollector) *SystemController {
	return &SystemController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
		metrics:           metrics,
	}
}

// Health probes the dependencies - GET /health
func (c *SystemController) Health(w http.ResponseWriter, r *http.Request) {
	health := c.serviceCollection.HealthCheck(r.Context())

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
		c.logger.Warn("Health check degraded", zap.Strings("issues", health.Issues))
	}

	c.responseBuilder.WriteJSON(w, r, c.responseBuilder.Success(r.Context(), &HealthResponse{
		Service:       appinfo.Name,
		Version:       appinfo.GetVersion(),
		ServiceHealth: health,
	}), status)
}

// Liveness answers as long as the process serves requests - GET /healthz
func (c *SystemController) Liveness(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// Metrics returns the request counters - GET /metrics
func (c *SystemController) Metrics(w http.ResponseWriter, r *http.Request) {
	if c.metrics == nil {
		c.responseBuilder.WriteError(w, r, services.NewServiceUnavailableError("metrics are disabled"))
		return
	}
	c.responseBuilder.WriteSuccess(w, r, c.metrics.GetSnapshot())
}

// Reset restores the demo data - POST /api/v1/admin/reset (non-production only)
func (c *SystemController) Reset(w http.ResponseWriter, r *http.Request) {
	if err := c.serviceCollection.Reset(r.Context()); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewInternalError("failed to reset demo data"))
		return
	}
	c.logger.Info("Demo data reset")
	c.responseBuilder.WriteSuccess(w, r, map[string]string{"status": "reset"})
}
