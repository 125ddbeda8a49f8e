package router

import (
	"net/http"

	"linkedout/internal/handlers/api/v1/system"
	"linkedout/internal/middleware"
	"linkedout/internal/response"
	"linkedout/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Dependencies groups what the router needs to build its handlers
type Dependencies struct {
	Services        *services.ServiceCollection
	Auth            *middleware.AuthMiddleware
	RateLimiter     *middleware.RateLimiter
	Metrics         *middleware.MetricsCollector
	ResponseBuilder *response.Builder
	Logger          *zap.Logger
}

// SetupRouter configures all HTTP routes and returns the main handler with
// the middleware chain applied
func SetupRouter(deps *Dependencies) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = response.NotFoundHandler()
	r.MethodNotAllowedHandler = response.MethodNotAllowedHandler()

	// Route-aware middleware runs after matching so metrics see the template.
	if deps.Metrics != nil {
		r.Use(middleware.APIMetricsMiddleware(deps.Metrics))
	}

	// ===============================
	// MONITORING ENDPOINTS
	// ===============================

	systemController := system.NewSystemController(deps.Services, deps.Logger, deps.ResponseBuilder, deps.Metrics)
	r.HandleFunc("/health", systemController.Health).Methods(http.MethodGet)
	r.HandleFunc("/healthz", systemController.Liveness).Methods(http.MethodGet)
	r.HandleFunc("/metrics", systemController.Metrics).Methods(http.MethodGet)

	if !deps.Services.Config.IsProduction() {
		r.Handle("/api/v1/admin/reset", http.HandlerFunc(systemController.Reset)).Methods(http.MethodPost)
	}

	AddAPIv1Routes(r.PathPrefix("/api/v1").Subrouter(), deps)

	deps.Logger.Info("Router setup completed",
		zap.String("api_prefix", "/api/v1"),
		zap.Bool("metrics_enabled", deps.Metrics != nil),
	)

	return setupMiddlewareChain(r, deps)
}

// setupMiddlewareChain wraps the router, outermost first: request id,
// response builder, panic recovery, access log, CORS, security headers.
func setupMiddlewareChain(handler http.Handler, deps *Dependencies) http.Handler {
	cfg := deps.Services.Config

	chain := []func(http.Handler) http.Handler{
		middleware.RequestID(deps.Logger),
		response.Middleware(deps.ResponseBuilder),
		middleware.RecoverPanic(deps.Logger),
		middleware.EnhancedLogging(deps.Logger),
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.SecureHeaders,
	}
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}
	return handler
}
