package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/SupplierGo/internal/auth"
	"github.com/utafrali/SupplierGo/internal/service"
	"github.com/utafrali/SupplierGo/pkg/health"
	"github.com/utafrali/SupplierGo/pkg/middleware"
)

// ServiceName labels spans and metrics emitted by the router.
const ServiceName = "supplier-service"

// NewRouter creates a chi router with all supplier service routes registered.
// metrics and metricsHandler may be nil.
func NewRouter(
	authService *service.AuthService,
	supplierService *service.SupplierService,
	validateToken middleware.TokenValidator,
	policies *auth.PolicySet,
	healthHandler *health.Handler,
	metrics *middleware.HTTPMetrics,
	metricsHandler http.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(ServiceName))
	if metrics != nil {
		r.Use(metrics.Handler)
	}
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	authHandler := NewAuthHandler(authService, logger)
	supplierHandler := NewSupplierHandler(supplierService, logger)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Get("/suppliers", supplierHandler.List)
		r.Get("/supplier/{id}", supplierHandler.Get)

		// Authenticated endpoints; the request logger is remounted so that
		// handler logs carry the caller's user_id.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validateToken))
			r.Use(middleware.RequestLogger(logger))

			r.With(policies.Require(auth.PolicyCanAddClaim)).
				Post("/addClaimToUser", authHandler.AddClaimToUser)

			r.Post("/supplier", supplierHandler.Create)
			r.With(policies.Require(auth.PolicyUpdateSupplier)).
				Put("/supplier/{id}", supplierHandler.Update)
			r.With(policies.Require(auth.PolicyDeleteSupplier)).
				Delete("/supplier/{id}", supplierHandler.Delete)
		})
	})

	return r
}
