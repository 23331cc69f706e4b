package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/askpanel/panel/app"
	"github.com/askpanel/panel/handlers"
	"github.com/askpanel/panel/middleware"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	logging := middleware.NewLoggingMiddleware(deps.Logger)

	// Core middleware. The timeout sits above the per-provider transport
	// timeout so slow providers are reported per outcome, not as a
	// request-level failure.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(logging.LogRequests)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(90 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "https://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check endpoints
	r.Get("/healthz", handlers.HealthCheck(deps))
	r.Get("/readyz", handlers.ReadinessCheck(deps))

	// Prometheus metrics
	if deps.Config.Observability.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(deps.PromRegistry, promhttp.HandlerOpts{}))
	}

	// API v1 routes
	askHandler := handlers.NewAskHandler(deps.AskService, deps.Logger, deps.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", handlers.StatusHandler(deps))
		r.Get("/providers", handlers.ProviderListHandler(deps))
		r.Post("/ask", askHandler.HandleAsk)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
