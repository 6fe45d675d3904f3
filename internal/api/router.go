package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rasuta1125/banasukoAI/internal/database"
	"github.com/rasuta1125/banasukoAI/internal/events"
	mw "github.com/rasuta1125/banasukoAI/internal/middleware"
)

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	// Auth handlers
	Register http.HandlerFunc
	Login    http.HandlerFunc
	Refresh  http.HandlerFunc
	Logout   http.HandlerFunc

	// Account / quota views
	GetAccount http.HandlerFunc
	GetQuota   http.HandlerFunc

	// Diagnosis handlers
	ScorePattern  http.HandlerFunc
	GetSlots      http.HandlerFunc
	Compare       http.HandlerFunc
	ListDiagnoses http.HandlerFunc

	// Copy generation
	GenerateCopies http.HandlerFunc

	// Auth middleware (requireSession)
	AuthMiddleware func(http.Handler) http.Handler
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	AuthRateLimiter    func(http.Handler) http.Handler
}

func NewRouter(pool *pgxpool.Pool, publisher *events.Publisher, cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe — always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	// Readiness probe — checks DB and the optional event bus
	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status":   "healthy",
			"database": "healthy",
			"events":   "healthy",
		}

		status := http.StatusOK

		if err := database.HealthCheck(r.Context(), pool); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if publisher == nil {
			health["events"] = "not configured"
		} else if !publisher.Healthy() {
			health["events"] = "unhealthy"
			health["status"] = "degraded"
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public) — optionally rate-limited
		r.Route("/auth", func(r chi.Router) {
			if cfg.AuthRateLimiter != nil {
				r.Use(cfg.AuthRateLimiter)
			}
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/refresh", h.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware)
				r.Post("/logout", h.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Get("/account", h.GetAccount)
			r.Get("/quota", h.GetQuota)

			r.Route("/diagnoses", func(r chi.Router) {
				r.Get("/", h.ListDiagnoses)
				r.Get("/slots", h.GetSlots)
				r.Post("/compare", h.Compare)
				r.Post("/{pattern}/score", h.ScorePattern)
			})

			r.Post("/copies/generate", h.GenerateCopies)
		})
	})

	return r
}
