// Package api exposes the reconciliation run over a minimal HTTP surface:
// a trigger endpoint and health checks. There is no mutual-exclusion guard
// against overlapping trigger calls; operators serialize externally.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/openclassical/league-data/internal/api/respond"
	"github.com/openclassical/league-data/internal/config"
	"github.com/openclassical/league-data/internal/runner"
)

// Trigger starts one incremental reconciliation run.
type Trigger interface {
	Run(ctx context.Context) (runner.Result, error)
}

// HealthChecker verifies the spreadsheet store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Chi router with all middleware and
// routes.
func NewRouter(trigger Trigger, store HealthChecker, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Recoverer)

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Process-Time"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	h := &handler{trigger: trigger, store: store}

	// --- Routes ---
	r.Get("/", h.root)
	r.Get("/run", h.run)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.health)
		r.Get("/sheets", h.healthSheets)
	})

	return r
}

type handler struct {
	trigger Trigger
	store   HealthChecker
}

func (h *handler) root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":   "League Results Bot",
		"status": "running",
	})
}

// run triggers one incremental reconciliation and reports generic
// success/failure. Per-unit errors (one participant's fetch, one week's
// sink write) are counted on the summary, not escalated to the status code.
func (h *handler) run(w http.ResponseWriter, r *http.Request) {
	result, err := h.trigger.Run(r.Context())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "RUN_FAILED", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":  "complete",
		"summary": result.Summary(),
		"errors":  result.Errors,
	})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) healthSheets(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":      "unhealthy",
			"spreadsheet": "unreachable",
			"error":       err.Error(),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"spreadsheet": "reachable",
	})
}
