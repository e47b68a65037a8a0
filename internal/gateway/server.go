package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Public — no auth required.
	r.Get("/health", g.handleHealth())

	// Selection is the data-plane endpoint; callers are trusted
	// loopback clients.
	r.Post("/v1/select", g.handleSelect())

	if g.prom != nil {
		r.Handle("/metrics", promhttp.HandlerFor(g.prom.Registry(), promhttp.HandlerOpts{}))
	}

	// Admin endpoints — auth required. Not mounted if no auth configured.
	if g.config.Auth.IsConfigured() {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(g.config.Auth))
			r.Get("/status", g.handleStatus())
			r.Route("/v1", func(r chi.Router) {
				r.Get("/config", g.handleGetBudget())
				r.Patch("/config", g.handlePatchBudget())
				r.Get("/log", g.handleLogSnapshot())
				r.Get("/log/stream", g.handleLogStream())
				r.Get("/modules", g.handleListModules())
			})
		})
	}

	return r
}
