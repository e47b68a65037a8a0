package gateway

import (
	"net/http"
	"time"
)

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime int64  `json:"uptime_seconds"`
}

// handleHealth returns an http.HandlerFunc for GET /health. The engine
// is pure and has no downstream dependencies, so health is liveness.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status: "ok",
			Uptime: int64(time.Since(g.startedAt).Seconds()),
		})
	}
}
