package gateway

import (
	"net/http"
	"time"
)

// StatusResponse is the JSON response for GET /status.
type StatusResponse struct {
	Uptime         time.Duration   `json:"uptime_seconds"`
	Metrics        MetricsSnapshot `json:"metrics"`
	LogEntries     int             `json:"log_entries"`
	LogSubscribers int             `json:"log_subscribers"`
}

// handleStatus returns an http.HandlerFunc for GET /status.
func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{
			Uptime:  time.Since(g.startedAt).Truncate(time.Second),
			Metrics: g.metrics.Snapshot(),
		}

		if g.ring != nil {
			resp.LogEntries = g.ring.Len()
		}
		if g.hub != nil {
			resp.LogSubscribers = g.hub.Subscribers()
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
