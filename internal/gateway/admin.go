package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/exafyltd/vitana-context/internal/budget"
	"github.com/exafyltd/vitana-context/internal/core"
)

// handleGetBudget returns the live budget configuration.
func (g *Gateway) handleGetBudget() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if g.manager == nil {
			http.Error(w, "budget manager not available", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, g.manager.Get())
	}
}

// handlePatchBudget applies a partial budget override. Validation errors
// come back as 400 with the joined message; the previous configuration
// stays live.
func (g *Gateway) handlePatchBudget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.manager == nil {
			http.Error(w, "budget manager not available", http.StatusServiceUnavailable)
			return
		}

		var p budget.Partial
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
			return
		}

		updated, err := g.manager.Update(p)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		g.logger.Info("budget configuration updated", "remote_addr", r.RemoteAddr)
		writeJSON(w, http.StatusOK, updated)
	}
}

// moduleJSON is a serializable module info snapshot.
type moduleJSON struct {
	ID        string `json:"id"`
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// handleListModules lists all compiled modules.
func (g *Gateway) handleListModules() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		mods := core.GetModules()
		out := make([]moduleJSON, 0, len(mods))
		for _, m := range mods {
			out = append(out, moduleJSON{
				ID:        string(m.ID),
				Namespace: m.ID.Namespace(),
				Name:      m.ID.Name(),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
