package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/exafyltd/vitana-context/internal/selection"
)

// maxSelectBody caps the request body; candidate sets are bounded by
// upstream retrieval and never legitimately reach this size.
const maxSelectBody = 4 << 20

// SelectResponse is the JSON response for POST /v1/select. Rendered is
// present only when ?render=1 is given.
type SelectResponse struct {
	*selection.Result
	Rendered string `json:"rendered,omitempty"`
}

// handleSelect runs one selection over the posted candidate set.
func (g *Gateway) handleSelect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var req selection.Request
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSelectBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			g.metrics.RecordError()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
			return
		}
		if req.Quality < 0 || req.Quality > 100 {
			g.metrics.RecordError()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quality must be in [0,100]"})
			return
		}
		for i, c := range req.Candidates {
			if c.ID == "" {
				g.metrics.RecordError()
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("candidates[%d]: id is required", i)})
				return
			}
		}

		res := g.engine.Select(r.Context(), req)
		g.metrics.RecordSelection(len(res.Included), time.Since(start))

		resp := SelectResponse{Result: res}
		if r.URL.Query().Get("render") == "1" && g.renderer != nil {
			resp.Rendered = g.renderer.Render(res)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
