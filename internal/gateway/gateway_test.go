package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/exafyltd/vitana-context/internal/budget"
	"github.com/exafyltd/vitana-context/internal/debuglog"
	"github.com/exafyltd/vitana-context/internal/render"
	"github.com/exafyltd/vitana-context/internal/selection"
	"github.com/exafyltd/vitana-context/internal/telemetry"
)

// newTestGateway builds a fully wired Gateway without the module
// lifecycle or a listener.
func newTestGateway(t *testing.T, auth AuthConfig) *Gateway {
	t.Helper()

	manager, err := budget.NewManager(selection.DefaultConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	cfg := Config{Auth: auth}
	cfg.defaults()

	return &Gateway{
		config:    cfg,
		logger:    slog.Default(),
		metrics:   &Metrics{},
		startedAt: time.Now(),
		engine:    selection.New(selection.Options{Configs: manager}),
		manager:   manager,
		ring:      debuglog.NewRing(10),
		hub:       debuglog.NewHub(),
		renderer:  &render.Renderer{},
		prom:      telemetry.NewMetrics(),
	}
}

func adminAuth() AuthConfig {
	return AuthConfig{BearerToken: "test-token"}
}

func doJSON(t *testing.T, handler http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestSelect_Basic(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, AuthConfig{})
	handler := g.buildRouter()

	body := `{
		"quality": 70,
		"turn_id": "t1",
		"candidates": [
			{"id": "a", "domain": "personal", "content": "name is Ada", "importance": 80, "occurred_at": "2026-03-10T10:00:00Z"},
			{"id": "b", "domain": "health", "content": "allergic to penicillin", "importance": 90, "occurred_at": "2026-03-10T10:00:00Z"}
		]
	}`
	rr := doJSON(t, handler, http.MethodPost, "/v1/select", body, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var resp SelectResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Included) != 2 {
		t.Errorf("included = %d, want 2", len(resp.Included))
	}
	if !resp.Deterministic {
		t.Error("deterministic flag not set")
	}
	if resp.Rendered != "" {
		t.Error("rendered present without ?render=1")
	}
	if g.metrics.Snapshot().Selections != 1 {
		t.Error("selection counter not incremented")
	}
}

func TestSelect_Rendered(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, AuthConfig{})
	handler := g.buildRouter()

	body := `{
		"quality": 70,
		"candidates": [
			{"id": "a", "domain": "personal", "content": "name is Ada", "importance": 80, "occurred_at": "2026-03-10T10:00:00Z"}
		]
	}`
	rr := doJSON(t, handler, http.MethodPost, "/v1/select?render=1", body, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var resp SelectResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Rendered, "name is Ada") {
		t.Errorf("rendered block missing content:\n%s", resp.Rendered)
	}
}

func TestSelect_BadRequests(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, AuthConfig{})
	handler := g.buildRouter()

	tests := []struct {
		name string
		body string
	}{
		{"invalid_json", `{`},
		{"unknown_field", `{"bogus": 1}`},
		{"quality_out_of_range", `{"quality": 150, "candidates": []}`},
		{"missing_candidate_id", `{"quality": 50, "candidates": [{"domain": "notes", "content": "x"}]}`},
	}
	for _, tt := range tests {
		rr := doJSON(t, handler, http.MethodPost, "/v1/select", tt.body, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400; body: %s", tt.name, rr.Code, rr.Body.String())
		}
	}

	if g.metrics.Snapshot().Errors != int64(len(tests)) {
		t.Errorf("error counter = %d, want %d", g.metrics.Snapshot().Errors, len(tests))
	}
}

func TestBudget_GetAndPatch(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, adminAuth())
	handler := g.buildRouter()

	rr := doJSON(t, handler, http.MethodGet, "/v1/config", "", "test-token")
	if rr.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rr.Code)
	}
	var cfg selection.Config
	if err := json.Unmarshal(rr.Body.Bytes(), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.TotalItems != selection.DefaultConfig().TotalItems {
		t.Errorf("total items = %d", cfg.TotalItems)
	}

	rr = doJSON(t, handler, http.MethodPatch, "/v1/config", `{"total_items": 5}`, "test-token")
	if rr.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d, body: %s", rr.Code, rr.Body.String())
	}
	if g.manager.Get().TotalItems != 5 {
		t.Errorf("live total_items = %d, want 5", g.manager.Get().TotalItems)
	}
}

func TestBudget_PatchRejectsInvalid(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, adminAuth())
	handler := g.buildRouter()

	before := g.manager.Get().TotalItems
	rr := doJSON(t, handler, http.MethodPatch, "/v1/config", `{"total_items": -2}`, "test-token")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if g.manager.Get().TotalItems != before {
		t.Error("rejected patch changed the live config")
	}
}

func TestAdminRoutes_RequireAuth(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, adminAuth())
	handler := g.buildRouter()

	for _, path := range []string{"/status", "/v1/config", "/v1/log", "/v1/modules"} {
		rr := doJSON(t, handler, http.MethodGet, path, "", "")
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without auth: status = %d, want 401", path, rr.Code)
		}
	}

	// /health and /v1/select stay public.
	rr := doJSON(t, handler, http.MethodGet, "/health", "", "")
	if rr.Code != http.StatusOK {
		t.Errorf("GET /health: status = %d, want 200", rr.Code)
	}
}

func TestAdminRoutes_NotMountedWithoutAuth(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, AuthConfig{})
	handler := g.buildRouter()

	rr := doJSON(t, handler, http.MethodGet, "/v1/config", "", "")
	if rr.Code == http.StatusOK {
		t.Errorf("unauthenticated deployment exposes /v1/config: status = %d", rr.Code)
	}
}

func TestLogSnapshot(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, adminAuth())
	_ = g.ring.Append(debuglog.Entry{ID: "e1"})
	_ = g.ring.Append(debuglog.Entry{ID: "e2"})
	handler := g.buildRouter()

	rr := doJSON(t, handler, http.MethodGet, "/v1/log", "", "test-token")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var entries []debuglog.Entry
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].ID != "e1" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestListModules(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, adminAuth())
	handler := g.buildRouter()

	rr := doJSON(t, handler, http.MethodGet, "/v1/modules", "", "test-token")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	// gateway.http registers itself via init, so the list is never empty.
	if !strings.Contains(rr.Body.String(), "gateway.http") {
		t.Errorf("module list missing gateway.http: %s", rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, AuthConfig{})
	handler := g.buildRouter()

	rr := doJSON(t, handler, http.MethodGet, "/metrics", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Error("prometheus exposition missing runtime collectors")
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, adminAuth())
	_ = g.ring.Append(debuglog.Entry{ID: "e1"})
	handler := g.buildRouter()

	rr := doJSON(t, handler, http.MethodGet, "/status", "", "test-token")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp StatusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.LogEntries != 1 {
		t.Errorf("log entries = %d, want 1", resp.LogEntries)
	}
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.defaults()
	if cfg.Bind != "127.0.0.1:8420" {
		t.Errorf("bind = %q", cfg.Bind)
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		t.Error("timeouts not defaulted")
	}
}
