// Package gateway provides the HTTP surface of vitana-context: the
// selection endpoint, budget administration, the debug log, and
// monitoring. It binds to loopback by default and follows the module
// system pattern. It is a leaf module — nothing imports it.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/exafyltd/vitana-context/internal/budget"
	"github.com/exafyltd/vitana-context/internal/core"
	"github.com/exafyltd/vitana-context/internal/debuglog"
	"github.com/exafyltd/vitana-context/internal/render"
	"github.com/exafyltd/vitana-context/internal/selection"
	"github.com/exafyltd/vitana-context/internal/telemetry"
)

func init() {
	core.RegisterModule(&Gateway{})
}

// Gateway is the HTTP gateway module.
type Gateway struct {
	config    Config
	appCtx    *core.AppContext
	logger    *slog.Logger
	server    *http.Server
	metrics   *Metrics
	startedAt time.Time

	// Resolved lazily at Start() via service registry.
	engine   *selection.Engine
	manager  *budget.Manager
	ring     *debuglog.Ring
	hub      *debuglog.Hub
	renderer *render.Renderer
	prom     *telemetry.Metrics
}

// ModuleInfo implements core.Module.
func (g *Gateway) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "gateway.http",
		New: func() core.Module { return &Gateway{} },
	}
}

// Configure implements core.Configurable.
func (g *Gateway) Configure(node *yaml.Node) error {
	if err := node.Decode(&g.config); err != nil {
		return err
	}
	g.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (g *Gateway) Provision(ctx *core.AppContext) error {
	g.appCtx = ctx
	g.logger = ctx.Logger
	g.metrics = &Metrics{}

	ctx.RegisterService("gateway.metrics", g.metrics)
	return nil
}

// Validate implements core.Validator.
func (g *Gateway) Validate() error {
	if _, err := net.ResolveTCPAddr("tcp", g.config.Bind); err != nil {
		return errors.New("gateway: invalid bind address: " + g.config.Bind)
	}
	return nil
}

// resolveServices binds the engine-module services. Kept separate from
// Start so tests can exercise the router without a listener.
func (g *Gateway) resolveServices() error {
	svc, ok := g.appCtx.Service("engine.selection")
	if !ok {
		return errors.New("gateway: engine.selection service not registered")
	}
	g.engine = svc.(*selection.Engine)

	if svc, ok := g.appCtx.Service("budget.manager"); ok {
		g.manager = svc.(*budget.Manager)
	}
	if svc, ok := g.appCtx.Service("debuglog.ring"); ok {
		g.ring = svc.(*debuglog.Ring)
	}
	if svc, ok := g.appCtx.Service("debuglog.hub"); ok {
		g.hub = svc.(*debuglog.Hub)
	}
	if svc, ok := g.appCtx.Service("render.renderer"); ok {
		g.renderer = svc.(*render.Renderer)
	}
	if svc, ok := g.appCtx.Service("telemetry.metrics"); ok {
		g.prom = svc.(*telemetry.Metrics)
	}
	return nil
}

// Start implements core.Starter. It resolves dependencies from the
// service registry and starts the HTTP server.
func (g *Gateway) Start() error {
	if err := g.resolveServices(); err != nil {
		return err
	}

	g.startedAt = time.Now()

	mux := g.buildRouter()

	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      mux,
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Bind)
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop implements core.Stopper. Graceful shutdown with configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}

// Interface guards.
var (
	_ core.Module       = (*Gateway)(nil)
	_ core.Configurable = (*Gateway)(nil)
	_ core.Provisioner  = (*Gateway)(nil)
	_ core.Validator    = (*Gateway)(nil)
	_ core.Starter      = (*Gateway)(nil)
	_ core.Stopper      = (*Gateway)(nil)
)
