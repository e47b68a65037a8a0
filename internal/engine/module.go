// Package engine hosts the engine.selection module: it owns the
// selection engine, the live budget configuration, and the debug
// instrumentation around every selection call.
package engine

import (
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/exafyltd/vitana-context/internal/budget"
	"github.com/exafyltd/vitana-context/internal/core"
	"github.com/exafyltd/vitana-context/internal/debuglog"
	"github.com/exafyltd/vitana-context/internal/lexical"
	"github.com/exafyltd/vitana-context/internal/render"
	"github.com/exafyltd/vitana-context/internal/selection"
	"github.com/exafyltd/vitana-context/internal/telemetry"
)

func init() {
	core.RegisterModule(&Module{})
}

// ModuleConfig holds YAML configuration for the selection engine module.
type ModuleConfig struct {
	// RingSize bounds the in-memory debug log.
	RingSize int `yaml:"ring_size"`

	// MinTokenLen is the shortest token the similarity measure keeps.
	MinTokenLen int `yaml:"min_token_len"`

	// RenderMaxLen caps per-item content in rendered prompt blocks.
	RenderMaxLen int `yaml:"render_max_len"`

	// Budget overrides applied on top of the default budget table.
	Budget budget.Partial `yaml:"budget"`
}

// Module wires the selection engine and its collaborators, and exposes
// them as services for the gateway and scheduler.
type Module struct {
	config  ModuleConfig
	logger  *slog.Logger
	manager *budget.Manager
	engine  *selection.Engine
	ring    *debuglog.Ring
	hub     *debuglog.Hub
	metrics *telemetry.Metrics
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "engine.selection",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	return node.Decode(&m.config)
}

// Provision implements core.Provisioner. It builds the engine and
// registers the services other modules consume.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.logger = ctx.Logger

	manager, err := budget.NewManager(m.config.Budget.Apply(selection.DefaultConfig()))
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	m.manager = manager

	m.ring = debuglog.NewRing(m.config.RingSize)
	m.hub = debuglog.NewHub()
	m.metrics = telemetry.NewMetrics()

	// The durable sink is optional: debuglog.sqlite sorts before this
	// module, so if it is configured its service is already registered.
	var sink debuglog.Sink
	if svc, ok := ctx.Service("debuglog.sink"); ok {
		sink = svc.(debuglog.Sink)
	}

	m.engine = selection.New(selection.Options{
		Configs:    m.manager,
		Similarity: lexical.NewTokenSetSimilarity(m.config.MinTokenLen),
		Topics:     lexical.NewKeywordTopicExtractor(),
		Hooks:      []selection.Hook{m.observe(sink)},
	})

	ctx.RegisterService("engine.selection", m.engine)
	ctx.RegisterService("budget.manager", m.manager)
	ctx.RegisterService("debuglog.ring", m.ring)
	ctx.RegisterService("debuglog.hub", m.hub)
	ctx.RegisterService("telemetry.metrics", m.metrics)
	ctx.RegisterService("render.renderer", &render.Renderer{MaxContentLen: m.config.RenderMaxLen})

	return nil
}

// observe builds the post-selection hook: debug log fan-out, metrics,
// and a warning when the final set lacks diversity.
func (m *Module) observe(sink debuglog.Sink) selection.Hook {
	return func(req selection.Request, res *selection.Result) {
		entry := debuglog.NewEntry(req, res)
		_ = m.ring.Append(entry)
		m.hub.Publish(entry)
		if sink != nil {
			if err := sink.Append(entry); err != nil {
				m.logger.Error("debug log sink append failed", "error", err)
			}
		}

		m.metrics.Record(res)
		if res.Metrics.BelowMinDiversity {
			m.logger.Warn("selection diversity below configured minimum",
				"diversity", res.Metrics.Diversity,
				"items", res.Metrics.TotalItems,
				"turn_id", req.TurnID)
		}
	}
}

// Engine returns the provisioned selection engine.
func (m *Module) Engine() *selection.Engine { return m.engine }

// Interface guards.
var (
	_ core.Module       = (*Module)(nil)
	_ core.Configurable = (*Module)(nil)
	_ core.Provisioner  = (*Module)(nil)
)
