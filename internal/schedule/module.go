package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/exafyltd/vitana-context/internal/core"
)

func init() {
	core.RegisterModule(&Module{})
}

const defaultMaxAge = 30 * 24 * time.Hour

// ModuleConfig holds YAML configuration for the retention module.
type ModuleConfig struct {
	// MaxAge is how long debug log entries are kept, as a Go duration
	// string. Defaults to 720h.
	MaxAge string `yaml:"max_age"`

	// Schedule is the 5-field cron expression for the prune job.
	Schedule string `yaml:"schedule"`
}

// Module runs the retention scheduler. It prunes the durable debug log
// when the debuglog.sqlite module is configured, and is a no-op
// otherwise.
type Module struct {
	config    ModuleConfig
	appCtx    *core.AppContext
	logger    *slog.Logger
	scheduler *Scheduler
	maxAge    time.Duration
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "schedule.retention",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	return node.Decode(&m.config)
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.appCtx = ctx
	m.logger = ctx.Logger
	m.scheduler = NewScheduler(ctx.Logger)

	m.maxAge = defaultMaxAge
	if m.config.MaxAge != "" {
		d, err := time.ParseDuration(m.config.MaxAge)
		if err != nil {
			return fmt.Errorf("schedule: invalid max_age %q: %w", m.config.MaxAge, err)
		}
		m.maxAge = d
	}
	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	if m.maxAge <= 0 {
		return fmt.Errorf("schedule: max_age must be positive, got %v", m.maxAge)
	}
	return nil
}

// Start implements core.Starter. The durable store is resolved here:
// debuglog.sqlite sorts before this module, so its service is
// registered by now if it is configured at all.
func (m *Module) Start() error {
	svc, ok := m.appCtx.Service("debuglog.store")
	if !ok {
		m.logger.Info("schedule: no durable debug log store, retention disabled")
		return nil
	}
	store, ok := svc.(Pruner)
	if !ok {
		return fmt.Errorf("schedule: debuglog.store service does not support pruning")
	}

	if err := m.scheduler.RegisterJob(&RetentionJob{
		Store:        store,
		MaxAge:       m.maxAge,
		Logger:       m.logger,
		ScheduleExpr: m.config.Schedule,
	}); err != nil {
		return err
	}
	return m.scheduler.Start()
}

// Stop implements core.Stopper.
func (m *Module) Stop(ctx context.Context) error {
	return m.scheduler.Stop(ctx)
}

// Interface guards.
var (
	_ core.Module       = (*Module)(nil)
	_ core.Configurable = (*Module)(nil)
	_ core.Provisioner  = (*Module)(nil)
	_ core.Validator    = (*Module)(nil)
	_ core.Starter      = (*Module)(nil)
	_ core.Stopper      = (*Module)(nil)
)
