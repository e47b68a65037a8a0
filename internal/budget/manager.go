// Package budget owns the live budget configuration: validated updates,
// snapshot reads, and the partial-override merge used by operational
// tuning. The selection engine reads config exclusively through a
// Manager, so an in-flight selection always completes on the snapshot it
// captured at entry.
package budget

import (
	"fmt"
	"sync"

	"github.com/exafyltd/vitana-context/internal/selection"
)

// Manager guards the budget configuration with snapshot semantics:
// readers get a deep copy, writers swap the whole table under the lock.
type Manager struct {
	mu  sync.RWMutex
	cfg selection.Config
}

// NewManager creates a Manager seeded with cfg. Returns an error if cfg
// fails validation.
func NewManager(cfg selection.Config) (*Manager, error) {
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("budget: initial config: %w", err)
	}
	return &Manager{cfg: cfg.Clone()}, nil
}

// Get implements selection.ConfigSource: it returns a deep copy of the
// current configuration. Concurrent updates never mutate a returned copy.
func (m *Manager) Get() selection.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Clone()
}

// Update applies a shallow-merge partial override. Validation happens on
// the merged result before it becomes live; a rejected update leaves the
// previous configuration untouched. Returns the new live configuration.
func (m *Manager) Update(p Partial) (selection.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	merged := p.Apply(m.cfg.Clone())
	if err := Validate(merged); err != nil {
		return selection.Config{}, fmt.Errorf("budget: rejected update: %w", err)
	}

	m.cfg = merged
	return merged.Clone(), nil
}

// Compile-time guard: Manager feeds the engine its config snapshots.
var _ selection.ConfigSource = (*Manager)(nil)
