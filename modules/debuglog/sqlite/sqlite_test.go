package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/exafyltd/vitana-context/internal/core"
	"github.com/exafyltd/vitana-context/internal/debuglog"
	"github.com/exafyltd/vitana-context/internal/selection"
)

// openTestStore opens a migrated store on a temp database file.
func openTestStore(t *testing.T) (*entryStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "debuglog.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	db.SetMaxOpenConns(1)
	if err := migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return &entryStore{db: db}, path
}

func testEntry(id string, at time.Time) debuglog.Entry {
	return debuglog.Entry{
		ID:          id,
		RecordedAt:  at,
		TurnID:      "turn-1",
		UserID:      "user-1",
		TenantID:    "tenant-1",
		IncludedIDs: []string{"c1", "c2"},
		Metrics: selection.Metrics{
			TotalItems: 2,
			TotalChars: 40,
			Exclusions: map[selection.ExclusionReason]int{
				selection.ReasonDomainCap: 1,
			},
		},
	}
}

func TestStore_AppendRecentRoundtrip(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// ULIDs sort lexicographically by creation time; fabricate ids that
	// preserve that property.
	for i, id := range []string{"01AAAA", "01BBBB", "01CCCC"} {
		if err := store.Append(testEntry(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}

	got, err := store.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].ID != "01CCCC" || got[1].ID != "01BBBB" {
		t.Errorf("order = %s, %s; want newest first", got[0].ID, got[1].ID)
	}

	e := got[0]
	if e.TurnID != "turn-1" || e.UserID != "user-1" || e.TenantID != "tenant-1" {
		t.Errorf("identity fields lost: %+v", e)
	}
	if len(e.IncludedIDs) != 2 || e.IncludedIDs[0] != "c1" {
		t.Errorf("included ids = %v", e.IncludedIDs)
	}
	if e.Metrics.TotalItems != 2 || e.Metrics.TotalChars != 40 {
		t.Errorf("metrics lost: %+v", e.Metrics)
	}
	if e.Exclusions[selection.ReasonDomainCap] != 1 {
		t.Errorf("exclusions = %v", e.Exclusions)
	}
	if !e.RecordedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("recorded_at = %v", e.RecordedAt)
	}
}

func TestStore_AppendIdempotent(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	e := testEntry("01AAAA", time.Now().UTC())

	if err := store.Append(e); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(e); err != nil {
		t.Fatalf("re-append same id: %v", err)
	}

	n, err := store.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("len = %d, want 1", n)
	}
}

func TestStore_Prune(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"01AAAA", "01BBBB", "01CCCC", "01DDDD"} {
		if err := store.Append(testEntry(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	pruned, err := store.Prune(base.Add(2 * time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 2 {
		t.Errorf("pruned = %d, want 2", pruned)
	}

	got, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("remaining = %d, want 2", len(got))
	}
	for _, e := range got {
		if e.RecordedAt.Before(base.Add(2 * time.Hour)) {
			t.Errorf("entry %s survived prune at %v", e.ID, e.RecordedAt)
		}
	}
}

func TestStore_RecentZeroLimit(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	got, err := store.Recent(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()

	store, path := openTestStore(t)
	if err := store.Append(testEntry("01AAAA", time.Now().UTC())); err != nil {
		t.Fatal(err)
	}

	// Re-open the same file; migrate must be a no-op and data must survive.
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	if err := migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	reopened := &entryStore{db: db}
	n, err := reopened.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("len after reopen = %d, want 1", n)
	}
}

func TestCountByReason(t *testing.T) {
	t.Parallel()

	entries := []debuglog.Entry{
		{Exclusions: map[selection.ExclusionReason]int{selection.ReasonDomainCap: 2}},
		{Exclusions: map[selection.ExclusionReason]int{
			selection.ReasonDomainCap: 1,
			selection.ReasonRedundant: 3,
		}},
	}

	got := countByReason(entries)
	if got[selection.ReasonDomainCap] != 3 {
		t.Errorf("domain cap = %d, want 3", got[selection.ReasonDomainCap])
	}
	if got[selection.ReasonRedundant] != 3 {
		t.Errorf("redundant = %d, want 3", got[selection.ReasonRedundant])
	}
}

func TestModule_ProvisionRegistersServices(t *testing.T) {
	t.Parallel()

	appCtx := core.NewAppContext(slog.Default(), t.TempDir())

	var node yaml.Node
	if err := yaml.Unmarshal([]byte("busy_timeout: 2000\n"), &node); err != nil {
		t.Fatal(err)
	}

	m := &Module{}
	if err := m.Configure(&node); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := m.Provision(appCtx); err != nil {
		t.Fatalf("provision: %v", err)
	}
	t.Cleanup(func() { _ = m.Stop(context.Background()) })

	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	sinkSvc, ok := appCtx.Service("debuglog.sink")
	if !ok {
		t.Fatal("debuglog.sink not registered")
	}
	sink, ok := sinkSvc.(debuglog.Sink)
	if !ok {
		t.Fatalf("debuglog.sink has type %T", sinkSvc)
	}
	if err := sink.Append(testEntry("01AAAA", time.Now().UTC())); err != nil {
		t.Fatalf("append through service: %v", err)
	}

	if _, ok := appCtx.Service("debuglog.store"); !ok {
		t.Fatal("debuglog.store not registered")
	}

	if m.config.Path != filepath.Join(appCtx.DataDir, defaultDBFile) {
		t.Errorf("default path = %q", m.config.Path)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	c := Config{BusyTimeout: -1}
	if err := c.validate(); err == nil {
		t.Fatal("negative busy_timeout accepted")
	}
}
