package selection

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/exafyltd/vitana-context/internal/lexical"
)

// ConfigSource supplies the budget configuration for a selection call.
// Get must return a snapshot the engine can use for the whole call
// without observing concurrent updates.
type ConfigSource interface {
	Get() Config
}

// StaticConfig is a ConfigSource that always returns the same table.
// Handy for tests and one-shot CLI runs.
type StaticConfig Config

// Get implements ConfigSource.
func (s StaticConfig) Get() Config { return Config(s) }

// Hook observes completed selections. Hooks run synchronously on the
// calling goroutine after the result is fully built; they must not
// mutate the result.
type Hook func(req Request, res *Result)

// Engine runs the full selection pipeline: enrichment, budgeted
// admission, and desaturation. An Engine holds no per-call state and is
// safe for concurrent use; each Select call captures its own
// configuration snapshot at entry.
type Engine struct {
	configs ConfigSource
	sim     lexical.Similarity
	topics  lexical.TopicExtractor
	now     func() time.Time
	tracer  trace.Tracer
	hooks   []Hook
}

// Options configures a new Engine. Zero-value fields get the lexical
// reference strategies and the wall clock.
type Options struct {
	Configs ConfigSource
	// Similarity overrides the token-set overlap strategy.
	Similarity lexical.Similarity
	// Topics overrides the keyword topic extractor.
	Topics lexical.TopicExtractor
	// Now overrides the clock; tests inject a fixed instant for
	// byte-identical results.
	Now func() time.Time
	// Hooks observe each completed selection (debug log, metrics).
	Hooks []Hook
}

// New creates an Engine. A nil or absent ConfigSource falls back to the
// built-in default table.
func New(opts Options) *Engine {
	e := &Engine{
		configs: opts.Configs,
		sim:     opts.Similarity,
		topics:  opts.Topics,
		now:     opts.Now,
		tracer:  otel.Tracer("vitana-context/selection"),
		hooks:   opts.Hooks,
	}
	if e.configs == nil {
		e.configs = StaticConfig(DefaultConfig())
	}
	if e.sim == nil {
		e.sim = lexical.NewTokenSetSimilarity(0)
	}
	if e.topics == nil {
		e.topics = lexical.NewKeywordTopicExtractor()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Select runs one full selection: classify and score every candidate,
// admit against budgets, desaturate, and aggregate metrics. The call is
// CPU-bound, performs no I/O, and never fails — rejections are typed
// outcomes on the result, not errors. The context is used only for trace
// propagation.
func (e *Engine) Select(ctx context.Context, req Request) *Result {
	start := e.now()

	_, span := e.tracer.Start(ctx, "selection.select",
		trace.WithAttributes(
			attribute.Int("selection.candidates", len(req.Candidates)),
			attribute.Int("selection.quality", req.Quality),
		))
	defer span.End()

	cfg := e.configs.Get()

	items := enrich(req.Candidates, req.Quality, start, cfg)
	admitted, excluded := selectItems(items, cfg)
	final, satExcluded, diversity := desaturate(admitted, cfg, e.sim, e.topics)
	excluded = append(excluded, satExcluded...)

	res := &Result{
		Included:      final,
		Excluded:      excluded,
		SelectedAt:    start,
		Deterministic: true,
	}
	res.Metrics = buildMetrics(final, excluded, cfg, diversity, e.now().Sub(start))

	span.SetAttributes(
		attribute.Int("selection.included", len(final)),
		attribute.Int("selection.excluded", len(excluded)),
		attribute.Float64("selection.diversity", diversity),
	)

	for _, hook := range e.hooks {
		hook(req, res)
	}

	return res
}
