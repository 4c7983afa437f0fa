package core

import (
	"context"
	"os"
	"time"

	"github.com/coregx/planwatch/internal/analyzer"
	"github.com/coregx/planwatch/internal/logger"
	"github.com/coregx/planwatch/internal/tracer"
)

// defaultSlowQueryThreshold applies when no threshold is configured.
const defaultSlowQueryThreshold = 1000 * time.Millisecond

// Engine owns the per-call interception policy. All configuration is captured
// at construction and read-only afterwards, so a single Engine serves
// concurrent calls without locking.
type Engine struct {
	explainOpts analyzer.ExplainOptions

	// enabled is tri-state: explicit true/false overrides the environment
	// comparison; nil falls back to environment gating, default-on.
	enabled     *bool
	environment string
	runtimeEnv  string

	threshold   time.Duration
	onSlowQuery SlowQueryHook
	onError     ErrorHook

	reporter  Appender
	log       logger.Logger
	sanitizer *logger.Sanitizer
	tracer    tracer.Tracer
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithOptions sets the EXPLAIN ANALYZE modifier options.
func WithOptions(opts analyzer.ExplainOptions) Option {
	return func(e *Engine) { e.explainOpts = opts }
}

// WithEnabled forces analysis on or off, overriding environment gating.
func WithEnabled(enabled bool) Option {
	return func(e *Engine) { e.enabled = &enabled }
}

// WithEnvironment restricts analysis to runs where the runtime environment
// equals env. Ignored when WithEnabled was given.
func WithEnvironment(env string) Option {
	return func(e *Engine) { e.environment = env }
}

// WithRuntimeEnvironment overrides the current runtime environment string,
// which defaults to $APP_ENV.
func WithRuntimeEnvironment(env string) Option {
	return func(e *Engine) { e.runtimeEnv = env }
}

// WithSlowQueryThreshold sets the duration at or above which the slow-query
// hook fires. The threshold is observational only, not a deadline.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(e *Engine) { e.threshold = d }
}

// WithSlowQueryHook sets the slow-query callback.
func WithSlowQueryHook(hook SlowQueryHook) Option {
	return func(e *Engine) { e.onSlowQuery = hook }
}

// WithErrorHook sets the callback receiving every internal AnalyzerError.
func WithErrorHook(hook ErrorHook) Option {
	return func(e *Engine) { e.onError = hook }
}

// WithReporter sets the sink that persists analysis records. Without a
// reporter, records are still built for the slow-query hook but not persisted.
func WithReporter(a Appender) Option {
	return func(e *Engine) { e.reporter = a }
}

// WithLogger sets the structured logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithTracer sets the tracer used to span analyzed calls.
func WithTracer(t tracer.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// NewEngine creates an Engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		runtimeEnv: os.Getenv("APP_ENV"),
		threshold:  defaultSlowQueryThreshold,
		log:        &logger.NoopLogger{},
		sanitizer:  logger.NewSanitizer(nil),
		tracer:     &tracer.NoopTracer{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// analysisEnabled applies the gating policy: an explicit enabled flag wins;
// otherwise a configured environment must match the runtime environment;
// otherwise analysis is on.
func (e *Engine) analysisEnabled() bool {
	if e.enabled != nil {
		return *e.enabled
	}
	if e.environment != "" {
		return e.runtimeEnv == e.environment
	}
	return true
}

// Wrap decorates an execute capability with interception and analysis.
// The returned function preserves the original success/failure contract
// exactly: analysis is best effort and invisible apart from added latency.
func (e *Engine) Wrap(exec ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, stmt Statement) (Rows, error) {
		if !e.analysisEnabled() || analyzer.Bypassed(stmt.Query) {
			return exec(ctx, stmt)
		}

		ctx, span := e.tracer.StartSpan(ctx, "planwatch.execute")
		defer span.End()

		start := time.Now()
		rows, err := exec(ctx, stmt)
		elapsed := time.Since(start)

		tracer.AddQueryAttributes(span, &tracer.QueryMetadata{
			SQL:       stmt.Query,
			Args:      stmt.Bind,
			Duration:  elapsed,
			Error:     err,
			Operation: tracer.DetectOperation(stmt.Query),
		})

		if err != nil {
			e.reportError(ctx, newAnalyzerError(KindExecutionFailure, stmt.Query, err))
			return rows, err
		}

		rec := e.analyze(ctx, exec, stmt, elapsed)
		e.persist(ctx, rec)

		if e.onSlowQuery != nil && rec.ActualExecutionTime >= e.threshold.Milliseconds() {
			e.log.Warn("slow query detected",
				"sql", rec.Query,
				"duration_ms", rec.ActualExecutionTime,
				"threshold_ms", e.threshold.Milliseconds(),
			)
			e.onSlowQuery(ctx, rec)
		}

		return rows, nil
	}
}

// analyze runs the failure-isolated analysis sub-path and always returns a
// complete record: when the plan re-run fails or the statement is not
// eligible, the record keeps an empty plan and "N/A" metrics.
func (e *Engine) analyze(ctx context.Context, exec ExecuteFunc, stmt Statement, elapsed time.Duration) Record {
	rec := Record{
		Query:               stmt.Query,
		ActualExecutionTime: elapsed.Milliseconds(),
		PlanningTime:        analyzer.NotAvailable,
		ExecutionTime:       analyzer.NotAvailable,
		StartCost:           analyzer.NotAvailable,
		EndCost:             analyzer.NotAvailable,
	}

	mode := analyzer.Classify(stmt.Query)
	rec.Params, rec.HasParams = captureParams(stmt, mode)
	if mode == analyzer.ExplainNone {
		return rec
	}

	explainStmt := stmt
	explainStmt.Query = analyzer.Rewrite(stmt.Query, mode, e.explainOpts)
	if mode == analyzer.ExplainAnalyze && len(stmt.Replacements) > 0 {
		explainStmt.Raw = true
	}

	rows, err := exec(ctx, explainStmt)
	if err != nil {
		e.reportError(ctx, newAnalyzerError(KindExplainFailure, stmt.Query, err))
		return rec
	}

	lines := planLines(rows)
	rec.QueryPlan = analyzer.PlanText(lines)
	metrics := analyzer.Extract(lines)
	rec.PlanningTime = metrics.PlanningTime
	rec.ExecutionTime = metrics.ExecutionTime
	rec.StartCost = metrics.StartCost
	rec.EndCost = metrics.EndCost

	logArgs := []any{
		"sql", stmt.Query,
		"params", e.sanitizer.FormatParams(e.sanitizer.MaskParams(stmt.Query, stmt.Bind)),
		"duration_ms", rec.ActualExecutionTime,
		"start_cost", rec.StartCost,
		"end_cost", rec.EndCost,
	}
	if len(stmt.Replacements) > 0 {
		logArgs = append(logArgs, "replacements", e.sanitizer.MaskNamed(stmt.Replacements))
	}
	e.log.Debug("statement analyzed", logArgs...)

	return rec
}

// persist appends the record to the current day's destination. Persistence
// failures are reported and swallowed.
func (e *Engine) persist(ctx context.Context, rec Record) {
	if e.reporter == nil {
		return
	}
	dest := Destination(time.Now())
	if err := e.reporter.Append(ctx, dest, rec); err != nil {
		e.reportError(ctx, newAnalyzerError(KindPersistenceFailure, rec.Query, err))
	}
}
