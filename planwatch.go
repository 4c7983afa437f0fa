// Package planwatch intercepts SQL statements issued through an execute
// capability, transparently re-runs eligible statements with an EXPLAIN
// prefix, extracts performance metrics from the plan output, and appends one
// record per analyzed statement to a day-scoped CSV report. Slow-query and
// error hooks observe the analysis path; the wrapped call's success/failure
// contract is preserved exactly.
package planwatch

import (
	"github.com/coregx/planwatch/internal/analyzer"
	"github.com/coregx/planwatch/internal/core"
	"github.com/coregx/planwatch/internal/logger"
	"github.com/coregx/planwatch/internal/report"
	"github.com/coregx/planwatch/internal/tracer"
)

type (
	// Engine owns the interception policy configured at setup.
	Engine = core.Engine
	// Option is a functional option for configuring an Engine.
	Option = core.Option
	// Statement is one statement submitted through the execute capability.
	Statement = core.Statement
	// Rows is the result of one statement execution.
	Rows = core.Rows
	// ExecuteFunc is the execute capability the engine wraps.
	ExecuteFunc = core.ExecuteFunc
	// Record is the structured outcome of analyzing one statement.
	Record = core.Record
	// Appender durably appends one Record to a destination.
	Appender = core.Appender
	// AnalyzerError is a structured failure raised inside the engine.
	AnalyzerError = core.AnalyzerError
	// ErrorKind identifies the failure site of an AnalyzerError.
	ErrorKind = core.ErrorKind
	// SlowQueryHook receives records of statements at or above the threshold.
	SlowQueryHook = core.SlowQueryHook
	// ErrorHook receives every internal AnalyzerError.
	ErrorHook = core.ErrorHook
	// ExplainOptions configures the EXPLAIN ANALYZE modifier list.
	ExplainOptions = analyzer.ExplainOptions
	// SerializeMode selects the SERIALIZE modifier of EXPLAIN ANALYZE.
	SerializeMode = analyzer.SerializeMode
	// Logger is the structured logging interface.
	Logger = logger.Logger
	// Tracer is the tracing interface for intercepted calls.
	Tracer = tracer.Tracer
)

// Error kinds.
const (
	KindExecutionFailure   = core.KindExecutionFailure
	KindExplainFailure     = core.KindExplainFailure
	KindPersistenceFailure = core.KindPersistenceFailure
	KindParseFailure       = core.KindParseFailure
)

// NotAvailable is the placeholder recorded for metrics that could not be
// extracted from the plan output.
const NotAvailable = analyzer.NotAvailable

// Serialize modes.
const (
	SerializeNone   = analyzer.SerializeNone
	SerializeText   = analyzer.SerializeText
	SerializeBinary = analyzer.SerializeBinary
)

// Re-export core functions.
var (
	NewEngine = core.NewEngine
	FromDB    = core.FromDB

	WithOptions            = core.WithOptions
	WithEnabled            = core.WithEnabled
	WithEnvironment        = core.WithEnvironment
	WithRuntimeEnvironment = core.WithRuntimeEnvironment
	WithSlowQueryThreshold = core.WithSlowQueryThreshold
	WithSlowQueryHook      = core.WithSlowQueryHook
	WithErrorHook          = core.WithErrorHook
	WithReporter           = core.WithReporter
	WithLogger             = core.WithLogger
	WithTracer             = core.WithTracer

	NewCSVAppender = report.NewCSVAppender
	NewSlogAdapter = logger.NewSlogAdapter
	NewOtelTracer  = tracer.NewOtelTracer
)

// WithReportDir directs persistence to day-scoped CSV files under dir.
func WithReportDir(dir string) Option {
	return core.WithReporter(report.NewCSVAppender(dir))
}

// Attach decorates an execute capability with statement interception.
// Records are persisted to CSV report files in the current directory unless a
// reporter option overrides the sink. The returned function replaces the
// original; the original is never mutated.
func Attach(exec ExecuteFunc, opts ...Option) ExecuteFunc {
	all := make([]Option, 0, len(opts)+1)
	all = append(all, core.WithReporter(report.NewCSVAppender(".")))
	all = append(all, opts...)
	return core.NewEngine(all...).Wrap(exec)
}
