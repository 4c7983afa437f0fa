package core

import "context"

// SlowQueryHook is invoked with the analysis record whenever the original
// execution took at least the configured threshold, regardless of whether
// persistence or the plan re-run succeeded.
type SlowQueryHook func(ctx context.Context, rec Record)

// ErrorHook is invoked for every AnalyzerError raised internally. Errors
// handed to the hook are non-fatal; only execution failures also reach the
// caller, through the normal return path.
type ErrorHook func(ctx context.Context, err *AnalyzerError)

// reportError logs an internal failure and hands it to the error hook.
func (e *Engine) reportError(ctx context.Context, aerr *AnalyzerError) {
	e.log.Error(aerr.Message,
		"kind", string(aerr.Kind),
		"sql", aerr.Query,
		"error", aerr.Cause,
	)
	if e.onError != nil {
		e.onError(ctx, aerr)
	}
}
