package core

import "time"

// ErrorKind identifies the failure site of an AnalyzerError.
type ErrorKind string

const (
	// KindExecutionFailure means the original statement failed. This is the
	// only kind re-raised to the caller.
	KindExecutionFailure ErrorKind = "execution_failure"
	// KindExplainFailure means the analysis re-invocation failed. Non-fatal.
	KindExplainFailure ErrorKind = "explain_failure"
	// KindPersistenceFailure means the record write failed. Non-fatal.
	KindPersistenceFailure ErrorKind = "persistence_failure"
	// KindParseFailure is reserved for plan extraction errors. Extraction
	// currently degrades to "N/A" instead of producing it; the kind exists
	// so hook consumers can switch exhaustively.
	KindParseFailure ErrorKind = "parse_failure"
)

// kindMessages maps each kind to its fixed message.
var kindMessages = map[ErrorKind]string{
	KindExecutionFailure:   "query execution failed",
	KindExplainFailure:     "explain analysis failed",
	KindPersistenceFailure: "failed to persist analysis record",
	KindParseFailure:       "failed to parse plan output",
}

// AnalyzerError is a structured failure raised inside the engine. It carries
// the statement it relates to and the original cause, and is never mutated
// or retried after creation.
type AnalyzerError struct {
	Kind      ErrorKind
	Message   string
	Query     string
	Cause     error
	Timestamp time.Time
}

func newAnalyzerError(kind ErrorKind, query string, cause error) *AnalyzerError {
	return &AnalyzerError{
		Kind:      kind,
		Message:   kindMessages[kind],
		Query:     query,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// Error returns the fixed message followed by the original cause.
func (e *AnalyzerError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// Unwrap returns the original cause for errors.Is and errors.As.
func (e *AnalyzerError) Unwrap() error {
	return e.Cause
}
