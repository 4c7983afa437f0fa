// Package analyzer classifies SQL statements for plan analysis and extracts
// performance metrics from textual EXPLAIN output.
package analyzer

import (
	"regexp"
	"strings"
)

// ExplainMode indicates the type of EXPLAIN operation selected for a statement.
type ExplainMode int

const (
	// ExplainNone indicates the statement must not be analyzed at all.
	ExplainNone ExplainMode = iota
	// ExplainPlan indicates EXPLAIN without execution (estimates only).
	// Mutating statements always get this mode: the original statement has
	// already run once, and a plan-only re-run guarantees no second write.
	ExplainPlan
	// ExplainAnalyze indicates EXPLAIN with execution (actual metrics).
	ExplainAnalyze
)

// SerializeMode selects the SERIALIZE modifier of EXPLAIN ANALYZE.
type SerializeMode string

const (
	// SerializeNone omits the SERIALIZE modifier.
	SerializeNone SerializeMode = ""
	// SerializeText requests SERIALIZE TEXT.
	SerializeText SerializeMode = "TEXT"
	// SerializeBinary requests SERIALIZE BINARY.
	SerializeBinary SerializeMode = "BINARY"
)

// ExplainOptions configures the modifier list of an EXPLAIN ANALYZE request.
// Options are fixed at engine setup and immutable afterwards.
type ExplainOptions struct {
	Verbose   bool
	Costs     bool
	Settings  bool
	Buffers   bool
	Serialize SerializeMode
	WAL       bool
	Timing    bool
	Summary   bool
}

var (
	// CALL is matched case-sensitively: lowercase "call" in identifiers or
	// strings must not suppress analysis.
	callPattern = regexp.MustCompile(`\bCALL\b`)

	mutatingPattern = regexp.MustCompile(`(?i)\b(UPDATE|DELETE|INSERT)\b`)
)

// Classify decides which analysis mode applies to a statement.
// Procedure calls are never analyzed; mutating statements get a plan-only
// EXPLAIN; everything else gets full EXPLAIN ANALYZE.
func Classify(query string) ExplainMode {
	if callPattern.MatchString(query) {
		return ExplainNone
	}
	if mutatingPattern.MatchString(query) {
		return ExplainPlan
	}
	return ExplainAnalyze
}

// Rewrite prefixes a statement with the analysis request for the given mode.
// For ExplainAnalyze the modifier list starts with ANALYZE and appends one
// token per enabled option, comma-joined, in a fixed order.
// Rewrite returns the query unchanged for ExplainNone.
func Rewrite(query string, mode ExplainMode, opts ExplainOptions) string {
	switch mode {
	case ExplainPlan:
		return "EXPLAIN " + query
	case ExplainAnalyze:
		modifiers := []string{"ANALYZE"}
		if opts.Verbose {
			modifiers = append(modifiers, "VERBOSE")
		}
		if opts.Costs {
			modifiers = append(modifiers, "COSTS")
		}
		if opts.Settings {
			modifiers = append(modifiers, "SETTINGS")
		}
		if opts.Buffers {
			modifiers = append(modifiers, "BUFFERS")
		}
		if opts.Serialize != SerializeNone {
			modifiers = append(modifiers, "SERIALIZE "+string(opts.Serialize))
		}
		if opts.WAL {
			modifiers = append(modifiers, "WAL")
		}
		if opts.Timing {
			modifiers = append(modifiers, "TIMING")
		}
		if opts.Summary {
			modifiers = append(modifiers, "SUMMARY")
		}
		return "EXPLAIN (" + strings.Join(modifiers, ", ") + ") " + query
	default:
		return query
	}
}

// bypassKeywords are statement prefixes the engine must pass through
// untouched: analysis requests themselves and transaction control.
var bypassKeywords = []string{"EXPLAIN", "START", "ROLLBACK", "COMMIT"}

// Bypassed reports whether a statement must skip interception entirely.
// Analysis requests are skipped to avoid infinite recursion; transaction
// control carries no plan worth analyzing.
func Bypassed(query string) bool {
	q := strings.TrimSpace(query)
	for _, kw := range bypassKeywords {
		if strings.HasPrefix(q, kw) {
			return true
		}
	}
	return false
}
