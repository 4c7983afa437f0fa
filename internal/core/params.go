package core

import (
	"encoding/json"

	"github.com/coregx/planwatch/internal/analyzer"
)

// captureParams serializes the parameters that belong in the analysis record.
// Mutating statements record their bound parameters; read statements record
// the replacements map when one was supplied. Anything else leaves the
// params field absent.
func captureParams(stmt Statement, mode analyzer.ExplainMode) (string, bool) {
	switch mode {
	case analyzer.ExplainPlan:
		if len(stmt.Bind) > 0 {
			return marshalParams(stmt.Bind)
		}
	case analyzer.ExplainAnalyze:
		if len(stmt.Replacements) > 0 {
			return marshalParams(stmt.Replacements)
		}
	}
	return "", false
}

// marshalParams pretty-prints parameter values for the record.
func marshalParams(v interface{}) (string, bool) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", false
	}
	return string(b), true
}
