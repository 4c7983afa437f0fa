package core

import (
	"context"
	"time"
)

// Record is the structured outcome of analyzing one statement. Every field is
// always populated: metric fields hold either a numeric string or "N/A".
// A Record is immutable once the engine hands it to a sink or hook.
type Record struct {
	// Query is the original statement as submitted.
	Query string
	// ActualExecutionTime is the wall-clock duration of the original
	// execution only, in milliseconds.
	ActualExecutionTime int64
	// QueryPlan is the concatenated plan output, empty when the statement
	// was not eligible for a plan re-run.
	QueryPlan string
	// PlanningTime is the planner time extracted from the plan, two decimals.
	PlanningTime string
	// ExecutionTime is the executor time extracted from the plan, two decimals.
	ExecutionTime string
	// StartCost is the lower bound of the planner cost range.
	StartCost string
	// EndCost is the upper bound of the planner cost range.
	EndCost string
	// Params holds the serialized bound or replacement parameters.
	// Valid only when HasParams is true.
	Params string
	// HasParams reports whether any parameters were supplied.
	HasParams bool
}

// Appender durably appends one Record to a destination. Implementations must
// support concurrent appends to the same destination without interleaving.
type Appender interface {
	Append(ctx context.Context, destination string, rec Record) error
}

// Destination derives the day-scoped report destination for a point in time.
// Records roll over to a new destination once per calendar day.
func Destination(t time.Time) string {
	return "report-" + t.Format("2006-01-02")
}
