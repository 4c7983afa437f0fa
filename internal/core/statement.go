// Package core implements the statement interception engine: it wraps an
// execute capability, times every call, re-runs eligible statements with a
// plan-analysis prefix and routes the outcome to a report sink and hooks.
package core

import (
	"context"
	"database/sql"
	"fmt"
)

// Statement is one statement submitted through the execute capability.
type Statement struct {
	// Query is the SQL text.
	Query string
	// Bind holds positional bound parameters.
	Bind []interface{}
	// Replacements holds named replacement values, if the caller uses them.
	Replacements map[string]interface{}
	// Raw marks the statement as a raw passthrough call. The engine sets it
	// on analysis re-invocations of read statements that carry replacements.
	Raw bool
}

// Rows is the result of one statement execution: one slice of column values
// per row. Plan-analysis output arrives as one text column per row.
type Rows [][]interface{}

// ExecuteFunc is the execute capability the engine wraps. It may fail; the
// engine never retries it.
type ExecuteFunc func(ctx context.Context, stmt Statement) (Rows, error)

// FromDB adapts a database/sql connection into an ExecuteFunc.
func FromDB(db *sql.DB) ExecuteFunc {
	return func(ctx context.Context, stmt Statement) (Rows, error) {
		rows, err := db.QueryContext(ctx, stmt.Query, stmt.Bind...)
		if err != nil {
			return nil, err
		}
		defer func() { _ = rows.Close() }()

		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}

		var out Rows
		for rows.Next() {
			values := make([]interface{}, len(cols))
			ptrs := make([]interface{}, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return nil, err
			}
			for i, v := range values {
				if b, ok := v.([]byte); ok {
					values[i] = string(b)
				}
			}
			out = append(out, values)
		}
		return out, rows.Err()
	}
}

// planLines renders the first column of each row as one plan-output line.
func planLines(rows Rows) []string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		switch v := row[0].(type) {
		case string:
			lines = append(lines, v)
		default:
			lines = append(lines, fmt.Sprintf("%v", v))
		}
	}
	return lines
}
