// Package report persists analysis records as day-scoped CSV report files.
package report

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/coregx/planwatch/internal/core"
)

// Header is the column line written once when a destination is created.
const Header = "query,actualExecutionTime,queryPlan,planningTime,executionTime,startCost,endCost,params"

// absentParams is written when a record carries no parameters.
const absentParams = "undefined"

// CSVAppender appends records to <dir>/<destination>.csv. Appends are
// serialized with a mutex so concurrent records never interleave within a
// file.
type CSVAppender struct {
	dir string
	mu  sync.Mutex
}

// NewCSVAppender creates an appender writing report files under dir.
func NewCSVAppender(dir string) *CSVAppender {
	return &CSVAppender{dir: dir}
}

// Append writes one record to the destination file, creating it (and the
// report directory) with a header line on first use.
func (a *CSVAppender) Append(_ context.Context, destination string, rec core.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(a.dir, destination+".csv")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	var sb strings.Builder
	if info.Size() == 0 {
		sb.WriteString(Header)
		sb.WriteByte('\n')
	}
	sb.WriteString(formatRow(rec))

	_, err = f.WriteString(sb.String())
	return err
}

// formatRow renders one record as a CSV line. Every field is quote-wrapped
// with inner quotes doubled, so embedded commas and newlines survive intact.
// encoding/csv is not used here: it quotes only when necessary, and the
// report format requires all fields quoted.
func formatRow(rec core.Record) string {
	params := absentParams
	if rec.HasParams {
		params = rec.Params
	}

	fields := []string{
		rec.Query,
		strconv.FormatInt(rec.ActualExecutionTime, 10),
		rec.QueryPlan,
		rec.PlanningTime,
		rec.ExecutionTime,
		rec.StartCost,
		rec.EndCost,
		params,
	}

	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",") + "\n"
}
