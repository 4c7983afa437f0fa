//go:build integration
// +build integration

package test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coregx/planwatch"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportPath(dir string) string {
	return filepath.Join(dir, "report-"+time.Now().Format("2006-01-02")+".csv")
}

func TestPostgresEndToEnd(t *testing.T) {
	setup := SetupPostgreSQLTestDB(t)
	defer setup.Close()

	ctx := context.Background()
	CreateOrdersTable(t, setup.DB, setup.Dialect)
	SeedOrders(t, setup.DB, setup.Dialect, 50)

	dir := t.TempDir()
	var analyzerErrs []*planwatch.AnalyzerError
	var slowRecords []planwatch.Record

	wrapped := planwatch.Attach(planwatch.FromDB(setup.DB),
		planwatch.WithReportDir(dir),
		planwatch.WithOptions(planwatch.ExplainOptions{
			Verbose: true,
			Buffers: true,
			Summary: true,
		}),
		planwatch.WithSlowQueryThreshold(0),
		planwatch.WithSlowQueryHook(func(_ context.Context, rec planwatch.Record) {
			slowRecords = append(slowRecords, rec)
		}),
		planwatch.WithErrorHook(func(_ context.Context, err *planwatch.AnalyzerError) {
			analyzerErrs = append(analyzerErrs, err)
		}),
	)

	// Read statement: EXPLAIN ANALYZE against a real server.
	rows, err := wrapped(ctx, planwatch.Statement{
		Query: "SELECT customer_id, SUM(amount) FROM orders GROUP BY customer_id",
	})
	require.NoError(t, err)
	require.Len(t, rows, 10)
	require.Empty(t, analyzerErrs)

	// Mutating statement: plan-only EXPLAIN, params captured.
	_, err = wrapped(ctx, planwatch.Statement{
		Query: "UPDATE orders SET status = $1 WHERE customer_id = $2",
		Bind:  []interface{}{"closed", 3},
	})
	require.NoError(t, err)
	require.Empty(t, analyzerErrs)

	// Both records fired the zero-threshold slow hook.
	require.Len(t, slowRecords, 2)
	assert.NotEqual(t, "N/A", slowRecords[0].ExecutionTime,
		"EXPLAIN ANALYZE should yield a real execution time")
	assert.Equal(t, "N/A", slowRecords[1].ExecutionTime,
		"plan-only EXPLAIN must not carry an execution time")
	assert.NotEqual(t, "N/A", slowRecords[1].StartCost,
		"plan-only EXPLAIN still carries a cost range")
	assert.True(t, slowRecords[1].HasParams)
	assert.Contains(t, slowRecords[1].Params, "closed")

	// Report file: one header, two data rows, all fields quoted.
	b, err := os.ReadFile(reportPath(dir))
	require.NoError(t, err)
	content := string(b)
	assert.True(t, strings.HasPrefix(content,
		"query,actualExecutionTime,queryPlan,planningTime,executionTime,startCost,endCost,params\n"))
	assert.Contains(t, content, `"undefined"`)
	assert.Contains(t, content, "cost=")

	// The verbose modifier list reached the server without a syntax error,
	// and the update applied exactly once.
	var closed int
	require.NoError(t, setup.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders WHERE status = 'closed'").Scan(&closed))
	assert.Equal(t, 5, closed)
}

func TestPostgresTransactionControlPassthrough(t *testing.T) {
	setup := SetupPostgreSQLTestDB(t)
	defer setup.Close()

	dir := t.TempDir()
	wrapped := planwatch.Attach(planwatch.FromDB(setup.DB),
		planwatch.WithReportDir(dir),
	)

	// EXPLAIN submitted by the caller must not be re-wrapped.
	rows, err := wrapped(context.Background(), planwatch.Statement{
		Query: "EXPLAIN SELECT 1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	_, statErr := os.Stat(reportPath(dir))
	assert.True(t, os.IsNotExist(statErr), "bypassed statements must not produce records")
}
