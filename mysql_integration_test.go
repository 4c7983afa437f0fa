//go:build integration

package planwatch_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/coregx/planwatch"
	_ "github.com/go-sql-driver/mysql"
)

// setupMySQLTestDB creates a test MySQL connection for integration testing.
// Set MYSQL_DSN environment variable or uses default localhost connection.
func setupMySQLTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:password@tcp(localhost:3306)/test"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		t.Skipf("MySQL not reachable: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS watch_users`); err != nil {
		t.Fatalf("Failed to drop table: %v", err)
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE watch_users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL
		)
	`); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO watch_users (name) VALUES ('alice'), ('bob')`,
	); err != nil {
		t.Fatalf("Failed to seed table: %v", err)
	}

	return db
}

// MySQL rejects the parenthesized EXPLAIN (ANALYZE, ...) syntax, so read
// statements exercise the degradation path: the explain failure is reported
// and swallowed while the original rows come back untouched.
func TestMySQLExplainFailureIsolation(t *testing.T) {
	db := setupMySQLTestDB(t)

	var hookErr *planwatch.AnalyzerError
	wrapped := planwatch.Attach(planwatch.FromDB(db),
		planwatch.WithReportDir(t.TempDir()),
		planwatch.WithErrorHook(func(_ context.Context, err *planwatch.AnalyzerError) {
			hookErr = err
		}),
	)

	rows, err := wrapped(context.Background(), planwatch.Statement{
		Query: "SELECT id, name FROM watch_users ORDER BY id",
	})
	if err != nil {
		t.Fatalf("explain failure leaked to caller: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if hookErr == nil {
		t.Fatal("explain failure not reported")
	}
	if hookErr.Kind != planwatch.KindExplainFailure {
		t.Errorf("kind = %v, want explain_failure", hookErr.Kind)
	}
}

// Plain EXPLAIN works on MySQL for mutating statements.
func TestMySQLMutatingExplain(t *testing.T) {
	db := setupMySQLTestDB(t)

	var hookErrs []*planwatch.AnalyzerError
	wrapped := planwatch.Attach(planwatch.FromDB(db),
		planwatch.WithReportDir(t.TempDir()),
		planwatch.WithErrorHook(func(_ context.Context, err *planwatch.AnalyzerError) {
			hookErrs = append(hookErrs, err)
		}),
	)

	_, err := wrapped(context.Background(), planwatch.Statement{
		Query: "UPDATE watch_users SET name = ? WHERE id = ?",
		Bind:  []interface{}{"carol", 1},
	})
	if err != nil {
		t.Fatalf("wrapped update failed: %v", err)
	}
	if len(hookErrs) != 0 {
		t.Fatalf("plain EXPLAIN should succeed on MySQL: %v", hookErrs)
	}

	var name string
	if err := db.QueryRowContext(context.Background(),
		"SELECT name FROM watch_users WHERE id = 1").Scan(&name); err != nil {
		t.Fatal(err)
	}
	if name != "carol" {
		t.Errorf("update did not apply exactly once: name=%q", name)
	}
}
