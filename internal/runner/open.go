package runner

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Database drivers for the real executor backends.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb"
	_ "modernc.org/sqlite"
)

// Target selects and configures an executor backend.
type Target struct {
	// Type is one of "mock", "duckdb", "sqlite", "postgres".
	Type string

	// DSN is the database path (duckdb/sqlite, ":memory:" or empty for
	// in-memory) or connection string (postgres).
	DSN string

	// MockDelay overrides the simulated latency of the mock backend.
	// Zero keeps the default.
	MockDelay time.Duration
}

// Open creates the executor for a target. An empty type means mock.
func Open(ctx context.Context, t Target) (Executor, error) {
	switch t.Type {
	case "", "mock":
		m := NewMock()
		if t.MockDelay > 0 {
			m.Delay = t.MockDelay
		}
		return m, nil
	case "duckdb":
		return openSQL(ctx, "duckdb", t.DSN, "duckdb")
	case "sqlite":
		dsn := t.DSN
		if dsn == "" {
			dsn = ":memory:"
		}
		return openSQL(ctx, "sqlite", dsn, "sqlite")
	case "postgres":
		return openSQL(ctx, "pgx", t.DSN, "postgres")
	default:
		return nil, fmt.Errorf("unknown executor type %q", t.Type)
	}
}

func openSQL(ctx context.Context, driver, dsn, dialect string) (Executor, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return NewSQLExecutor(db, dialect), nil
}
