// Package runner executes SQL for a tab and records the outcome back onto
// it. The default executor is an in-process mock; real database backends
// plug in behind the same interface.
package runner

import (
	"context"

	"github.com/leapstack-labs/sqldeck/pkg/core"
)

// Executor runs SQL and exposes the catalog shown in the schema explorer.
type Executor interface {
	// Execute runs one SQL statement and returns its tabular result.
	Execute(ctx context.Context, sql string) (*core.Result, error)

	// Catalog lists the tables and views visible to the executor.
	Catalog(ctx context.Context) ([]core.Table, error)

	// Close releases any underlying resources.
	Close() error
}
