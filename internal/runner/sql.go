package runner

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/leapstack-labs/sqldeck/pkg/core"
)

const maxRows = 10000

// SQLExecutor runs statements against a database/sql connection.
type SQLExecutor struct {
	db      *sql.DB
	dialect string
}

// NewSQLExecutor wraps an open connection. The dialect selects the catalog
// introspection queries: "duckdb", "sqlite", or "postgres".
func NewSQLExecutor(db *sql.DB, dialect string) *SQLExecutor {
	return &SQLExecutor{db: db, dialect: dialect}
}

// Execute runs the statement and scans every row into the closed value
// variant. Result sets are capped at maxRows.
func (e *SQLExecutor) Execute(ctx context.Context, query string) (*core.Result, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &core.Result{Columns: cols}
	for rows.Next() && len(res.Rows) < maxRows {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make([]core.Value, len(cols))
		for i, v := range values {
			row[i] = toValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// toValue maps a scanned driver value onto the closed variant.
func toValue(v any) core.Value {
	switch x := v.(type) {
	case nil:
		return core.Null()
	case bool:
		return core.Bool(x)
	case int64:
		return core.Number(float64(x))
	case float64:
		return core.Number(x)
	case []byte:
		return core.String(string(x))
	case string:
		return core.String(x)
	case time.Time:
		return core.String(x.Format(time.RFC3339))
	default:
		return core.String(fmt.Sprintf("%v", x))
	}
}

// Catalog lists tables and views with their columns.
func (e *SQLExecutor) Catalog(ctx context.Context) ([]core.Table, error) {
	if e.dialect == "sqlite" {
		return e.sqliteCatalog(ctx)
	}
	return e.infoSchemaCatalog(ctx)
}

// infoSchemaCatalog works for DuckDB and Postgres.
func (e *SQLExecutor) infoSchemaCatalog(ctx context.Context) ([]core.Table, error) {
	const tablesQ = `
		SELECT table_schema, table_name, table_type
		FROM information_schema.tables
		WHERE table_schema NOT IN ('information_schema', 'pg_catalog')
		ORDER BY table_schema, table_name
	`
	rows, err := e.db.QueryContext(ctx, tablesQ)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []core.Table
	for rows.Next() {
		var schema, name, typ string
		if err := rows.Scan(&schema, &name, &typ); err != nil {
			return nil, err
		}
		kind := "table"
		if typ == "VIEW" {
			kind = "view"
		}
		tables = append(tables, core.Table{Schema: schema, Name: name, Type: kind})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tables {
		cols, err := e.infoSchemaColumns(ctx, tables[i].Schema, tables[i].Name)
		if err != nil {
			return nil, err
		}
		tables[i].Columns = cols
	}
	return tables, nil
}

func (e *SQLExecutor) infoSchemaColumns(ctx context.Context, schema, table string) ([]core.Column, error) {
	const colsQ = `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`
	q := colsQ
	if e.dialect == "postgres" {
		q = `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`
	}

	rows, err := e.db.QueryContext(ctx, q, schema, table)
	if err != nil {
		return nil, fmt.Errorf("list columns for %s.%s: %w", schema, table, err)
	}
	defer func() { _ = rows.Close() }()

	var cols []core.Column
	for rows.Next() {
		var c core.Column
		if err := rows.Scan(&c.Name, &c.Type); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (e *SQLExecutor) sqliteCatalog(ctx context.Context) ([]core.Table, error) {
	const q = `
		SELECT name, type
		FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY type, name
	`
	rows, err := e.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []core.Table
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, err
		}
		tables = append(tables, core.Table{Schema: "main", Name: name, Type: typ})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tables {
		// PRAGMA has no parameter form; the name came from sqlite_master.
		prows, err := e.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", tables[i].Name))
		if err != nil {
			return nil, err
		}
		for prows.Next() {
			var cid, notNull, pk int
			var name, colType string
			var dflt sql.NullString
			if err := prows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
				_ = prows.Close()
				return nil, err
			}
			tables[i].Columns = append(tables[i].Columns, core.Column{Name: name, Type: colType})
		}
		if err := prows.Err(); err != nil {
			_ = prows.Close()
			return nil, err
		}
		_ = prows.Close()
	}
	return tables, nil
}

// Close closes the underlying connection.
func (e *SQLExecutor) Close() error {
	return e.db.Close()
}
