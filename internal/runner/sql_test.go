package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqldeck/pkg/core"
)

func TestSQLExecutorScansClosedVariant(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT \\* FROM t").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "active", "note"}).
			AddRow(int64(1), "alpha", true, nil).
			AddRow(int64(2), []byte("beta"), false, "x"),
	)

	e := NewSQLExecutor(db, "duckdb")
	res, err := e.Execute(context.Background(), "SELECT * FROM t")
	require.NoError(t, err)

	require.Equal(t, 2, res.RowCount())
	assert.Equal(t, []string{"id", "name", "active", "note"}, res.Columns)

	assert.Equal(t, core.KindNumber, res.Rows[0][0].Kind())
	assert.Equal(t, "1", res.Rows[0][0].Text())
	assert.Equal(t, "alpha", res.Rows[0][1].Text())
	assert.Equal(t, core.KindBool, res.Rows[0][2].Kind())
	assert.True(t, res.Rows[0][3].IsNull())

	assert.Equal(t, "beta", res.Rows[1][1].Text())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLExecutorQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT boom").WillReturnError(errors.New("syntax error"))

	e := NewSQLExecutor(db, "duckdb")
	_, err = e.Execute(context.Background(), "SELECT boom")
	assert.EqualError(t, err, "syntax error")
}

func TestSQLExecutorSqliteCatalog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM sqlite_master").WillReturnRows(
		sqlmock.NewRows([]string{"name", "type"}).
			AddRow("users", "table").
			AddRow("active_users", "view"),
	)
	mock.ExpectQuery("PRAGMA table_info").WillReturnRows(
		sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow(0, "id", "INTEGER", 1, nil, 1).
			AddRow(1, "name", "TEXT", 0, nil, 0),
	)
	mock.ExpectQuery("PRAGMA table_info").WillReturnRows(
		sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow(0, "id", "INTEGER", 0, nil, 0),
	)

	e := NewSQLExecutor(db, "sqlite")
	tables, err := e.Catalog(context.Background())
	require.NoError(t, err)

	require.Len(t, tables, 2)
	assert.Equal(t, "users", tables[0].Name)
	assert.Equal(t, "main.users", tables[0].Qualified())
	require.Len(t, tables[0].Columns, 2)
	assert.Equal(t, "INTEGER", tables[0].Columns[0].Type)
	assert.Equal(t, "view", tables[1].Type)
}
