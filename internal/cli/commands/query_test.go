package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqldeck/internal/runner"
)

func executeQueryCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SQLDECK_TARGET__MOCK_DELAY_MS", "1")

	cmd := NewQueryCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestQueryCommandMockDataset(t *testing.T) {
	out, err := executeQueryCommand(t, runner.MockQuery)
	require.NoError(t, err)

	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Niklaus Wirth")
	assert.Contains(t, out, "(15 rows)")
}

func TestQueryCommandUnknownStatement(t *testing.T) {
	_, err := executeQueryCommand(t, "SELECT 1;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only default mock query supported")
}

func TestQueryCommandCSVFormat(t *testing.T) {
	out, err := executeQueryCommand(t, "--format", "csv", runner.MockQuery)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "id,name,email,role,active,score", lines[0])
	assert.Len(t, lines, 17, "header + 15 rows + trailing newline")
}

func TestQueryCommandListTables(t *testing.T) {
	out, err := executeQueryCommand(t, "--tables")
	require.NoError(t, err)

	assert.Contains(t, out, "public.users")
	assert.Contains(t, out, "public.orders")
	assert.Contains(t, out, "public.active_users")
}

func TestQueryCommandFormatSQL(t *testing.T) {
	out, err := executeQueryCommand(t, "--fmt", "select id from users where id = 1")
	require.NoError(t, err)

	assert.Equal(t, "SELECT id \nFROM users \nWHERE id = 1;\n", out)
}

func TestQueryCommandNoInput(t *testing.T) {
	_, err := executeQueryCommand(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SQL to execute")
}
