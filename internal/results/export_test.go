package results

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqldeck/pkg/core"
)

func threeByThree() *core.Result {
	return &core.Result{
		Columns: []string{"a", "b", "c"},
		Rows: [][]core.Value{
			row(core.Int(1), core.String("x"), core.Bool(true)),
			row(core.Int(2), core.String("y"), core.Bool(false)),
			row(core.Int(3), core.String("z"), core.Null()),
		},
	}
}

func TestCopyRectangularSelection(t *testing.T) {
	g := NewGrid(threeByThree())
	g.StartCellSelection(0, 0)
	g.ExtendCellSelection(1, 1)

	out, err := g.CopyText()
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3, "header plus two data lines")
	assert.Equal(t, "a\tb", lines[0], "header restricted to touched columns")
	assert.Equal(t, "1\tx", lines[1])
	assert.Equal(t, "2\ty", lines[2])
}

func TestCopyRectangleDrawnBackwards(t *testing.T) {
	g := NewGrid(threeByThree())
	g.StartCellSelection(1, 1)
	g.ExtendCellSelection(0, 0)

	out, err := g.CopyText()
	require.NoError(t, err)
	assert.Equal(t, "a\tb\n1\tx\n2\ty", out)
}

func TestCopyColumnSelection(t *testing.T) {
	g := NewGrid(threeByThree())
	g.CycleSort(1) // header click: ascending sort + column selection

	out, err := g.CopyText()
	require.NoError(t, err)
	assert.Equal(t, "b\nx\ny\nz", out)
}

func TestCopyWithoutSelectionCopiesWholeProjection(t *testing.T) {
	g := NewGrid(threeByThree())
	g.SetFilter(0, "2")

	out, err := g.CopyText()
	require.NoError(t, err)
	assert.Equal(t, "a\tb\tc\n2\ty\tfalse", out)
}

func TestCopyFollowsFilteredSortedOrder(t *testing.T) {
	g := NewGrid(&core.Result{
		Columns: []string{"n"},
		Rows:    [][]core.Value{row(core.Int(3)), row(core.Int(1)), row(core.Int(2))},
	})
	g.CycleSort(0)
	g.ClearSelection()

	out, err := g.CopyText()
	require.NoError(t, err)
	assert.Equal(t, "n\n1\n2\n3", out)
}

func TestCopyEmptyProjection(t *testing.T) {
	g := NewGrid(threeByThree())
	g.SetFilter(0, "nope")

	_, err := g.CopyText()
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = NewGrid(nil).CopyText()
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestExportCSV(t *testing.T) {
	g := NewGrid(&core.Result{
		Columns: []string{"msg", "n"},
		Rows: [][]core.Value{
			row(core.String(`He said "hi", ok`), core.Int(1)),
			row(core.Null(), core.Int(2)),
			row(core.String("multi\nline"), core.Int(3)),
		},
	})

	out, err := g.ExportCSV()
	require.NoError(t, err)

	expected := "msg,n\r\n" +
		`"He said ""hi"", ok",1` + "\r\n" +
		",2\r\n" +
		"\"multi\nline\",3\r\n"
	assert.Equal(t, expected, out)
}

func TestExportCSVRespectsProjection(t *testing.T) {
	g := NewGrid(threeByThree())
	g.SetFilter(1, "Y")
	out, err := g.ExportCSV()
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\r\n2,y,false\r\n", out)
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	assert.Equal(t, "Query_1_20260314_092653.csv", ExportFilename("Query 1", ts))
	assert.Equal(t, "a_b_c__20260314_092653.csv", ExportFilename(`a/b:c?`, ts))
}
