// Package results derives the filtered, sorted, selectable projection of a
// tab's result set and implements the copy and CSV-export actions on it.
package results

import (
	"errors"
	"sort"
	"strings"

	"github.com/leapstack-labs/sqldeck/pkg/core"
)

// ErrNoRows is returned by copy/export when the projection is empty.
var ErrNoRows = errors.New("no rows to export")

// Order is a sort direction.
type Order int

// Sort directions.
const (
	Asc Order = iota
	Desc
)

// Sort names a sorted column. A nil *Sort means unsorted.
type Sort struct {
	Column int
	Order  Order
}

// Grid owns the ephemeral projection state for one tab's result: per-column
// filters, the sort cycle, and the selection. All of it resets whenever the
// underlying result identity changes.
type Grid struct {
	result    *core.Result
	filters   []string
	sort      *Sort
	selection Selection
}

// NewGrid creates a grid for a result, which may be nil.
func NewGrid(res *core.Result) *Grid {
	g := &Grid{}
	g.SetResult(res)
	return g
}

// SetResult swaps the underlying result. Filters, sort, and selection reset
// when the result identity changes; setting the same pointer is a no-op.
func (g *Grid) SetResult(res *core.Result) {
	if g.result == res {
		return
	}
	g.result = res
	g.filters = make([]string, res.ColumnCount())
	g.sort = nil
	g.selection = Selection{}
}

// Result returns the underlying result, possibly nil.
func (g *Grid) Result() *core.Result {
	return g.result
}

// SetFilter sets the filter string for one column. Out-of-range columns are
// ignored.
func (g *Grid) SetFilter(col int, filter string) {
	if col < 0 || col >= len(g.filters) {
		return
	}
	g.filters[col] = filter
}

// Filters returns the per-column filter strings.
func (g *Grid) Filters() []string {
	out := make([]string, len(g.filters))
	copy(out, g.filters)
	return out
}

// Sort returns the current sort, nil when unsorted.
func (g *Grid) Sort() *Sort {
	if g.sort == nil {
		return nil
	}
	s := *g.sort
	return &s
}

// CycleSort advances the header-click cycle for a column: ascending on first
// click, descending on the second, cleared on the third. Clicking a
// different column restarts at ascending. The same click selects the whole
// column, so the selection side effect lives here too.
func (g *Grid) CycleSort(col int) {
	if g.result == nil || col < 0 || col >= g.result.ColumnCount() {
		return
	}

	switch {
	case g.sort == nil || g.sort.Column != col:
		g.sort = &Sort{Column: col, Order: Asc}
	case g.sort.Order == Asc:
		g.sort = &Sort{Column: col, Order: Desc}
	default:
		g.sort = nil
	}

	g.selection = ColumnSelection(col)
}

// View is the materialized projection: rows that survive filtering, in
// sorted order. SourceRows maps each view row back to its index in the
// result, which keeps selections meaningful across re-renders.
type View struct {
	Columns    []string
	Rows       [][]core.Value
	SourceRows []int
}

// RowCount returns the number of projected rows.
func (v View) RowCount() int {
	return len(v.Rows)
}

// View computes the current projection. A nil result yields an empty view.
func (g *Grid) View() View {
	if g.result == nil {
		return View{}
	}

	v := View{Columns: g.result.Columns}

	for i, row := range g.result.Rows {
		if g.rowMatches(row) {
			v.SourceRows = append(v.SourceRows, i)
		}
	}

	if s := g.sort; s != nil && s.Column < len(v.Columns) {
		// Stable: ties keep their filtered (insertion) order.
		sort.SliceStable(v.SourceRows, func(i, j int) bool {
			c := core.Compare(
				g.result.Rows[v.SourceRows[i]][s.Column],
				g.result.Rows[v.SourceRows[j]][s.Column],
			)
			if s.Order == Desc {
				return c > 0
			}
			return c < 0
		})
	}

	v.Rows = make([][]core.Value, len(v.SourceRows))
	for i, ri := range v.SourceRows {
		v.Rows[i] = g.result.Rows[ri]
	}

	return v
}

// rowMatches applies every non-empty column filter as a case-insensitive
// substring test against the cell's display form (logical AND).
func (g *Grid) rowMatches(row []core.Value) bool {
	for col, filter := range g.filters {
		if filter == "" {
			continue
		}
		if col >= len(row) {
			return false
		}
		cell := strings.ToLower(row[col].Text())
		if !strings.Contains(cell, strings.ToLower(filter)) {
			return false
		}
	}
	return true
}
