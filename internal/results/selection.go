package results

// SelectionKind distinguishes the three mutually exclusive selection modes.
type SelectionKind int

// Selection modes.
const (
	SelectNone SelectionKind = iota
	SelectCells
	SelectColumn
)

// Selection is the current grid selection. Cell coordinates are view-row and
// column indices; the anchor is where the drag started and the focus is the
// cell the pointer last entered, so the rectangle may be described in any
// direction.
type Selection struct {
	Kind SelectionKind

	// Cell-range mode.
	AnchorRow, AnchorCol int
	FocusRow, FocusCol   int

	// Column mode.
	Column int
}

// CellSelection returns a rectangular selection between two cells.
func CellSelection(anchorRow, anchorCol, focusRow, focusCol int) Selection {
	return Selection{
		Kind:      SelectCells,
		AnchorRow: anchorRow,
		AnchorCol: anchorCol,
		FocusRow:  focusRow,
		FocusCol:  focusCol,
	}
}

// ColumnSelection returns a whole-column selection.
func ColumnSelection(col int) Selection {
	return Selection{Kind: SelectColumn, Column: col}
}

// Bounds returns the inclusive rectangle of a cell selection in ascending
// order.
func (s Selection) Bounds() (rowLo, rowHi, colLo, colHi int) {
	rowLo, rowHi = s.AnchorRow, s.FocusRow
	if rowLo > rowHi {
		rowLo, rowHi = rowHi, rowLo
	}
	colLo, colHi = s.AnchorCol, s.FocusCol
	if colLo > colHi {
		colLo, colHi = colHi, colLo
	}
	return rowLo, rowHi, colLo, colHi
}

// Contains reports whether a view cell falls inside the selection.
func (s Selection) Contains(row, col int) bool {
	switch s.Kind {
	case SelectCells:
		rowLo, rowHi, colLo, colHi := s.Bounds()
		return row >= rowLo && row <= rowHi && col >= colLo && col <= colHi
	case SelectColumn:
		return col == s.Column
	default:
		return false
	}
}

// Selection returns the grid's current selection.
func (g *Grid) Selection() Selection {
	return g.selection
}

// StartCellSelection begins a click-drag at a body cell.
func (g *Grid) StartCellSelection(row, col int) {
	g.selection = CellSelection(row, col, row, col)
}

// ExtendCellSelection moves the drag focus to another cell. No-op unless a
// cell selection is in progress.
func (g *Grid) ExtendCellSelection(row, col int) {
	if g.selection.Kind != SelectCells {
		return
	}
	g.selection.FocusRow = row
	g.selection.FocusCol = col
}

// ClearSelection resets the selection to none.
func (g *Grid) ClearSelection() {
	g.selection = Selection{}
}
