package core

// Result is the tabular output of a completed query run.
type Result struct {
	Columns []string
	Rows    [][]Value
}

// RowCount returns the number of data rows.
func (r *Result) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// ColumnCount returns the number of columns.
func (r *Result) ColumnCount() int {
	if r == nil {
		return 0
	}
	return len(r.Columns)
}

// Column describes one column of a catalog table.
type Column struct {
	Name string
	Type string
}

// Table is a catalog entry shown in the schema explorer.
type Table struct {
	Schema  string
	Name    string
	Type    string // "table" or "view"
	Columns []Column
}

// Qualified returns the schema-qualified name used for editor insertion.
func (t Table) Qualified() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}
