package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/sqldeck/pkg/core"
)

func renderResult(w io.Writer, res *core.Result, format string) error {
	switch format {
	case "json":
		return renderJSON(w, res)
	case "csv":
		return renderCSV(w, res)
	case "md", "markdown":
		return renderMarkdown(w, res)
	default:
		return renderTable(w, res)
	}
}

func renderTable(w io.Writer, res *core.Result) error {
	if res.RowCount() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(res.Columns))
	for i, col := range res.Columns {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range res.Rows {
		out := make(table.Row, len(row))
		for i, cell := range row {
			out[i] = cellText(cell)
		}
		t.AppendRow(out)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", res.RowCount())
	return nil
}

func renderJSON(w io.Writer, res *core.Result) error {
	out := make([]map[string]any, 0, res.RowCount())
	for _, row := range res.Rows {
		obj := make(map[string]any, len(res.Columns))
		for i, col := range res.Columns {
			if i < len(row) {
				obj[col] = row[i].Text()
			}
		}
		out = append(out, obj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderCSV(w io.Writer, res *core.Result) error {
	_, _ = fmt.Fprintln(w, strings.Join(res.Columns, ","))

	for _, row := range res.Rows {
		values := make([]string, len(row))
		for i, cell := range row {
			values[i] = escapeCSV(cellText(cell))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, res *core.Result) error {
	if res.RowCount() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(res.Columns, " | "))
	seps := make([]string, len(res.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range res.Rows {
		values := make([]string, len(row))
		for i, cell := range row {
			values[i] = cellText(cell)
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

// cellText renders one cell for terminal output. Unlike the grid's display
// form, SQL NULL prints as the word NULL so it is distinguishable from an
// empty string.
func cellText(v core.Value) string {
	if v.Kind() == core.KindNull {
		return "NULL"
	}
	return v.Text()
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// renderCatalog prints the table list for .tables and the query
// --list-tables path.
func renderCatalog(w io.Writer, tables []core.Table, format string) error {
	res := &core.Result{Columns: []string{"name", "type"}}
	for _, t := range tables {
		res.Rows = append(res.Rows, []core.Value{
			core.String(t.Qualified()),
			core.String(t.Type),
		})
	}
	return renderResult(w, res, format)
}

// renderSchema prints one table's column list for .schema.
func renderSchema(w io.Writer, t core.Table, format string) error {
	_, _ = fmt.Fprintf(w, "%s: %s\n", capitalizeFirst(t.Type), t.Qualified())
	res := &core.Result{Columns: []string{"column", "type"}}
	for _, c := range t.Columns {
		res.Rows = append(res.Rows, []core.Value{
			core.String(c.Name),
			core.String(c.Type),
		})
	}
	return renderResult(w, res, format)
}
