package results

import (
	"regexp"
	"strings"
	"time"
)

// CopyText renders the current selection as tab-separated text for the
// clipboard.
//
// Cell-range selections copy the header names of the touched columns plus
// the touched rows, both restricted to the rectangle and in view order.
// Column selections copy the header followed by one value per view row. With
// no selection the whole projected table is copied. Returns ErrNoRows when
// nothing is available.
func (g *Grid) CopyText() (string, error) {
	v := g.View()
	if v.RowCount() == 0 {
		return "", ErrNoRows
	}

	switch g.selection.Kind {
	case SelectCells:
		return copyRect(v, g.selection), nil
	case SelectColumn:
		return copyColumn(v, g.selection.Column), nil
	default:
		return copyAll(v), nil
	}
}

func copyRect(v View, sel Selection) string {
	rowLo, rowHi, colLo, colHi := sel.Bounds()
	rowLo = clampIndex(rowLo, v.RowCount()-1)
	rowHi = clampIndex(rowHi, v.RowCount()-1)
	colLo = clampIndex(colLo, len(v.Columns)-1)
	colHi = clampIndex(colHi, len(v.Columns)-1)

	var lines []string
	lines = append(lines, strings.Join(v.Columns[colLo:colHi+1], "\t"))

	for r := rowLo; r <= rowHi; r++ {
		fields := make([]string, 0, colHi-colLo+1)
		for c := colLo; c <= colHi; c++ {
			fields = append(fields, v.Rows[r][c].Text())
		}
		lines = append(lines, strings.Join(fields, "\t"))
	}
	return strings.Join(lines, "\n")
}

func copyColumn(v View, col int) string {
	if col < 0 || col >= len(v.Columns) {
		return ""
	}
	lines := make([]string, 0, v.RowCount()+1)
	lines = append(lines, v.Columns[col])
	for _, row := range v.Rows {
		lines = append(lines, row[col].Text())
	}
	return strings.Join(lines, "\n")
}

func copyAll(v View) string {
	lines := make([]string, 0, v.RowCount()+1)
	lines = append(lines, strings.Join(v.Columns, "\t"))
	for _, row := range v.Rows {
		fields := make([]string, len(row))
		for i, cell := range row {
			fields[i] = cell.Text()
		}
		lines = append(lines, strings.Join(fields, "\t"))
	}
	return strings.Join(lines, "\n")
}

func clampIndex(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}

// ExportCSV renders the projected table (header plus filtered/sorted rows)
// as CSV: fields comma-joined, rows CRLF-joined, quoting any field that
// contains a quote, comma, or newline. Returns ErrNoRows when the projection
// is empty.
func (g *Grid) ExportCSV() (string, error) {
	v := g.View()
	if v.RowCount() == 0 {
		return "", ErrNoRows
	}

	var b strings.Builder
	writeCSVRow(&b, v.Columns)
	for _, row := range v.Rows {
		fields := make([]string, len(row))
		for i, cell := range row {
			fields[i] = cell.Text()
		}
		writeCSVRow(&b, fields)
	}
	return b.String(), nil
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCSV(f))
	}
	b.WriteString("\r\n")
}

// escapeCSV wraps a field in double quotes, doubling internal quotes, when
// it contains a quote, comma, or newline.
func escapeCSV(field string) string {
	if !strings.ContainsAny(field, "\",\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// ExportFilename builds the download name for a tab's CSV export:
// the tab name with filename-unsafe characters replaced by underscore,
// a YYYYMMDD_HHMMSS timestamp, and a .csv extension.
func ExportFilename(tabName string, now time.Time) string {
	safe := unsafeFilenameRe.ReplaceAllString(tabName, "_")
	return safe + "_" + now.Format("20060102_150405") + ".csv"
}
