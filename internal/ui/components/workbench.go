package components

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/sqldeck/internal/results"
	"github.com/leapstack-labs/sqldeck/internal/session"
	"github.com/leapstack-labs/sqldeck/pkg/core"
)

// AppData is everything the app container needs for one render.
type AppData struct {
	Tabs     []*session.Tab
	ActiveID string
	Grid     GridData
	Explorer ExplorerData
}

// GridData is the render model for the active tab's results pane.
type GridData struct {
	HasResult bool
	IsRunning bool
	Error     string
	View      results.View
	Filters   []string
	Sort      *results.Sort
	Selection results.Selection
}

// ExplorerData is the render model for the schema sidebar.
type ExplorerData struct {
	Tables []core.Table
	Pinned map[string]bool
}

// App renders the #app container: explorer sidebar, tab strip, editor pane,
// and results pane. SSE updates morph this element in place.
func App(data AppData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="app" class="app">`); err != nil {
			return err
		}
		if err := Explorer(data.Explorer, data.ActiveID).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main class="session">`); err != nil {
			return err
		}
		if err := TabStrip(data.Tabs, data.ActiveID).Render(ctx, w); err != nil {
			return err
		}

		active := findTab(data.Tabs, data.ActiveID)
		if active != nil {
			if err := EditorPane(active).Render(ctx, w); err != nil {
				return err
			}
			if err := ResultsPane(active.ID, data.Grid).Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</main></div>`)
		return err
	})
}

func findTab(tabs []*session.Tab, id string) *session.Tab {
	for _, t := range tabs {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TabStrip renders the row of open tabs plus the add button.
func TabStrip(tabs []*session.Tab, activeID string) templ.Component {
	return render(func(w io.Writer) error {
		if _, err := io.WriteString(w, `<nav id="tabstrip" class="tabstrip">`); err != nil {
			return err
		}
		for _, t := range tabs {
			class := "tab"
			if t.ID == activeID {
				class = "tab active"
			}
			running := ""
			if t.IsRunning {
				running = `<span class="spinner"></span>`
			}
			_, err := fmt.Fprintf(w,
				`<div%s%s>`+
					`<button class="tab-name" data-on-click="@post('/api/tabs/%s/select')"%s>%s%s</button>`+
					`<button class="tab-dup" data-on-click="@post('/api/tabs/%s/duplicate')">⧉</button>`+
					`<button class="tab-close" data-on-click="@post('/api/tabs/%s/close')">×</button>`+
					`</div>`,
				attr("class", class), attr("data-tab-id", t.ID),
				t.ID, attr("title", t.Comment), esc(t.Name), running,
				t.ID,
				t.ID,
			)
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w,
			`<button class="tab-add" data-on-click="@post('/api/tabs/add')">+</button></nav>`)
		return err
	})
}

// EditorPane renders the SQL buffer for the active tab. The buffer text and
// the selection offsets live in datastar signals so run/format/insert see
// the caret the browser reports.
func EditorPane(tab *session.Tab) templ.Component {
	return render(func(w io.Writer) error {
		signals, err := json.Marshal(map[string]any{
			"sql":      tab.SQL,
			"selStart": 0,
			"selEnd":   0,
			"name":     tab.Name,
			"comment":  tab.Comment,
		})
		if err != nil {
			return err
		}

		disabled := ""
		if tab.IsRunning {
			disabled = ` disabled`
		}

		_, err = fmt.Fprintf(w,
			`<section id="editor" class="editor"%s>`+
				`<div class="editor-toolbar">`+
				`<input class="tab-rename" data-bind-name data-on-change="@post('/api/tabs/%s/rename')">`+
				`<button%s data-on-click="@post('/api/tabs/%s/run')">Run</button>`+
				`<button%s data-on-click="@post('/api/tabs/%s/format')">Format</button>`+
				`<input class="tab-comment" placeholder="comment" data-bind-comment data-on-change="@post('/api/tabs/%s/comment')">`+
				`</div>`+
				`<textarea id="sql-input" data-bind-sql spellcheck="false" `+
				`data-on-input__debounce.300ms="@post('/api/tabs/%s/sql')" `+
				`data-on-select="$selStart = evt.target.selectionStart; $selEnd = evt.target.selectionEnd"></textarea>`+
				`</section>`,
			attr("data-signals", string(signals)),
			tab.ID,
			disabled, tab.ID,
			disabled, tab.ID,
			tab.ID,
			tab.ID,
		)
		return err
	})
}

// ResultsPane renders the grid for the active tab: loading state, error
// banner, or the filtered/sorted table with its action bar.
func ResultsPane(tabID string, g GridData) templ.Component {
	return render(func(w io.Writer) error {
		if _, err := io.WriteString(w, `<section id="resultspane" class="results">`); err != nil {
			return err
		}

		switch {
		case g.IsRunning:
			if _, err := io.WriteString(w, `<div class="results-loading">Running…</div>`); err != nil {
				return err
			}
		case g.Error != "":
			if _, err := fmt.Fprintf(w, `<div class="results-error">%s</div>`, esc(g.Error)); err != nil {
				return err
			}
		case !g.HasResult:
			if _, err := io.WriteString(w, `<div class="results-empty">Run a query to see results</div>`); err != nil {
				return err
			}
		default:
			if err := resultsTable(w, tabID, g); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

func resultsTable(w io.Writer, tabID string, g GridData) error {
	_, err := fmt.Fprintf(w,
		`<div class="results-actions">`+
			`<span class="rowcount">%d rows</span>`+
			`<button data-on-click="@post('/api/tabs/%s/copy')">Copy</button>`+
			`<a href="/api/tabs/%s/export" download>Export CSV</a>`+
			`</div><table class="grid"><thead><tr>`,
		g.View.RowCount(), tabID, tabID)
	if err != nil {
		return err
	}

	for col, name := range g.View.Columns {
		marker := ""
		if g.Sort != nil && g.Sort.Column == col {
			if g.Sort.Order == results.Asc {
				marker = " ▲"
			} else {
				marker = " ▼"
			}
		}
		selected := ""
		if g.Selection.Kind == results.SelectColumn && g.Selection.Column == col {
			selected = " selected"
		}
		_, err := fmt.Fprintf(w,
			`<th%s data-on-click="@post('/api/tabs/%s/sort/%d')">%s%s</th>`,
			attr("class", "header"+selected), tabID, col, esc(name), marker)
		if err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `</tr><tr class="filters">`); err != nil {
		return err
	}

	for col := range g.View.Columns {
		filter := ""
		if col < len(g.Filters) {
			filter = g.Filters[col]
		}
		_, err := fmt.Fprintf(w,
			`<th><input%s data-on-input__debounce.300ms="@post('/api/tabs/%s/filter/%d?value=' + encodeURIComponent(evt.target.value))"></th>`,
			attr("value", filter), tabID, col)
		if err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `</tr></thead><tbody>`); err != nil {
		return err
	}

	for rowIdx, row := range g.View.Rows {
		if _, err := io.WriteString(w, `<tr>`); err != nil {
			return err
		}
		for col, cell := range row {
			class := "cell"
			if g.Selection.Contains(rowIdx, col) {
				class = "cell selected"
			}
			_, err := fmt.Fprintf(w,
				`<td%s data-on-mousedown="@post('/api/tabs/%s/select-cells?anchor=%d,%d&focus=%d,%d')" `+
					`data-on-mouseover="evt.buttons == 1 && @post('/api/tabs/%s/select-cells?focus=%d,%d')">%s</td>`,
				attr("class", class),
				tabID, rowIdx, col, rowIdx, col,
				tabID, rowIdx, col,
				esc(cell.Text()))
			if err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tr>`); err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, `</tbody></table>`)
	return err
}

// Toast renders the transient notification slot.
func Toast(msg string) templ.Component {
	return render(func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div id="toast" class="toast show">%s</div>`, esc(msg))
		return err
	})
}
