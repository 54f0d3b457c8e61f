package components

import (
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/sqldeck/pkg/core"
)

// Explorer renders the schema sidebar. Pinned tables float to the top of the
// list; clicking a table inserts its qualified name at the editor caret.
func Explorer(data ExplorerData, activeTabID string) templ.Component {
	return render(func(w io.Writer) error {
		if _, err := io.WriteString(w, `<aside id="explorer" class="explorer"><h2>Schema</h2><ul>`); err != nil {
			return err
		}

		pinned := make([]core.Table, 0, len(data.Tables))
		rest := make([]core.Table, 0, len(data.Tables))
		for _, t := range data.Tables {
			if data.Pinned[t.Qualified()] {
				pinned = append(pinned, t)
			} else {
				rest = append(rest, t)
			}
		}

		for _, t := range pinned {
			if err := explorerEntry(w, t, activeTabID, true); err != nil {
				return err
			}
		}
		for _, t := range rest {
			if err := explorerEntry(w, t, activeTabID, false); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</ul></aside>`)
		return err
	})
}

func explorerEntry(w io.Writer, t core.Table, activeTabID string, pinned bool) error {
	name := t.Qualified()
	pin := "☆"
	class := "table"
	if pinned {
		pin = "★"
		class = "table pinned"
	}

	_, err := fmt.Fprintf(w,
		`<li%s>`+
			`<button class="pin" data-on-click="@post('/api/explorer/pin?table=%s')">%s</button>`+
			`<button class="table-name"%s data-on-click="@post('/api/tabs/%s/insert?text=%s'); document.getElementById('sql-input').focus()">%s</button>`+
			`</li>`,
		attr("class", class),
		url.QueryEscape(name), pin,
		attr("title", t.Type), activeTabID, url.QueryEscape(name), esc(name))
	if err != nil {
		return err
	}

	if len(t.Columns) > 0 {
		if _, err := io.WriteString(w, `<li class="columns"><ul>`); err != nil {
			return err
		}
		for _, c := range t.Columns {
			_, err := fmt.Fprintf(w,
				`<li class="column"><button data-on-click="@post('/api/tabs/%s/insert?text=%s'); document.getElementById('sql-input').focus()">%s</button><span class="type">%s</span></li>`,
				activeTabID, url.QueryEscape(c.Name), esc(c.Name), esc(c.Type))
			if err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ul></li>`); err != nil {
			return err
		}
	}
	return nil
}
