package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Page renders the full HTML document shell around the app container. In
// dev mode the page opens the hot-reload SSE stream.
func Page(title string, isDev bool, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s - SQLDeck</title>
<link rel="stylesheet" href="/static/app.css">
<script type="module" src="/static/datastar.js"></script>
<script src="/static/app.js" defer></script>
</head>
<body>
`, esc(title)); err != nil {
			return err
		}

		if isDev {
			if _, err := io.WriteString(w, `<div data-init="@get('/reload')"></div>
`); err != nil {
				return err
			}
		}

		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `<div id="toast"></div>
<div data-init="@get('/updates')"></div>
</body>
</html>
`)
		return err
	})
}
