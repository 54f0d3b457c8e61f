// Package components renders the workbench UI as templ components.
//
// The components are hand-written: each builds its HTML directly against
// the templ runtime so SSE handlers can patch them with the same
// PatchElementTempl calls used for generated templates.
package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// esc HTML-escapes text content and attribute values.
func esc(s string) string {
	return templ.EscapeString(s)
}

// render adapts a write function into a templ.Component.
func render(fn func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return fn(w)
	})
}

// attr formats a key="value" pair with an escaped value.
func attr(key, value string) string {
	return fmt.Sprintf(` %s="%s"`, key, esc(value))
}
