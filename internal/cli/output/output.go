// Package output provides terminal rendering helpers for the CLI.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles groups the lipgloss styles the CLI prints with.
type Styles struct {
	Title   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles returns the default style set.
func NewStyles() *Styles {
	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Renderer writes command output with a consistent style set.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	styles *Styles
}

// NewRenderer creates a renderer over the command's output streams.
func NewRenderer(out, errOut io.Writer) *Renderer {
	return &Renderer{
		out:    out,
		errOut: errOut,
		styles: NewStyles(),
	}
}

// Writer returns the underlying output writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// Styles returns the renderer's style set.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Println writes a line to standard output.
func (r *Renderer) Println(args ...any) {
	_, _ = fmt.Fprintln(r.out, args...)
}

// Printf writes formatted text to standard output.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Errorf writes a styled error line to standard error.
func (r *Renderer) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("Error:")+" "+msg)
}
