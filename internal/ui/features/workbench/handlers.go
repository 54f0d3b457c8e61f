// Package workbench provides the HTTP handlers for the tabbed SQL workbench.
package workbench

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/sqldeck/internal/editor"
	"github.com/leapstack-labs/sqldeck/internal/ui/components"
	"github.com/leapstack-labs/sqldeck/internal/ui/notifier"
	wb "github.com/leapstack-labs/sqldeck/internal/workbench"
)

const (
	sessionName = "sqldeck"
	pinnedKey   = "pinned"
)

// Handlers provides HTTP handlers for the workbench feature.
type Handlers struct {
	bench        *wb.Workbench
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(bench *wb.Workbench, sessionStore sessions.Store, notify *notifier.Notifier, logger *slog.Logger, isDev bool) *Handlers {
	return &Handlers{
		bench:        bench,
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
		isDev:        isDev,
	}
}

// WorkbenchPage renders the full page shell with the app container inside.
func (h *Handlers) WorkbenchPage(w http.ResponseWriter, r *http.Request) {
	data := h.buildAppData(r)
	page := components.Page("sqldeck", h.isDev, components.App(data))
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Updates streams app re-renders whenever workbench state changes, including
// async run completions.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ctx := r.Context()
	updates := h.notifier.Subscribe(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if err := h.patchApp(sse, r); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// patchApp sends the full app view over an open SSE connection.
func (h *Handlers) patchApp(sse *datastar.ServerSentEventGenerator, r *http.Request) error {
	return sse.PatchElementTempl(components.App(h.buildAppData(r)))
}

// buildAppData assembles everything one render of the app needs.
func (h *Handlers) buildAppData(r *http.Request) components.AppData {
	activeID := h.bench.ActiveID()
	data := components.AppData{
		Tabs:     h.bench.Tabs(),
		ActiveID: activeID,
	}

	if tab := h.bench.Tab(activeID); tab != nil {
		data.Grid = components.GridData{
			IsRunning: tab.IsRunning,
			Error:     tab.Error,
			HasResult: tab.Result != nil,
		}
		if st, ok := h.bench.GridState(activeID); ok {
			data.Grid.View = st.View
			data.Grid.Filters = st.Filters
			data.Grid.Sort = st.Sort
			data.Grid.Selection = st.Selection
		}
	}

	tables, err := h.bench.Catalog(r.Context())
	if err != nil {
		h.logger.Warn("catalog listing failed", "error", err)
		tables = nil
	}
	data.Explorer = components.ExplorerData{
		Tables: tables,
		Pinned: h.pinnedTables(r),
	}
	return data
}

// Tab lifecycle

// AddTab opens a blank tab and activates it.
func (h *Handlers) AddTab(w http.ResponseWriter, r *http.Request) {
	h.bench.AddTab()
	h.respondApp(w, r)
}

// SelectTab moves the active pointer.
func (h *Handlers) SelectTab(w http.ResponseWriter, r *http.Request) {
	h.bench.SelectTab(chi.URLParam(r, "id"))
	h.respondApp(w, r)
}

// CloseTab closes a tab; the store guarantees at least one tab survives.
func (h *Handlers) CloseTab(w http.ResponseWriter, r *http.Request) {
	h.bench.CloseTab(chi.URLParam(r, "id"))
	h.respondApp(w, r)
}

// DuplicateTab clones a tab and activates the clone.
func (h *Handlers) DuplicateTab(w http.ResponseWriter, r *http.Request) {
	h.bench.DuplicateTab(chi.URLParam(r, "id"))
	h.respondApp(w, r)
}

// RenameTab applies the name signal to a tab.
func (h *Handlers) RenameTab(w http.ResponseWriter, r *http.Request) {
	signals, sse := h.readSignals(w, r)
	if sse == nil {
		return
	}
	if name := strings.TrimSpace(signals.Name); name != "" {
		h.bench.RenameTab(chi.URLParam(r, "id"), name)
	}
	if err := h.patchApp(sse, r); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// SetComment applies the comment signal to a tab.
func (h *Handlers) SetComment(w http.ResponseWriter, r *http.Request) {
	signals, sse := h.readSignals(w, r)
	if sse == nil {
		return
	}
	h.bench.SetComment(chi.URLParam(r, "id"), signals.Comment)
	if err := h.patchApp(sse, r); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Editor

// SetSQL records the buffer text on every debounced keystroke. No patch is
// sent back; the typing client already has the text.
func (h *Handlers) SetSQL(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.bench.SetSQL(chi.URLParam(r, "id"), signals.SQL)
	w.WriteHeader(http.StatusNoContent)
}

// RunQuery executes the selection when one is active, the whole buffer
// otherwise. The running state renders immediately; completion arrives over
// the updates stream.
func (h *Handlers) RunQuery(w http.ResponseWriter, r *http.Request) {
	signals, sse := h.readSignals(w, r)
	if sse == nil {
		return
	}

	id := chi.URLParam(r, "id")
	h.bench.SetSQL(id, signals.SQL)

	sql := signals.SQL
	buf := editor.NewBuffer(signals.SQL)
	buf.Select(signals.SelStart, signals.SelEnd)
	if sel := buf.Selection(); sel != "" {
		sql = sel
	}

	h.bench.Run(context.WithoutCancel(r.Context()), id, sql)

	if err := h.patchApp(sse, r); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// FormatQuery rewrites the buffer with the keyword formatter and pushes the
// new text back into the sql signal.
func (h *Handlers) FormatQuery(w http.ResponseWriter, r *http.Request) {
	signals, sse := h.readSignals(w, r)
	if sse == nil {
		return
	}

	id := chi.URLParam(r, "id")
	h.bench.SetSQL(id, signals.SQL)
	formatted, ok := h.bench.Format(id)
	if !ok {
		return
	}

	if err := sse.MarshalAndPatchSignals(map[string]any{"sql": formatted}); err != nil {
		_ = sse.ConsoleError(err)
	}
	if err := h.patchApp(sse, r); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// InsertText inserts the text query param at the editor caret, replacing the
// current selection, and pushes the updated buffer and caret back.
func (h *Handlers) InsertText(w http.ResponseWriter, r *http.Request) {
	signals, sse := h.readSignals(w, r)
	if sse == nil {
		return
	}

	id := chi.URLParam(r, "id")
	h.bench.SetSQL(id, signals.SQL)

	text := r.URL.Query().Get("text")
	newSQL, caret := h.bench.InsertAtCursor(id, text, signals.SelStart, signals.SelEnd)

	if err := sse.MarshalAndPatchSignals(map[string]any{
		"sql":      newSQL,
		"selStart": caret,
		"selEnd":   caret,
	}); err != nil {
		_ = sse.ConsoleError(err)
	}
	if err := h.patchApp(sse, r); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Results grid

// SetFilter applies a column filter from the form value.
func (h *Handlers) SetFilter(w http.ResponseWriter, r *http.Request) {
	col, err := strconv.Atoi(chi.URLParam(r, "col"))
	if err != nil {
		http.Error(w, "bad column", http.StatusBadRequest)
		return
	}
	h.bench.SetFilter(chi.URLParam(r, "id"), col, r.FormValue("value"))
	h.respondApp(w, r)
}

// CycleSort advances the three-state sort cycle for a column.
func (h *Handlers) CycleSort(w http.ResponseWriter, r *http.Request) {
	col, err := strconv.Atoi(chi.URLParam(r, "col"))
	if err != nil {
		http.Error(w, "bad column", http.StatusBadRequest)
		return
	}
	h.bench.CycleSort(chi.URLParam(r, "id"), col)
	h.respondApp(w, r)
}

// SelectCells starts or extends a rectangular cell selection from the
// anchor/focus query params, each formatted "row,col".
func (h *Handlers) SelectCells(w http.ResponseWriter, r *http.Request) {
	focusRow, focusCol, err := parseCell(r.URL.Query().Get("focus"))
	if err != nil {
		http.Error(w, "bad focus", http.StatusBadRequest)
		return
	}

	anchorRow, anchorCol := -1, -1
	if a := r.URL.Query().Get("anchor"); a != "" {
		if anchorRow, anchorCol, err = parseCell(a); err != nil {
			http.Error(w, "bad anchor", http.StatusBadRequest)
			return
		}
	}

	h.bench.SelectCells(chi.URLParam(r, "id"), anchorRow, anchorCol, focusRow, focusCol)
	h.respondApp(w, r)
}

func parseCell(s string) (row, col int, err error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad cell %q", s)
	}
	if row, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, err
	}
	if col, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, err
	}
	return row, col, nil
}

// CopySelection renders the selection as clipboard text and writes it to the
// browser clipboard.
func (h *Handlers) CopySelection(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	text, err := h.bench.Copy(chi.URLParam(r, "id"))
	if err != nil {
		if perr := sse.PatchElementTempl(components.Toast(err.Error())); perr != nil {
			_ = sse.ConsoleError(perr)
		}
		return
	}

	script := fmt.Sprintf("navigator.clipboard.writeText(%s)", strconv.Quote(text))
	if err := sse.ExecuteScript(script); err != nil {
		_ = sse.ConsoleError(err)
	}
	if err := sse.PatchElementTempl(components.Toast("Copied to clipboard")); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// ExportCSV streams the projected result as a CSV download.
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filename, content, err := h.bench.ExportCSV(chi.URLParam(r, "id"), time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write([]byte(content))
}

// Explorer

// TogglePin flips a table's pinned state in the cookie session.
func (h *Handlers) TogglePin(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table == "" {
		http.Error(w, "missing table", http.StatusBadRequest)
		return
	}

	sess, _ := h.sessionStore.Get(r, sessionName)
	pinned := h.pinnedFromSession(sess)
	if pinned[table] {
		delete(pinned, table)
	} else {
		pinned[table] = true
	}

	names := make([]string, 0, len(pinned))
	for name := range pinned {
		names = append(names, name)
	}
	sess.Values[pinnedKey] = strings.Join(names, ",")
	if err := sess.Save(r, w); err != nil {
		h.logger.Warn("saving session failed", "error", err)
	}

	h.respondApp(w, r)
}

// pinnedTables reads the pinned set from the cookie session.
func (h *Handlers) pinnedTables(r *http.Request) map[string]bool {
	sess, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		return map[string]bool{}
	}
	return h.pinnedFromSession(sess)
}

func (h *Handlers) pinnedFromSession(sess *sessions.Session) map[string]bool {
	pinned := make(map[string]bool)
	raw, _ := sess.Values[pinnedKey].(string)
	for _, name := range strings.Split(raw, ",") {
		if name != "" {
			pinned[name] = true
		}
	}
	return pinned
}

// Helpers

// readSignals reads the datastar signals before opening the SSE stream, which
// consumes the request body. A nil generator means the read failed and the
// error response was already written.
func (h *Handlers) readSignals(w http.ResponseWriter, r *http.Request) (Signals, *datastar.ServerSentEventGenerator) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return signals, nil
	}
	return signals, datastar.NewSSE(w, r)
}

// respondApp patches the full app view back over a fresh SSE response.
func (h *Handlers) respondApp(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	if err := h.patchApp(sse, r); err != nil {
		_ = sse.ConsoleError(err)
	}
}
