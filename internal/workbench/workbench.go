// Package workbench composes the tab store, query runner, editor surface,
// and results grids into one SQL workbench session. It is the seam the web
// UI and the CLI drive.
package workbench

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/sqldeck/internal/editor"
	"github.com/leapstack-labs/sqldeck/internal/results"
	"github.com/leapstack-labs/sqldeck/internal/runner"
	"github.com/leapstack-labs/sqldeck/internal/session"
	"github.com/leapstack-labs/sqldeck/pkg/core"
)

// Workbench is one workbench session: an ordered set of tabs, their result
// grids, and a runner bound to an executor. Multiple independent sessions
// can coexist; nothing here is process-global.
type Workbench struct {
	store  *session.Store
	runner *runner.Runner
	logger *slog.Logger
	notify func()

	mu    sync.Mutex
	grids map[string]*results.Grid
}

// New creates a workbench session with one blank tab.
func New(exec runner.Executor, logger *slog.Logger) *Workbench {
	if logger == nil {
		logger = slog.Default()
	}
	store := session.NewStore()
	w := &Workbench{
		store:  store,
		runner: runner.New(store, exec, logger),
		logger: logger,
		grids:  make(map[string]*results.Grid),
	}
	return w
}

// SetNotify installs a hook fired after every mutation, including async run
// completions. The UI uses it to broadcast SSE updates.
func (w *Workbench) SetNotify(fn func()) {
	w.notify = fn
	w.runner.SetNotify(fn)
}

func (w *Workbench) changed() {
	if w.notify != nil {
		w.notify()
	}
}

// Tabs returns snapshots of all open tabs in display order.
func (w *Workbench) Tabs() []*session.Tab {
	return w.store.Tabs()
}

// Tab returns a snapshot of one tab, nil if unknown.
func (w *Workbench) Tab(id string) *session.Tab {
	return w.store.Get(id)
}

// Active returns a snapshot of the active tab.
func (w *Workbench) Active() *session.Tab {
	return w.store.Active()
}

// ActiveID returns the active tab id.
func (w *Workbench) ActiveID() string {
	return w.store.ActiveID()
}

// AddTab opens a blank tab and activates it.
func (w *Workbench) AddTab() string {
	id := w.store.Add()
	w.changed()
	return id
}

// DuplicateTab clones a tab per the store's duplication rules.
func (w *Workbench) DuplicateTab(id string) string {
	cloneID := w.store.Duplicate(id)
	if cloneID != "" {
		w.changed()
	}
	return cloneID
}

// CloseTab closes a tab and drops its grid state.
func (w *Workbench) CloseTab(id string) {
	w.store.Close(id)

	w.mu.Lock()
	delete(w.grids, id)
	w.mu.Unlock()

	w.changed()
}

// RenameTab patches a tab's display name.
func (w *Workbench) RenameTab(id, name string) {
	w.store.Rename(id, name)
	w.changed()
}

// SetComment patches a tab's annotation.
func (w *Workbench) SetComment(id, comment string) {
	w.store.Update(id, session.TabPatch{Comment: &comment})
	w.changed()
}

// SelectTab moves the active pointer.
func (w *Workbench) SelectTab(id string) {
	w.store.SetActive(id)
	w.changed()
}

// SetSQL records the editor buffer text for a tab. Called on every
// keystroke; deliberately does not notify, the typing client already has
// the text.
func (w *Workbench) SetSQL(id, sql string) {
	w.store.Update(id, session.TabPatch{SQL: &sql})
}

// InsertAtCursor inserts text into a tab's buffer at the given selection
// range, replacing it, and returns the new text plus the caret position
// after the insertion.
func (w *Workbench) InsertAtCursor(id, text string, selStart, selEnd int) (string, int) {
	tab := w.store.Get(id)
	if tab == nil {
		return "", 0
	}

	buf := editor.NewBuffer(tab.SQL)
	buf.Select(selStart, selEnd)
	buf.InsertAtCursor(text)

	newSQL := buf.Text()
	w.store.Update(id, session.TabPatch{SQL: &newSQL})
	caret, _ := buf.Caret()
	return newSQL, caret
}

// Run executes a tab's SQL. When the tab has a non-collapsed selection the
// caller passes it as sql; the full buffer otherwise.
func (w *Workbench) Run(ctx context.Context, id, sql string) {
	w.runner.Run(ctx, id, sql)
	w.changed()
}

// Format rewrites a tab's buffer with the keyword formatter and returns the
// formatted text. On an unknown tab the buffer is left untouched and ok is
// false.
func (w *Workbench) Format(id string) (string, bool) {
	tab := w.store.Get(id)
	if tab == nil {
		return "", false
	}

	formatted := editor.FormatSQL(tab.SQL)
	w.store.Update(id, session.TabPatch{SQL: &formatted})
	return formatted, true
}

// Grid returns the results grid for a tab, bound to the tab's current
// result. Projection state survives re-renders and resets when the result
// identity changes.
func (w *Workbench) Grid(id string) *results.Grid {
	var g *results.Grid
	w.withGrid(id, func(grid *results.Grid) { g = grid })
	return g
}

// withGrid runs fn with the tab's grid under the workbench lock, creating
// the grid on first use and rebinding it to the tab's current result.
func (w *Workbench) withGrid(id string, fn func(*results.Grid)) bool {
	tab := w.store.Get(id)
	if tab == nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	g, ok := w.grids[id]
	if !ok {
		g = results.NewGrid(tab.Result)
		w.grids[id] = g
	} else {
		g.SetResult(tab.Result)
	}
	fn(g)
	return true
}

// SetFilter sets one column filter on a tab's grid.
func (w *Workbench) SetFilter(id string, col int, filter string) {
	if w.withGrid(id, func(g *results.Grid) { g.SetFilter(col, filter) }) {
		w.changed()
	}
}

// CycleSort advances the header-click sort cycle for a column.
func (w *Workbench) CycleSort(id string, col int) {
	if w.withGrid(id, func(g *results.Grid) { g.CycleSort(col) }) {
		w.changed()
	}
}

// SelectCells starts or extends a rectangular cell selection. A negative
// anchor row extends the in-progress drag instead of starting a new one.
func (w *Workbench) SelectCells(id string, anchorRow, anchorCol, focusRow, focusCol int) {
	if w.withGrid(id, func(g *results.Grid) {
		if anchorRow >= 0 {
			g.StartCellSelection(anchorRow, anchorCol)
		}
		g.ExtendCellSelection(focusRow, focusCol)
	}) {
		w.changed()
	}
}

// GridState is a consistent snapshot of one grid's projection, taken under
// the workbench lock so renderers never see a half-applied mutation.
type GridState struct {
	View      results.View
	Filters   []string
	Sort      *results.Sort
	Selection results.Selection
}

// GridState snapshots a tab's projection for rendering.
func (w *Workbench) GridState(id string) (GridState, bool) {
	var st GridState
	ok := w.withGrid(id, func(g *results.Grid) {
		st = GridState{
			View:      g.View(),
			Filters:   g.Filters(),
			Sort:      g.Sort(),
			Selection: g.Selection(),
		}
	})
	return st, ok
}

// ClearSelection drops a tab's grid selection.
func (w *Workbench) ClearSelection(id string) {
	if w.withGrid(id, func(g *results.Grid) { g.ClearSelection() }) {
		w.changed()
	}
}

// Copy renders the active selection of a tab's grid as clipboard text.
func (w *Workbench) Copy(id string) (string, error) {
	text, err := "", results.ErrNoRows
	w.withGrid(id, func(g *results.Grid) {
		text, err = g.CopyText()
	})
	return text, err
}

// ExportCSV renders a tab's projected result as CSV and derives the
// download filename.
func (w *Workbench) ExportCSV(id string, now time.Time) (filename, content string, err error) {
	tab := w.store.Get(id)
	if tab == nil {
		return "", "", results.ErrNoRows
	}

	err = results.ErrNoRows
	w.withGrid(id, func(g *results.Grid) {
		content, err = g.ExportCSV()
	})
	if err != nil {
		return "", "", err
	}
	return results.ExportFilename(tab.Name, now), content, nil
}

// Catalog lists the executor's tables for the schema explorer.
func (w *Workbench) Catalog(ctx context.Context) ([]core.Table, error) {
	return w.runner.Catalog(ctx)
}

// Wait blocks until in-flight runs complete. Tests use it.
func (w *Workbench) Wait() {
	w.runner.Wait()
}

// Close waits for in-flight runs and closes the executor.
func (w *Workbench) Close() error {
	return w.runner.Close()
}
