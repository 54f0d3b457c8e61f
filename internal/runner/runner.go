package runner

import (
	"context"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/sqldeck/internal/session"
	"github.com/leapstack-labs/sqldeck/pkg/core"
)

// Runner binds an Executor to the tab store and manages the per-tab run
// lifecycle: Idle -> Running -> {Succeeded, Failed} -> Idle.
type Runner struct {
	store  *session.Store
	exec   Executor
	logger *slog.Logger
	notify func()

	mu  sync.Mutex
	gen map[string]uint64
	wg  sync.WaitGroup
}

// New creates a runner. The notify hook, if set, fires after every
// completion patch so the UI can re-render.
func New(store *session.Store, exec Executor, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:  store,
		exec:   exec,
		logger: logger,
		gen:    make(map[string]uint64),
	}
}

// SetNotify installs the post-completion hook.
func (r *Runner) SetNotify(fn func()) {
	r.notify = fn
}

// Run starts executing sql for the tab. The pre-run patch - running, no
// error, no result - is applied synchronously before this returns, so
// callers observe the loading state with no stale rows. Completion happens
// on a background goroutine and applies exactly one of result or error.
//
// Overlapping runs on the same tab are resolved last-issued-wins: starting a
// new run supersedes the previous one, whose completion is discarded.
// Unknown tab ids are a no-op.
func (r *Runner) Run(ctx context.Context, tabID, sql string) {
	if r.store.Get(tabID) == nil {
		return
	}

	r.mu.Lock()
	r.gen[tabID]++
	gen := r.gen[tabID]
	r.mu.Unlock()

	r.store.Update(tabID, session.TabPatch{
		IsRunning: session.Ptr(true),
		Error:     session.Ptr(""),
		Result:    session.Ptr[*core.Result](nil),
	})

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		res, err := r.exec.Execute(ctx, sql)

		r.mu.Lock()
		superseded := r.gen[tabID] != gen
		r.mu.Unlock()
		if superseded {
			r.logger.Debug("discarding superseded run", "tab", tabID)
			return
		}

		if err != nil {
			r.logger.Debug("query failed", "tab", tabID, "error", err)
			r.store.Update(tabID, session.TabPatch{
				IsRunning: session.Ptr(false),
				Error:     session.Ptr(err.Error()),
				Result:    session.Ptr[*core.Result](nil),
			})
		} else {
			r.logger.Debug("query succeeded", "tab", tabID, "rows", res.RowCount())
			r.store.Update(tabID, session.TabPatch{
				IsRunning: session.Ptr(false),
				Error:     session.Ptr(""),
				Result:    session.Ptr(res),
			})
		}

		if r.notify != nil {
			r.notify()
		}
	}()
}

// Catalog proxies to the executor.
func (r *Runner) Catalog(ctx context.Context) ([]core.Table, error) {
	return r.exec.Catalog(ctx)
}

// Wait blocks until all in-flight runs have completed. Used by tests and
// shutdown.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close waits for in-flight runs and closes the executor.
func (r *Runner) Close() error {
	r.wg.Wait()
	return r.exec.Close()
}
