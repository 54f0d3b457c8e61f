// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/sqldeck/internal/runner"
	"github.com/leapstack-labs/sqldeck/internal/testutil"
	"github.com/leapstack-labs/sqldeck/internal/ui/notifier"
	"github.com/leapstack-labs/sqldeck/internal/workbench"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Bench        *workbench.Workbench
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates a workbench session backed by the mock executor
// with no artificial delay, so tests can Run and Wait synchronously.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	bench := workbench.New(&runner.Mock{}, testutil.NewTestLogger(t))
	notify := notifier.New()
	bench.SetNotify(notify.Broadcast)

	t.Cleanup(func() {
		_ = bench.Close()
	})

	return &TestFixture{
		Bench:        bench,
		Notifier:     notify,
		SessionStore: sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!")),
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}
