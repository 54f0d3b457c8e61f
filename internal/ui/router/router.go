// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	workbenchFeature "github.com/leapstack-labs/sqldeck/internal/ui/features/workbench"
	"github.com/leapstack-labs/sqldeck/internal/ui/notifier"
	"github.com/leapstack-labs/sqldeck/internal/ui/resources"
	"github.com/leapstack-labs/sqldeck/internal/workbench"
)

// SetupRoutes configures all routes for the UI server. The reload channel
// carries dev hot-reload pings; nil disables the reload endpoints.
func SetupRoutes(
	router chi.Router,
	bench *workbench.Workbench,
	sessionStore *sessions.CookieStore,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
	reload chan struct{},
) error {
	if isDev && reload != nil {
		setupReload(router, reload)
	}

	router.Handle("/static/*", resources.Handler())

	return workbenchFeature.SetupRoutes(router, bench, sessionStore, notify, logger, isDev)
}

func setupReload(router chi.Router, reloadChan chan struct{}) {
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
