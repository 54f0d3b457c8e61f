package workbench

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/sqldeck/internal/ui/notifier"
	wb "github.com/leapstack-labs/sqldeck/internal/workbench"
)

// SetupRoutes configures routes for the workbench feature.
func SetupRoutes(
	router chi.Router,
	bench *wb.Workbench,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(bench, sessionStore, notify, logger, isDev)

	router.Get("/", handlers.WorkbenchPage)
	router.Get("/updates", handlers.Updates)

	router.Route("/api/tabs", func(r chi.Router) {
		r.Post("/add", handlers.AddTab)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/select", handlers.SelectTab)
			r.Post("/close", handlers.CloseTab)
			r.Post("/duplicate", handlers.DuplicateTab)
			r.Post("/rename", handlers.RenameTab)
			r.Post("/comment", handlers.SetComment)
			r.Post("/sql", handlers.SetSQL)
			r.Post("/run", handlers.RunQuery)
			r.Post("/format", handlers.FormatQuery)
			r.Post("/insert", handlers.InsertText)
			r.Post("/filter/{col}", handlers.SetFilter)
			r.Post("/sort/{col}", handlers.CycleSort)
			r.Post("/select-cells", handlers.SelectCells)
			r.Post("/copy", handlers.CopySelection)
			r.Get("/export", handlers.ExportCSV)
		})
	})

	router.Post("/api/explorer/pin", handlers.TogglePin)

	return nil
}
