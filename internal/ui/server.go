// Package ui provides the web workbench server.
package ui

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqldeck/internal/ui/notifier"
	"github.com/leapstack-labs/sqldeck/internal/ui/router"
	"github.com/leapstack-labs/sqldeck/internal/workbench"
)

// Server is the main UI server.
type Server struct {
	bench        *workbench.Workbench
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	staticDir    string
	logger       *slog.Logger
	notifier     *notifier.Notifier
	reload       chan struct{}
}

// Config holds configuration for the UI server.
type Config struct {
	Bench         *workbench.Workbench
	Port          int
	Watch         bool
	SessionSecret string
	Logger        *slog.Logger

	// StaticDir is the on-disk assets directory watched for dev hot reload.
	StaticDir string
}

// NewServer creates a new UI server instance and wires the workbench's
// change notifications into the SSE notifier.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	s := &Server{
		bench:        cfg.Bench,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch,
		staticDir:    cfg.StaticDir,
		logger:       cfg.Logger,
		notifier:     notifier.New(),
		reload:       make(chan struct{}, 1),
	}
	s.bench.SetNotify(s.notifier.Broadcast)
	return s
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting workbench server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.bench, s.sessionStore, s.notifier, s.logger, s.IsDev(), s.reload); err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.staticDir != "" {
		eg.Go(func() error {
			return s.watchAssets(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down workbench server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev reports whether the server runs with dev conveniences enabled.
func (s *Server) IsDev() bool {
	return s.watch
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchAssets watches the static assets directory and pings connected
// browsers to reload when anything changes.
func (s *Server) watchAssets(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, s.staticDir); err != nil {
		s.logger.Error("failed to watch static directory", "error", err)
		// Don't fail - continue without watching
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("asset changed, reloading", "file", event.Name)
				select {
				case s.reload <- struct{}{}:
				default:
				}
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
