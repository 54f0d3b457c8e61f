package commands

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqldeck/internal/cli/config"
	"github.com/leapstack-labs/sqldeck/internal/ui"
	"github.com/leapstack-labs/sqldeck/internal/ui/resources"
	"github.com/leapstack-labs/sqldeck/internal/workbench"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the sqldeck web workbench",
		Long: `Start a local web server providing the tabbed SQL workbench.

The workbench provides:
- Query tabs with duplicate, rename, and comment support
- A SQL editor with keyword formatting
- A results grid with filtering, sorting, and cell selection
- Copy to clipboard and CSV export
- A schema explorer with pinned tables`,
		Example: `  # Start against the built-in mock backend
  sqldeck serve

  # Start on a custom port against DuckDB
  sqldeck serve --port 3000 --target duckdb --dsn analytics.db

  # Start without auto-opening browser
  sqldeck serve --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Watch static assets and hot-reload the browser")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	uiCfg := cfg.GetUIConfig()

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := uiCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	executor, err := openExecutor(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", cfg.Target.Type, err)
	}

	bench := workbench.New(executor, logger)
	defer func() { _ = bench.Close() }()

	serverCfg := ui.Config{
		Bench:         bench,
		Port:          port,
		Watch:         watch,
		SessionSecret: sessionSecret(uiCfg),
		Logger:        logger,
		StaticDir:     resources.StaticDirectoryPath,
	}

	server := ui.NewServer(serverCfg)

	if autoOpen {
		url := fmt.Sprintf("http://localhost:%d", port)
		go openBrowser(url)
	}

	fmt.Printf("Starting workbench on http://localhost:%d (backend: %s)\n", port, cfg.Target.Type)
	fmt.Println("Press Ctrl+C to stop")

	return server.Serve(ctx)
}

// sessionSecret resolves the cookie-session secret: config, then env, then a
// fixed dev fallback.
func sessionSecret(uiCfg *config.UIConfig) string {
	if uiCfg.SessionSecret != "" {
		return uiCfg.SessionSecret
	}
	if secret := os.Getenv("SQLDECK_SESSION_SECRET"); secret != "" {
		return secret
	}
	return "sqldeck-dev-secret-change-in-production" //nolint:gosec
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
