package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqldeck/internal/cli/output"
	"github.com/leapstack-labs/sqldeck/internal/editor"
	"github.com/leapstack-labs/sqldeck/internal/runner"
)

// REPLOptions holds options for the repl command.
type REPLOptions struct {
	Format string
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	opts := &REPLOptions{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive SQL shell",
		Long: `Start an interactive SQL shell against the configured backend.

Statements end with a semicolon and may span multiple lines. Dot-commands
control the session; type .help to list them.`,
		Example: `  # REPL on the mock backend
  sqldeck repl

  # REPL on a DuckDB file
  sqldeck -t duckdb --dsn analytics.db repl`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "", "Output format (table|json|csv|markdown), overrides -o")

	return cmd
}

func runREPL(cmd *cobra.Command, opts *REPLOptions) error {
	cfg := getConfig()
	format := resolveFormat(opts.Format, cfg)
	ctx := cmd.Context()

	exec, err := openExecutor(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", cfg.Target.Type, err)
	}
	defer func() { _ = exec.Close() }()

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr())
	styles := r.Styles()

	historyFile := filepath.Join(os.TempDir(), "sqldeck_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sqldeck> ",
		HistoryFile:     historyFile,
		AutoComplete:    newTableCompleter(ctx, exec),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r.Println(styles.Title.Render(fmt.Sprintf("sqldeck REPL (backend: %s)", cfg.Target.Type)))
	r.Println(styles.Muted.Render("Type .help for commands, .quit to exit"))
	r.Println()

	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt("sqldeck> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Handle dot-commands
		if strings.HasPrefix(line, ".") && multiLineBuffer.Len() == 0 {
			if handleDotCommand(ctx, r, exec, line, format) {
				if line == ".quit" || line == ".exit" {
					break
				}
				continue
			}
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt("    ...> ")
			continue
		}
		rl.SetPrompt("sqldeck> ")

		query := multiLineBuffer.String()
		multiLineBuffer.Reset()

		res, err := exec.Execute(ctx, query)
		if err != nil {
			r.Errorf("%v", err)
			continue
		}
		if err := renderResult(r.Writer(), res, format); err != nil {
			r.Errorf("%v", err)
		}
		r.Println()
	}

	return nil
}

func handleDotCommand(ctx context.Context, r *output.Renderer, exec runner.Executor, line, format string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r)
		return true

	case ".tables":
		tables, err := exec.Catalog(ctx)
		if err != nil {
			r.Errorf("%v", err)
			return true
		}
		if err := renderCatalog(r.Writer(), tables, format); err != nil {
			r.Errorf("%v", err)
		}
		return true

	case ".schema":
		if len(parts) < 2 {
			r.Errorf("usage: .schema <table>")
			return true
		}
		tables, err := exec.Catalog(ctx)
		if err != nil {
			r.Errorf("%v", err)
			return true
		}
		for _, t := range tables {
			if t.Name == parts[1] || t.Qualified() == parts[1] {
				if err := renderSchema(r.Writer(), t, format); err != nil {
					r.Errorf("%v", err)
				}
				return true
			}
		}
		r.Errorf("table or view %q not found", parts[1])
		return true

	case ".fmt":
		if len(parts) < 2 {
			r.Errorf("usage: .fmt <sql>")
			return true
		}
		r.Println(editor.FormatSQL(strings.Join(parts[1:], " ")))
		return true

	case ".clear":
		fmt.Print("\033[H\033[2J")
		return true

	default:
		r.Errorf("unknown command: %s (type .help for commands)", command)
		return true
	}
}

func printREPLHelp(r *output.Renderer) {
	help := `
Commands:
  .help           Show this help message
  .tables         List all tables and views
  .schema <name>  Show columns for a table or view
  .fmt <sql>      Print SQL with keywords formatted
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	r.Println(help)
}

// newTableCompleter creates a readline completer for table names.
func newTableCompleter(ctx context.Context, exec runner.Executor) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	tables, err := exec.Catalog(ctx)
	if err == nil {
		for _, t := range tables {
			items = append(items, readline.PcItem(t.Name), readline.PcItem(t.Qualified()))
		}
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema"),
		readline.PcItem(".fmt"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
