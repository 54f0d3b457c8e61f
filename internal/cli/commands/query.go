package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqldeck/internal/editor"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format     string
	File       string
	ListTables bool
	FormatSQL  bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Execute a single SQL statement",
		Long: `Execute a SQL statement against the configured backend and print the
result. The statement comes from the argument, --file, or stdin.`,
		Example: `  # Query the mock backend
  sqldeck query "SELECT * FROM users LIMIT 10;"

  # Query DuckDB, CSV output
  sqldeck -t duckdb --dsn analytics.db -o csv query "SELECT * FROM orders"

  # From a file
  sqldeck query --file report.sql

  # From stdin
  echo "SELECT 1" | sqldeck -t sqlite query

  # List tables instead of running a statement
  sqldeck query --tables`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "", "Output format (table|json|csv|markdown), overrides -o")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Read SQL from a file")
	cmd.Flags().BoolVar(&opts.ListTables, "tables", false, "List tables and views instead of running SQL")
	cmd.Flags().BoolVar(&opts.FormatSQL, "fmt", false, "Print the formatted SQL instead of executing it")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cfg := getConfig()
	format := resolveFormat(opts.Format, cfg)
	ctx := cmd.Context()

	exec, err := openExecutor(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", cfg.Target.Type, err)
	}
	defer func() { _ = exec.Close() }()

	if opts.ListTables {
		tables, err := exec.Catalog(ctx)
		if err != nil {
			return err
		}
		return renderCatalog(cmd.OutOrStdout(), tables, format)
	}

	sql, err := readSQL(cmd, args, opts)
	if err != nil {
		return err
	}
	if strings.TrimSpace(sql) == "" {
		return fmt.Errorf("no SQL to execute (pass an argument, --file, or pipe stdin)")
	}

	if opts.FormatSQL {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), editor.FormatSQL(sql))
		return nil
	}

	res, err := exec.Execute(ctx, sql)
	if err != nil {
		return err
	}
	return renderResult(cmd.OutOrStdout(), res, format)
}

// readSQL resolves the statement source: argument, file, then stdin.
func readSQL(cmd *cobra.Command, args []string, opts *QueryOptions) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", opts.File, err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
