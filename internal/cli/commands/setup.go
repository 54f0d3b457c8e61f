// Package commands implements the sqldeck subcommands.
package commands

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/leapstack-labs/sqldeck/internal/cli/config"
	"github.com/leapstack-labs/sqldeck/internal/runner"
)

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	targetType := os.Getenv("SQLDECK_TARGET__TYPE")
	if targetType == "" {
		targetType = config.DefaultTargetType
	}
	mockDelayMS, _ := strconv.Atoi(os.Getenv("SQLDECK_TARGET__MOCK_DELAY_MS"))

	return &config.Config{
		Target: &config.TargetConfig{
			Type:        targetType,
			DSN:         os.Getenv("SQLDECK_TARGET__DSN"),
			MockDelayMS: mockDelayMS,
		},
		OutputFormat: config.DefaultOutput,
	}
}

// openExecutor dials the configured backend.
func openExecutor(ctx context.Context, cfg *config.Config) (runner.Executor, error) {
	return runner.Open(ctx, runner.Target{
		Type:      cfg.Target.Type,
		DSN:       cfg.Target.DSN,
		MockDelay: time.Duration(cfg.Target.MockDelayMS) * time.Millisecond,
	})
}

// resolveFormat picks the output format: the command flag when set, the
// configured default otherwise.
func resolveFormat(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.OutputFormat != "" {
		return cfg.OutputFormat
	}
	return config.DefaultOutput
}
