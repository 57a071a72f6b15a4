// Package commands implements the motif CLI subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shepherdvovkes/Motif/internal/cli/config"
	"github.com/shepherdvovkes/Motif/internal/cli/output"
	"github.com/shepherdvovkes/Motif/internal/engine"
	"github.com/shepherdvovkes/Motif/internal/enrich"
	"github.com/shepherdvovkes/Motif/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := newLogger(cfg.Verbose)

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that operate on the state store or config alone.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   newLogger(cfg.Verbose),
		Renderer: r,
	}
}

// getConfig returns the current configuration, falling back to defaults
// when the root command's config load has not run (direct command tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		EnrichDir:    config.DefaultEnrichDir,
		StatePath:    config.DefaultStateFile,
		OutputFormat: config.DefaultOutput,
		NoState:      true,
	}
}

// newLogger builds the CLI logger: text to stderr, debug when verbose.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// createEngine builds an engine from config: enrichment handlers loaded
// from the enrich dir, run history recorded unless disabled.
func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	registry := enrich.NewRegistry()
	if err := enrich.LoadDir(cfg.EnrichDir, registry); err != nil {
		return nil, fmt.Errorf("failed to load enrichments: %w", err)
	}

	var store state.Store
	if !cfg.NoState {
		stateDir := filepath.Dir(cfg.StatePath)
		if stateDir != "." && stateDir != "" {
			if err := os.MkdirAll(stateDir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}

		s := state.NewSQLiteStore(logger)
		if err := s.Open(cfg.StatePath); err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		if err := s.Migrate(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to migrate state store: %w", err)
		}
		store = s
	}

	return engine.New(engine.Config{
		Logger: logger,
		Store:  store,
		Enrich: registry,
	}), nil
}

// programFile resolves the program file for a command: the positional
// argument if given, else the configured default.
func programFile(cfg *config.Config, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Program != "" {
		return cfg.Program, nil
	}
	return "", fmt.Errorf("no program file: pass one as an argument or set 'program' in motif.yaml")
}
