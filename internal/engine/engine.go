// Package engine executes MOTIF programs. It owns the back half of the
// pipeline: loading source into a declaration table, resolving compose
// directives into trees, and flattening those trees into output text.
package engine

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shepherdvovkes/Motif/internal/enrich"
	"github.com/shepherdvovkes/Motif/internal/state"
	"github.com/shepherdvovkes/Motif/pkg/program"
	"github.com/shepherdvovkes/Motif/pkg/reader"
	"github.com/shepherdvovkes/Motif/pkg/resolve"
)

// Engine orchestrates loading and executing MOTIF programs. One engine holds
// at most one loaded program at a time; Load replaces the previous table
// wholesale, so nothing leaks between programs.
type Engine struct {
	// Structured logger
	logger *slog.Logger

	schema resolve.Schema
	store  state.Store
	enrich *enrich.Registry

	source     string // path of the loaded file, empty for string input
	table      *program.Table
	directives []program.Directive
}

// Config holds engine configuration.
type Config struct {
	// Schema is the reference schema used during resolution (default schema if nil)
	Schema resolve.Schema
	// Store records compose runs (optional; runs are not recorded if nil)
	Store state.Store
	// Enrich rewrites call forms before the table is built (optional)
	Enrich *enrich.Registry
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine. Call Load before executing anything.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	schema := cfg.Schema
	if schema == nil {
		schema = resolve.DefaultSchema()
	}

	return &Engine{
		logger: logger,
		schema: schema,
		store:  cfg.Store,
		enrich: cfg.Enrich,
	}
}

// Load parses source text, applies enrichment, and builds the declaration
// table and directive list, replacing any previously loaded program.
func (e *Engine) Load(input string) error {
	forms, err := reader.Read(input)
	if err != nil {
		return err
	}

	forms, err = e.enrich.Apply(forms)
	if err != nil {
		return err
	}

	table, directives, err := program.Build(forms)
	if err != nil {
		return err
	}

	e.source = ""
	e.table = table
	e.directives = directives

	e.logger.Debug("program loaded",
		"declarations", table.Len(),
		"directives", len(directives))
	return nil
}

// LoadFile loads a program from a file, recording the path for run history.
func (e *Engine) LoadFile(path string) error {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path is the user's program file
	if err != nil {
		return fmt.Errorf("failed to read program: %w", err)
	}
	if err := e.Load(string(content)); err != nil {
		return err
	}
	e.source = path
	return nil
}

// Close releases the state store, if one was attached.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// Table returns the loaded declaration table (nil before Load).
func (e *Engine) Table() *program.Table {
	return e.table
}

// Directives returns the loaded program's directives in source order.
func (e *Engine) Directives() []program.Directive {
	return e.directives
}

// Schema returns the reference schema the engine resolves with.
func (e *Engine) Schema() resolve.Schema {
	return e.schema
}
