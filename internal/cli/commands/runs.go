package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/shepherdvovkes/Motif/internal/cli/output"
	"github.com/shepherdvovkes/Motif/internal/state"
)

// RunsOptions holds options for the runs command.
type RunsOptions struct {
	Limit int
}

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	opts := &RunsOptions{}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent compose runs",
		Long:  `Show the most recent compose runs recorded in the state store, newest first.`,
		Example: `  motif runs
  motif runs --limit 50 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Maximum number of runs to show")

	return cmd
}

func runRuns(cmd *cobra.Command, opts *RunsOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	if cmdCtx.Cfg.NoState {
		return fmt.Errorf("run history is disabled (no_state)")
	}
	if _, err := os.Stat(cmdCtx.Cfg.StatePath); err != nil {
		return fmt.Errorf("no state store at %s; run a compose first", cmdCtx.Cfg.StatePath)
	}

	store := state.NewSQLiteStore(cmdCtx.Logger)
	if err := store.Open(cmdCtx.Cfg.StatePath); err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate state store: %w", err)
	}

	runs, err := store.ListRuns(opts.Limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	records := make([]output.RunRecord, len(runs))
	for i, run := range runs {
		records[i] = output.RunRecord{
			ID:          run.ID,
			Composition: run.Composition,
			Source:      run.Source,
			Status:      string(run.Status),
			Lines:       run.LineCount,
			Error:       run.Error,
			StartedAt:   run.StartedAt.Format(time.RFC3339),
		}
		if run.CompletedAt != nil {
			records[i].CompletedAt = run.CompletedAt.Format(time.RFC3339)
		}
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(records)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, fmt.Sprintf("Runs (%d)", len(records))))
		r.Println("")
		for _, rec := range records {
			r.Println(output.FormatKeyValue(rec.StartedAt,
				fmt.Sprintf("%s %s (%d lines) %s", rec.Composition, rec.Status, rec.Lines, rec.ID)))
		}
		return nil
	default:
		r.Header(1, fmt.Sprintf("Runs (%d)", len(records)))

		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Started", "Composition", "Status", "Lines", "ID"})
		for _, rec := range records {
			t.AppendRow(table.Row{rec.StartedAt, rec.Composition, rec.Status, rec.Lines, rec.ID})
		}
		t.Render()
		return nil
	}
}
