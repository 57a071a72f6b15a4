package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/shepherdvovkes/Motif/internal/cli/output"
	"github.com/shepherdvovkes/Motif/internal/engine"
)

// ComposeOptions holds options for the compose command.
type ComposeOptions struct {
	Name  string
	Out   string
	Watch bool
}

// NewComposeCommand creates the compose command.
func NewComposeCommand() *cobra.Command {
	opts := &ComposeOptions{}

	cmd := &cobra.Command{
		Use:   "compose [file]",
		Short: "Execute a program's compose directives and print the output",
		Long: `Load a MOTIF program, execute its compose directives in source order,
and print the rendered text.

Use --name to compose one composition directly, ignoring the program's
directives. Use --watch to re-render whenever the file changes.`,
		Example: `  # Execute every directive in the program
  motif compose poem.motif

  # Compose one composition by name
  motif compose poem.motif --name absurdist-poem

  # Write the rendered text to a file
  motif compose poem.motif --out poem.txt

  # Re-render on save
  motif compose poem.motif --watch`,
		Aliases: []string{"run"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Compose a single composition by name")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write rendered text to a file instead of stdout")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-render when the program file changes")

	return cmd
}

func runCompose(cmd *cobra.Command, args []string, opts *ComposeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	file, err := programFile(cmdCtx.Cfg, args)
	if err != nil {
		return err
	}

	if opts.Watch {
		return watchCompose(cmd, cmdCtx, file, opts)
	}
	return composeOnce(cmd, cmdCtx, file, opts)
}

func composeOnce(cmd *cobra.Command, cmdCtx *CommandContext, file string, opts *ComposeOptions) error {
	eng := cmdCtx.Engine
	if err := eng.LoadFile(file); err != nil {
		return err
	}

	ctx := cmd.Context()
	var results []*engine.Result
	if opts.Name != "" {
		result, err := eng.Compose(ctx, opts.Name)
		if err != nil {
			return err
		}
		results = append(results, result)
	} else {
		var err error
		results, err = eng.Run(ctx)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return fmt.Errorf("program has no compose directives; use --name to pick a composition")
		}
	}

	r := cmdCtx.Renderer
	if opts.Out != "" {
		var sb strings.Builder
		for _, res := range results {
			sb.WriteString(res.Text)
		}
		if err := os.WriteFile(opts.Out, []byte(sb.String()), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		r.Success(fmt.Sprintf("wrote %s", opts.Out))
		return nil
	}

	if r.EffectiveMode() == output.ModeJSON {
		outputs := make([]output.ComposeOutput, len(results))
		for i, res := range results {
			outputs[i] = output.ComposeOutput{
				RunID:       res.RunID,
				Composition: res.Root,
				Lines:       res.Lines,
				Text:        res.Text,
				DurationMS:  res.Duration.Milliseconds(),
			}
		}
		return r.JSON(outputs)
	}

	// The rendered text is the product; print it verbatim in every
	// non-JSON mode.
	for _, res := range results {
		r.Printf("%s", res.Text)
	}
	return nil
}

// watchCompose re-renders on every change to the program file.
func watchCompose(cmd *cobra.Command, cmdCtx *CommandContext, file string, opts *ComposeOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors commonly replace the file on save,
	// which drops a watch on the file itself.
	dir := filepath.Dir(file)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	render := func() {
		if err := composeOnce(cmd, cmdCtx, file, opts); err != nil {
			cmdCtx.Renderer.Error(err.Error())
		}
	}
	render()

	target, _ := filepath.Abs(file)
	var debounceTimer *time.Timer

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			changed, _ := filepath.Abs(event.Name)
			if changed != target {
				continue
			}

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				cmdCtx.Logger.Debug("program changed, re-rendering", "file", event.Name)
				render()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Error("watcher error", "error", err)
		}
	}
}
