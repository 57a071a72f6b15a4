package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shepherdvovkes/Motif/internal/cli/output"
	"github.com/shepherdvovkes/Motif/pkg/program"
	"github.com/shepherdvovkes/Motif/pkg/reader"
	"github.com/shepherdvovkes/Motif/pkg/resolve"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a program without executing it",
		Long: `Parse a MOTIF program, build its declaration table, and resolve every
composition, reporting all diagnostics. Nothing is executed.

Resolution is lazy per composition, so a program can carry unreferenced
or even unresolvable declarations without failing compose; check resolves
every composition to surface those problems ahead of time.`,
		Example: `  motif check poem.motif
  motif check poem.motif --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	file, err := programFile(cmdCtx.Cfg, args)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer

	// Load failures (syntax, malformed declarations) are themselves the
	// check result, not a command error.
	if err := cmdCtx.Engine.LoadFile(file); err != nil {
		issues := []output.CheckIssue{{Code: issueCode(err), Message: err.Error()}}
		reportIssues(r, issues)
		return fmt.Errorf("check failed: 1 issue")
	}

	tbl := cmdCtx.Engine.Table()
	resolver := resolve.NewWithSchema(tbl, cmdCtx.Engine.Schema())

	var issues []output.CheckIssue
	for _, name := range tbl.ByKind(program.KindComposition) {
		if _, err := resolver.Resolve(name); err != nil {
			issues = append(issues, output.CheckIssue{
				Code:    issueCode(err),
				Name:    name,
				Message: err.Error(),
			})
		}
	}

	reportIssues(r, issues)
	if len(issues) > 0 {
		return fmt.Errorf("check failed: %d issue(s)", len(issues))
	}
	return nil
}

// issueCode extracts the typed error code when there is one.
func issueCode(err error) string {
	var refErr *resolve.ReferenceError
	if errors.As(err, &refErr) {
		return refErr.Code
	}
	var synErr *reader.SyntaxError
	if errors.As(err, &synErr) {
		return synErr.Code
	}
	var declErr *program.DeclarationError
	if errors.As(err, &declErr) {
		return declErr.Code
	}
	return "LoadError"
}

func reportIssues(r *output.Renderer, issues []output.CheckIssue) {
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(output.CheckOutput{OK: len(issues) == 0, Issues: issues})
		return
	}

	if len(issues) == 0 {
		r.Success("no issues found")
		return
	}
	for _, issue := range issues {
		parts := []string{issue.Code}
		if issue.Name != "" {
			parts = append(parts, issue.Name)
		}
		r.Error(strings.Join(parts, " ") + ": " + issue.Message)
	}
}
