package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shepherdvovkes/Motif/pkg/reader"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Format string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a program and dump its syntax tree",
		Long: `Parse a MOTIF program and dump the raw syntax tree, before enrichment
or table construction. Useful for debugging programs and enrichment
handlers.`,
		Example: `  motif parse poem.motif --format json
  motif parse poem.motif --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "json", "Dump format (json|yaml)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	file, err := programFile(cmdCtx.Cfg, args)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(file) //nolint:gosec // G304: path is the user's program file
	if err != nil {
		return fmt.Errorf("failed to read program: %w", err)
	}

	forms, err := reader.Read(string(content))
	if err != nil {
		return err
	}

	tree := make([]any, len(forms))
	for i, form := range forms {
		tree[i] = nodeValue(form)
	}

	r := cmdCtx.Renderer
	switch opts.Format {
	case "json":
		return r.JSON(tree)
	case "yaml":
		out, err := yaml.Marshal(tree)
		if err != nil {
			return fmt.Errorf("failed to marshal tree: %w", err)
		}
		_, err = r.Writer().Write(out)
		return err
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", opts.Format)
	}
}

// nodeValue converts a syntax node to a plain value for serialization.
// Symbols and strings are kept distinguishable.
func nodeValue(n reader.Node) any {
	switch v := n.(type) {
	case *reader.Symbol:
		return map[string]any{"symbol": v.Name}
	case *reader.String:
		return map[string]any{"string": v.Value}
	case *reader.Number:
		if v.IsInt() {
			return map[string]any{"number": v.Int()}
		}
		return map[string]any{"number": v.Value}
	case *reader.Form:
		children := make([]any, len(v.Children))
		for i, c := range v.Children {
			children[i] = nodeValue(c)
		}
		return children
	default:
		return v.Sexpr()
	}
}
