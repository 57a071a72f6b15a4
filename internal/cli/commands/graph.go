package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shepherdvovkes/Motif/internal/cli/output"
	"github.com/shepherdvovkes/Motif/internal/dag"
	"github.com/shepherdvovkes/Motif/pkg/resolve"
)

// GraphOptions holds options for the graph command.
type GraphOptions struct {
	Root string
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	opts := &GraphOptions{}

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Show the reference graph of a program",
		Long: `Show which declarations reference which, across the whole program.

With --root, resolve one declaration and print its reference tree instead.`,
		Example: `  # Whole-program reference graph
  motif graph poem.motif

  # Reference tree of one composition
  motif graph poem.motif --root absurdist-poem`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Root, "root", "", "Show the resolved reference tree of one declaration")

	return cmd
}

func runGraph(cmd *cobra.Command, args []string, opts *GraphOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	file, err := programFile(cmdCtx.Cfg, args)
	if err != nil {
		return err
	}
	if err := cmdCtx.Engine.LoadFile(file); err != nil {
		return err
	}

	if opts.Root != "" {
		return graphTree(cmdCtx, opts.Root)
	}
	return graphWhole(cmdCtx)
}

// graphTree resolves one root and prints its tree, indented by depth.
func graphTree(cmdCtx *CommandContext, root string) error {
	resolver := resolve.NewWithSchema(cmdCtx.Engine.Table(), cmdCtx.Engine.Schema())
	node, err := resolver.Resolve(root)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	var print func(n *resolve.Node, depth int)
	print = func(n *resolve.Node, depth int) {
		indent := strings.Repeat("  ", depth)
		r.Printf("%s%s %s\n", indent, n.Name(), r.Muted("["+n.Kind()+"]"))
		for _, c := range n.Children {
			print(c, depth+1)
		}
	}
	print(node, 0)
	return nil
}

// graphWhole prints the full reference graph.
func graphWhole(cmdCtx *CommandContext) error {
	graph := dag.FromTable(cmdCtx.Engine.Table(), cmdCtx.Engine.Schema())
	r := cmdCtx.Renderer

	if r.EffectiveMode() == output.ModeJSON {
		return graphJSON(r, cmdCtx, graph)
	}

	r.Header(1, "Reference Graph")

	for _, name := range cmdCtx.Engine.Table().Names() {
		refs := graph.References(name)
		referencers := graph.Referencers(name)

		r.Println(name)
		if len(refs) > 0 {
			r.Printf("  %s %s\n", r.Muted("references:"), strings.Join(refs, ", "))
		}
		if len(referencers) > 0 {
			r.Printf("  %s %s\n", r.Muted("referenced by:"), strings.Join(referencers, ", "))
		}
	}

	for name, missing := range graph.Dangling() {
		r.Warning(fmt.Sprintf("%s references undeclared: %s", name, strings.Join(missing, ", ")))
	}

	if cyclic, cycle := graph.HasCycle(); cyclic {
		r.Error("cycle: " + strings.Join(cycle, " -> "))
	}

	r.Println()
	r.Printf("Total: %d declarations, %d references\n", graph.NodeCount(), graph.EdgeCount())
	return nil
}

func graphJSON(r *output.Renderer, cmdCtx *CommandContext, graph *dag.Graph) error {
	tbl := cmdCtx.Engine.Table()

	var out output.GraphOutput
	for _, name := range tbl.Names() {
		decl, _ := tbl.Lookup(name)
		out.Nodes = append(out.Nodes, output.GraphNode{Name: name, Kind: decl.Kind})
		for _, ref := range graph.References(name) {
			out.Edges = append(out.Edges, output.GraphEdge{From: name, To: ref})
		}
	}
	for name, missing := range graph.Dangling() {
		for _, m := range missing {
			out.Dangling = append(out.Dangling, name+" -> "+m)
		}
	}
	return r.JSON(out)
}
