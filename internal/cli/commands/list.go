package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/shepherdvovkes/Motif/internal/cli/output"
	"github.com/shepherdvovkes/Motif/internal/engine"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [file]",
		Short: "List a program's declarations",
		Long: `List every declaration in a MOTIF program with its kind, fields,
and the declarations it references.

Output adapts to environment:
  - Terminal: styled table
  - Piped/Scripted: markdown (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List declarations (auto-detect output format)
  motif list poem.motif

  # List declarations as JSON
  motif list poem.motif --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
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

	infos := declarationInfos(cmdCtx.Engine)
	r := cmdCtx.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listJSON(r, infos)
	case output.ModeMarkdown:
		return listMarkdown(r, infos)
	default:
		return listText(r, infos)
	}
}

// declarationInfos collects every declaration with its schema references,
// in kind-then-name order.
func declarationInfos(eng *engine.Engine) []output.DeclarationInfo {
	tbl := eng.Table()
	schema := eng.Schema()

	var infos []output.DeclarationInfo
	for _, kind := range tbl.Kinds() {
		for _, name := range tbl.ByKind(kind) {
			decl, _ := tbl.Lookup(name)

			var fields []string
			for _, f := range decl.Fields {
				fields = append(fields, f.Name)
			}

			var refs []string
			for _, ref := range schema.RefFields(kind) {
				refs = append(refs, decl.SymbolList(ref.Field)...)
			}

			infos = append(infos, output.DeclarationInfo{
				Name:       name,
				Kind:       kind,
				Fields:     fields,
				References: refs,
			})
		}
	}
	return infos
}

func listSummary(infos []output.DeclarationInfo) output.ListSummary {
	byKind := make(map[string]int)
	for _, info := range infos {
		byKind[info.Kind]++
	}
	return output.ListSummary{Total: len(infos), ByKind: byKind}
}

// listText outputs declarations as a styled table.
func listText(r *output.Renderer, infos []output.DeclarationInfo) error {
	r.Header(1, fmt.Sprintf("Declarations (%d total)", len(infos)))

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Kind", "Fields", "References"})

	for _, info := range infos {
		t.AppendRow(table.Row{
			info.Name,
			info.Kind,
			strings.Join(info.Fields, ", "),
			strings.Join(info.References, ", "),
		})
	}
	t.Render()
	return nil
}

// listMarkdown outputs declarations in markdown format.
func listMarkdown(r *output.Renderer, infos []output.DeclarationInfo) error {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Declarations (%d total)", len(infos))))
	r.Println("")

	currentKind := ""
	for _, info := range infos {
		if info.Kind != currentKind {
			currentKind = info.Kind
			r.Println(output.FormatHeader(2, currentKind))
		}
		value := strings.Join(info.Fields, ", ")
		if len(info.References) > 0 {
			value += " -> " + strings.Join(info.References, ", ")
		}
		r.Println(output.FormatKeyValue(info.Name, value))
	}
	return nil
}

// listJSON outputs declarations as JSON.
func listJSON(r *output.Renderer, infos []output.DeclarationInfo) error {
	return r.JSON(output.ListOutput{
		Declarations: infos,
		Summary:      listSummary(infos),
	})
}
