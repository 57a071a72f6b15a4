package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/shepherdvovkes/Motif/pkg/reader"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive MOTIF session",
		Long: `Start an interactive session. Declarations entered at the prompt build
up a live table (redefining a name replaces it), and compose or
execute-motif directives run against it immediately.`,
		Example: `  motif repl`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}

	return cmd
}

func runREPL(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// Start with an empty program so directives work immediately.
	if err := cmdCtx.Engine.Load(""); err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "motif> ",
		HistoryFile:     ".motif/repl_history",
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "MOTIF REPL")
	_, _ = fmt.Fprintln(out, "Type declarations and directives; .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	session := &replSession{cmdCtx: cmdCtx}

	// Accumulate input until parentheses balance.
	var buffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer.Reset()
			rl.SetPrompt("motif> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		trimmed := strings.TrimSpace(line)
		if buffer.Len() == 0 && trimmed == "" {
			continue
		}

		// Handle dot-commands only at the start of an input
		if buffer.Len() == 0 && strings.HasPrefix(trimmed, ".") {
			if trimmed == ".quit" || trimmed == ".exit" {
				break
			}
			session.handleDotCommand(cmd, trimmed)
			continue
		}

		buffer.WriteString(line)
		buffer.WriteString("\n")
		if parenDepth(buffer.String()) > 0 {
			rl.SetPrompt("  ...> ")
			continue
		}
		rl.SetPrompt("motif> ")

		input := buffer.String()
		buffer.Reset()

		if err := session.eval(cmd, input); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}

	return nil
}

// replSession holds the accumulated declarations of one session. Directives
// execute immediately and are not retained; declarations are, with the
// table rebuilt from them so redefinition replaces cleanly.
type replSession struct {
	cmdCtx  *CommandContext
	history []string
}

func (s *replSession) eval(cmd *cobra.Command, input string) error {
	forms, err := reader.Read(input)
	if err != nil {
		return err
	}

	var decls, directives []*reader.Form
	for _, node := range forms {
		form, ok := node.(*reader.Form)
		if !ok {
			continue
		}
		if strings.HasPrefix(form.Head(), "define-") {
			decls = append(decls, form)
		} else {
			directives = append(directives, form)
		}
	}

	if len(decls) > 0 {
		candidate := s.history
		for _, d := range decls {
			candidate = append(candidate, d.Sexpr())
		}
		if err := s.cmdCtx.Engine.Load(strings.Join(candidate, "\n")); err != nil {
			return err
		}
		s.history = candidate
		for _, d := range decls {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "defined %s\n", declName(d))
		}
	}

	for _, form := range directives {
		if err := s.execDirective(cmd, form); err != nil {
			return err
		}
	}
	return nil
}

func (s *replSession) execDirective(cmd *cobra.Command, form *reader.Form) error {
	if form.Len() < 2 {
		return fmt.Errorf("%s takes a declaration name", form.Head())
	}
	sym, ok := form.Children[1].(*reader.Symbol)
	if !ok {
		return fmt.Errorf("%s takes a symbol, got %s", form.Head(), form.Children[1].Sexpr())
	}

	ctx := cmd.Context()
	switch form.Head() {
	case "compose":
		result, err := s.cmdCtx.Engine.Compose(ctx, sym.Name)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), result.Text)
	case "execute-motif":
		result, err := s.cmdCtx.Engine.ExecuteMotif(ctx, sym.Name)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), result.Text)
	default:
		return fmt.Errorf("unknown directive %q", form.Head())
	}
	return nil
}

func (s *replSession) handleDotCommand(cmd *cobra.Command, line string) {
	out := cmd.OutOrStdout()
	switch line {
	case ".help":
		_, _ = fmt.Fprintln(out, "Commands:")
		_, _ = fmt.Fprintln(out, "  .list   show declarations")
		_, _ = fmt.Fprintln(out, "  .clear  discard all declarations")
		_, _ = fmt.Fprintln(out, "  .quit   exit")
	case ".list":
		tbl := s.cmdCtx.Engine.Table()
		for _, name := range tbl.Names() {
			decl, _ := tbl.Lookup(name)
			_, _ = fmt.Fprintf(out, "  %s [%s]\n", name, decl.Kind)
		}
	case ".clear":
		s.history = nil
		_ = s.cmdCtx.Engine.Load("")
		_, _ = fmt.Fprintln(out, "cleared")
	default:
		_, _ = fmt.Fprintf(out, "unknown command %s (try .help)\n", line)
	}
}

// declName extracts the name of a define-* form for echo output.
func declName(form *reader.Form) string {
	if form.Len() >= 2 {
		if sym, ok := form.Children[1].(*reader.Symbol); ok {
			return sym.Name
		}
	}
	return form.Head()
}

// parenDepth counts unclosed parentheses, skipping strings and comments.
// Used to decide whether an input is complete; the reader does the real
// validation afterwards.
func parenDepth(s string) int {
	depth := 0
	inString := false
	inComment := false
	escaped := false

	for _, ch := range s {
		switch {
		case inComment:
			if ch == '\n' {
				inComment = false
			}
		case inString:
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
		case ch == '"':
			inString = true
		case ch == ';':
			inComment = true
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		}
	}
	return depth
}
