package engine

// execute.go - Directive execution: compose and execute-motif.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shepherdvovkes/Motif/internal/state"
	"github.com/shepherdvovkes/Motif/pkg/program"
	"github.com/shepherdvovkes/Motif/pkg/reader"
	"github.com/shepherdvovkes/Motif/pkg/resolve"
)

// Well-known directive operators.
const (
	DirectiveCompose      = "compose"
	DirectiveExecuteMotif = "execute-motif"
)

// Result is the outcome of executing one directive.
type Result struct {
	// RunID identifies this execution; it matches the state store record
	// when a store is attached.
	RunID string
	// Root is the declaration the directive named.
	Root string
	// Lines is the ordered output line sequence.
	Lines []string
	// Text is the rendered output.
	Text string
	// Duration is the wall time of resolution plus execution.
	Duration time.Duration
}

// Compose resolves and executes the named composition.
func (e *Engine) Compose(ctx context.Context, name string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.table == nil {
		return nil, fmt.Errorf("no program loaded")
	}

	e.logger.Info("composing", "composition", name)
	start := time.Now()

	run := e.startRun(name)

	root, err := resolve.NewWithSchema(e.table, e.schema).Resolve(name)
	if err != nil {
		e.failRun(run, err)
		return nil, err
	}

	if root.Kind() != program.KindComposition {
		err := &ExecutionError{
			Code:    CodeNotAComposition,
			Name:    name,
			Message: fmt.Sprintf("cannot compose a %s declaration", root.Kind()),
		}
		e.failRun(run, err)
		return nil, err
	}

	lines, err := (&executor{emitted: make(map[string]bool)}).emit(root)
	if err != nil {
		e.failRun(run, err)
		return nil, err
	}

	result := &Result{
		RunID:    run.ID,
		Root:     name,
		Lines:    lines,
		Text:     Render(lines),
		Duration: time.Since(start),
	}
	e.completeRun(run, len(lines))

	e.logger.Info("composed", "composition", name,
		"lines", len(lines), "duration_ms", result.Duration.Milliseconds())
	return result, nil
}

// ExecuteMotif resolves and executes a single motif, producing its one line
// through the same per-motif rule Compose uses.
func (e *Engine) ExecuteMotif(ctx context.Context, name string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.table == nil {
		return nil, fmt.Errorf("no program loaded")
	}

	e.logger.Info("executing motif", "motif", name)
	start := time.Now()

	root, err := resolve.NewWithSchema(e.table, e.schema).Resolve(name)
	if err != nil {
		return nil, err
	}
	if root.Kind() != program.KindMotif {
		return nil, &ExecutionError{
			Code:    CodeNotAMotif,
			Name:    name,
			Message: fmt.Sprintf("cannot execute a %s declaration as a motif", root.Kind()),
		}
	}

	lines := []string{motifLine(root.Decl)}
	return &Result{
		RunID:    uuid.New().String(),
		Root:     name,
		Lines:    lines,
		Text:     Render(lines),
		Duration: time.Since(start),
	}, nil
}

// Run executes every directive of the loaded program in source order.
// Unrecognized directives are skipped with a warning; the first failing
// directive aborts the run.
func (e *Engine) Run(ctx context.Context) ([]*Result, error) {
	var results []*Result
	for _, d := range e.directives {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		var result *Result
		var err error
		switch d.Name() {
		case DirectiveCompose:
			var name string
			if name, err = directiveTarget(d); err == nil {
				result, err = e.Compose(ctx, name)
			}
		case DirectiveExecuteMotif:
			var name string
			if name, err = directiveTarget(d); err == nil {
				result, err = e.ExecuteMotif(ctx, name)
			}
		default:
			// Unknown operators are skipped without looking at their
			// arguments; programs may carry directives this engine does
			// not implement.
			e.logger.Warn("skipping unknown directive", "operator", d.Name())
			continue
		}
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// directiveTarget extracts the declaration name a directive operates on.
func directiveTarget(d program.Directive) (string, error) {
	args := d.Args()
	if len(args) == 0 {
		return "", &ExecutionError{
			Code:    CodeMalformedDirective,
			Name:    d.Name(),
			Message: "directive takes a declaration name",
		}
	}
	sym, ok := args[0].(*reader.Symbol)
	if !ok {
		return "", &ExecutionError{
			Code:    CodeMalformedDirective,
			Name:    d.Name(),
			Message: fmt.Sprintf("directive argument must be a symbol, got %s", args[0].Sexpr()),
		}
	}
	return sym.Name, nil
}

// executor flattens one resolved tree into lines. It is used for a single
// execution and then discarded; emitted guards against re-entering a
// leitmotif or composition already fully emitted in this run.
type executor struct {
	emitted map[string]bool
}

func (x *executor) emit(n *resolve.Node) ([]string, error) {
	switch n.Kind() {
	case program.KindComposition:
		if x.emitted[n.Name()] {
			return nil, nil
		}
		x.emitted[n.Name()] = true

		var lines []string
		for _, child := range n.Children {
			childLines, err := x.emit(child)
			if err != nil {
				return nil, err
			}
			lines = append(lines, childLines...)
		}
		return lines, nil

	case program.KindLeitmotif:
		return x.emitLeitmotif(n)

	case program.KindMotif:
		return []string{motifLine(n.Decl)}, nil

	default:
		// Other kinds (archetype, metaphor, ...) contribute no lines of
		// their own; they only feed motif fallbacks.
		return nil, nil
	}
}

func (x *executor) emitLeitmotif(n *resolve.Node) ([]string, error) {
	if x.emitted[n.Name()] {
		return nil, nil
	}
	x.emitted[n.Name()] = true

	passes, err := repetitionCount(n.Decl)
	if err != nil {
		return nil, err
	}

	var lines []string
	for pass := 0; pass < passes; pass++ {
		// Motif entries emit every pass; nested leitmotifs are guarded by
		// the emitted set, so only the first pass reaches them.
		for _, child := range n.Children {
			childLines, err := x.emit(child)
			if err != nil {
				return nil, err
			}
			lines = append(lines, childLines...)
		}
	}
	return lines, nil
}

// repetitionCount interprets a leitmotif's repetition field. The literal
// infinite is rejected, a positive integer is a pass count, and anything
// else (including single and an absent field) means one pass.
func repetitionCount(decl *program.Declaration) (int, error) {
	field, ok := decl.Field("repetition")
	if !ok || len(field.Values) == 0 {
		return 1, nil
	}

	switch v := field.Values[0].(type) {
	case *reader.Symbol:
		if v.Name == "infinite" {
			return 0, &ExecutionError{
				Code:    CodeUnboundedRepetition,
				Name:    decl.Name,
				Message: "repetition infinite would produce unbounded output",
			}
		}
	case *reader.Number:
		if v.IsInt() && v.Int() > 0 {
			return v.Int(), nil
		}
	}
	return 1, nil
}

// motifLine produces the output line for one motif: its text-content string
// when present, otherwise its archetype names joined by single spaces,
// otherwise its own name. The chain guarantees a non-empty line.
func motifLine(decl *program.Declaration) string {
	if text, ok := decl.StringField("text-content"); ok {
		return text
	}
	if archetypes := decl.SymbolList("archetypes"); len(archetypes) > 0 {
		return strings.Join(archetypes, " ")
	}
	return decl.Name
}

// --- run history ---

// startRun records the start of a compose invocation. Without a store it
// still returns a record carrying a fresh run ID.
func (e *Engine) startRun(composition string) *state.Run {
	if e.store == nil {
		return &state.Run{ID: uuid.New().String(), Composition: composition}
	}
	run, err := e.store.CreateRun(composition, e.source)
	if err != nil {
		e.logger.Warn("failed to record run start", "error", err)
		return &state.Run{ID: uuid.New().String(), Composition: composition}
	}
	return run
}

func (e *Engine) completeRun(run *state.Run, lineCount int) {
	if e.store == nil {
		return
	}
	if err := e.store.CompleteRun(run.ID, state.RunStatusCompleted, lineCount, ""); err != nil {
		e.logger.Warn("failed to record run completion", "run_id", run.ID, "error", err)
	}
}

func (e *Engine) failRun(run *state.Run, cause error) {
	if e.store == nil {
		return
	}
	if err := e.store.CompleteRun(run.ID, state.RunStatusFailed, 0, cause.Error()); err != nil {
		e.logger.Warn("failed to record run failure", "run_id", run.ID, "error", err)
	}
}
