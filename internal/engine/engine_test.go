package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shepherdvovkes/Motif/internal/enrich"
	"github.com/shepherdvovkes/Motif/internal/state"
	"github.com/shepherdvovkes/Motif/internal/testutil"
	"github.com/shepherdvovkes/Motif/pkg/reader"
	"github.com/shepherdvovkes/Motif/pkg/resolve"
)

// loadEngine builds an engine and loads the given program source.
func loadEngine(t *testing.T, src string) *Engine {
	t.Helper()
	e := New(Config{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, e.Load(src))
	return e
}

func TestCompose_SingleLineArchetypeFallback(t *testing.T) {
	e := loadEngine(t, `
		(define-archetype night (symbol "луна"))
		(define-motif simple-sadness (archetypes (night)))
		(define-leitmotif L (motifs (simple-sadness)))
		(define-composition hello (leitmotif L))
	`)

	result, err := e.Compose(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, []string{"night"}, result.Lines)
	assert.Equal(t, "night\n", result.Text)
	assert.Equal(t, "hello", result.Root)
	assert.NotEmpty(t, result.RunID)
}

func TestCompose_TextContentWinsOverArchetypes(t *testing.T) {
	e := loadEngine(t, `
		(define-archetype night)
		(define-motif m
			(archetypes (night))
			(text-content "тихая ночь"))
		(define-leitmotif L (motifs (m)))
		(define-composition c (leitmotif L))
	`)

	result, err := e.Compose(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"тихая ночь"}, result.Lines)
}

func TestCompose_FallbackToMotifName(t *testing.T) {
	e := loadEngine(t, `
		(define-motif bare (intensity 0.5))
		(define-leitmotif L (motifs (bare)))
		(define-composition c (leitmotif L))
	`)

	result, err := e.Compose(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"bare"}, result.Lines)
}

func TestCompose_MultipleArchetypesJoined(t *testing.T) {
	e := loadEngine(t, `
		(define-archetype night)
		(define-archetype silence)
		(define-archetype distance)
		(define-motif m (archetypes (night silence distance)))
		(define-leitmotif L (motifs (m)))
		(define-composition c (leitmotif L))
	`)

	result, err := e.Compose(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"night silence distance"}, result.Lines)
}

func TestCompose_DuplicateMotifEntriesEachEmit(t *testing.T) {
	e := loadEngine(t, `
		(define-motif m (text-content "echo"))
		(define-motif n (text-content "other"))
		(define-leitmotif L (motifs (m n m)))
		(define-composition c (leitmotif L))
	`)

	result, err := e.Compose(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "other", "echo"}, result.Lines)
}

func TestCompose_RepetitionCount(t *testing.T) {
	e := loadEngine(t, `
		(define-motif a (text-content "раз"))
		(define-motif b (text-content "два"))
		(define-leitmotif L
			(motifs (a b))
			(repetition 3))
		(define-composition c (leitmotif L))
	`)

	result, err := e.Compose(context.Background(), "c")
	require.NoError(t, err)

	want := []string{"раз", "два", "раз", "два", "раз", "два"}
	assert.Equal(t, want, result.Lines, "repetition 3 over 2 motifs yields 6 lines in repeated order")
}

func TestCompose_RepetitionInfinite(t *testing.T) {
	e := loadEngine(t, `
		(define-motif m (text-content "x"))
		(define-leitmotif L
			(motifs (m))
			(repetition infinite))
		(define-composition c (leitmotif L))
	`)

	_, err := e.Compose(context.Background(), "c")
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, CodeUnboundedRepetition, execErr.Code)
	assert.Equal(t, "L", execErr.Name)
}

func TestCompose_RepetitionDefaults(t *testing.T) {
	tests := []struct {
		name  string
		field string
	}{
		{"single literal", `(repetition single)`},
		{"absent", ``},
		{"unrecognized symbol", `(repetition sometimes)`},
		{"zero", `(repetition 0)`},
		{"negative", `(repetition -2)`},
		{"fractional", `(repetition 1.5)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := loadEngine(t, `
				(define-motif m (text-content "x"))
				(define-leitmotif L (motifs (m)) `+tt.field+`)
				(define-composition c (leitmotif L))
			`)

			result, err := e.Compose(context.Background(), "c")
			require.NoError(t, err)
			assert.Equal(t, []string{"x"}, result.Lines, "anything but infinite or a positive integer means one pass")
		})
	}
}

func TestCompose_NestedLeitmotifsFlattenOnce(t *testing.T) {
	e := loadEngine(t, `
		(define-motif first (text-content "первая"))
		(define-motif second (text-content "вторая"))
		(define-leitmotif inner (motifs (second)))
		(define-leitmotif outer
			(motifs (first))
			(leitmotifs (inner)))
		(define-composition c (leitmotif outer))
	`)

	result, err := e.Compose(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"первая", "вторая"}, result.Lines)
}

func TestCompose_NestedLeitmotifNotReenteredByRepetition(t *testing.T) {
	e := loadEngine(t, `
		(define-motif refrain (text-content "припев"))
		(define-motif verse (text-content "куплет"))
		(define-leitmotif chorus (motifs (refrain)))
		(define-leitmotif song
			(motifs (verse))
			(leitmotifs (chorus))
			(repetition 2))
		(define-composition c (leitmotif song))
	`)

	result, err := e.Compose(context.Background(), "c")
	require.NoError(t, err)

	// Motif entries repeat per pass; the nested leitmotif was fully emitted
	// on the first pass and is not re-entered.
	assert.Equal(t, []string{"куплет", "припев", "куплет"}, result.Lines)
}

func TestCompose_NotAComposition(t *testing.T) {
	e := loadEngine(t, `
		(define-motif m (text-content "x"))
	`)

	_, err := e.Compose(context.Background(), "m")
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, CodeNotAComposition, execErr.Code)
}

func TestCompose_UnknownComposition(t *testing.T) {
	e := loadEngine(t, `(define-motif m (text-content "x"))`)

	_, err := e.Compose(context.Background(), "ghost")
	require.Error(t, err)

	var refErr *resolve.ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, resolve.CodeUnknownDeclaration, refErr.Code)
}

func TestCompose_NoProgramLoaded(t *testing.T) {
	e := New(Config{})
	_, err := e.Compose(context.Background(), "c")
	require.Error(t, err)
}

func TestExecuteMotif(t *testing.T) {
	e := loadEngine(t, `
		(define-archetype night)
		(define-motif m (archetypes (night)))
	`)

	result, err := e.ExecuteMotif(context.Background(), "m")
	require.NoError(t, err)
	assert.Equal(t, []string{"night"}, result.Lines)
	assert.Equal(t, "night\n", result.Text)
}

func TestExecuteMotif_NotAMotif(t *testing.T) {
	e := loadEngine(t, `
		(define-leitmotif L (motifs ()))
	`)

	_, err := e.ExecuteMotif(context.Background(), "L")
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, CodeNotAMotif, execErr.Code)
}

func TestRun_DirectivesInSourceOrder(t *testing.T) {
	e := loadEngine(t, `
		(define-motif m (text-content "мотив"))
		(define-leitmotif L (motifs (m)))
		(define-composition c (leitmotif L))
		(execute-motif m)
		(compose c)
		(visualize c)
	`)

	results, err := e.Run(context.Background())
	require.NoError(t, err)

	// The unknown visualize directive is skipped with a warning.
	require.Len(t, results, 2)
	assert.Equal(t, "m", results[0].Root)
	assert.Equal(t, "c", results[1].Root)
}

func TestRun_UnknownDirectiveArgumentsIgnored(t *testing.T) {
	e := loadEngine(t, `
		(define-motif m (text-content "ночь"))
		(define-leitmotif L (motifs (m)))
		(define-composition c (leitmotif L))
		(listener-state)
		(analyze-context "текст")
		(compose c)
	`)

	results, err := e.Run(context.Background())
	require.NoError(t, err)

	// Unknown operators are skipped whatever their argument shape; the
	// compose after them still executes.
	require.Len(t, results, 1)
	assert.Equal(t, "c", results[0].Root)
	assert.Equal(t, "ночь\n", results[0].Text)
}

func TestRun_MalformedDirective(t *testing.T) {
	e := loadEngine(t, `
		(define-motif m (text-content "x"))
		(compose)
	`)

	_, err := e.Run(context.Background())
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, CodeMalformedDirective, execErr.Code)
}

func TestRun_CanceledContext(t *testing.T) {
	e := loadEngine(t, `
		(define-motif m (text-content "x"))
		(define-leitmotif L (motifs (m)))
		(define-composition c (leitmotif L))
		(compose c)
	`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_AbsurdistPoemFile(t *testing.T) {
	e := New(Config{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, e.LoadFile(filepath.Join("testdata", "absurdist_poem.motif")))

	results, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	want := "А и Б сидели на трубе\n" +
		"А сидел уже давно и плотно\n" +
		"Б подсел только вчера\n" +
		"Но плотнее А на Икс в квадрате\n" +
		"На Икс в квадрате\n" +
		"экспоненциален\n" +
		"Икс в квадрате\n" +
		"не брит и брутален\n" +
		"экспоненциален\n"

	assert.Equal(t, want, results[0].Text)
	assert.Len(t, results[0].Lines, 9)
}

func TestCompose_RecordsRunHistory(t *testing.T) {
	store := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	e := New(Config{Logger: testutil.NewTestLogger(t), Store: store})
	require.NoError(t, e.Load(`
		(define-motif m (text-content "строка"))
		(define-leitmotif L (motifs (m)))
		(define-composition c (leitmotif L))
	`))

	result, err := e.Compose(context.Background(), "c")
	require.NoError(t, err)

	run, err := store.GetRun(result.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "c", run.Composition)
	assert.Equal(t, state.RunStatusCompleted, run.Status)
	assert.Equal(t, 1, run.LineCount)
}

func TestCompose_RecordsFailedRun(t *testing.T) {
	store := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	e := New(Config{Logger: testutil.NewTestLogger(t), Store: store})
	require.NoError(t, e.Load(`
		(define-motif m (text-content "x"))
		(define-leitmotif L (motifs (m)) (repetition infinite))
		(define-composition c (leitmotif L))
	`))

	_, err := e.Compose(context.Background(), "c")
	require.Error(t, err)

	runs, err := store.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, state.RunStatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "UnboundedRepetition")
}

func TestLoad_EnrichmentRewritesBeforeTableBuild(t *testing.T) {
	registry := enrich.NewRegistry()
	require.NoError(t, registry.Register("seed-words", func(args []reader.Node) (reader.Node, error) {
		return &reader.String{Value: "дождь за окном"}, nil
	}))

	e := New(Config{Logger: testutil.NewTestLogger(t), Enrich: registry})
	require.NoError(t, e.Load(`
		(define-motif m (text-content (seed-words melancholy)))
		(define-leitmotif L (motifs (m)))
		(define-composition c (leitmotif L))
	`))

	result, err := e.Compose(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"дождь за окном"}, result.Lines)
}

func TestLoad_SyntaxErrorSurfaces(t *testing.T) {
	e := New(Config{})
	err := e.Load(`(define-motif m`)
	require.Error(t, err)

	var synErr *reader.SyntaxError
	require.True(t, errors.As(err, &synErr))
}

func TestLoadFile_Missing(t *testing.T) {
	e := New(Config{})
	require.Error(t, e.LoadFile(filepath.Join("testdata", "absent.motif")))
}
