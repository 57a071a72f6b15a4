package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shepherdvovkes/Motif/pkg/reader"
)

func mustRead(t *testing.T, src string) []reader.Node {
	t.Helper()
	forms, err := reader.Read(src)
	require.NoError(t, err)
	return forms
}

func TestBuild_Declarations(t *testing.T) {
	forms := mustRead(t, `
		(define-archetype night (emotional-weight 0.9))
		(define-motif core-assertion
			(archetypes (night))
			(emotional-target melancholy)
			(intensity 0.9))
	`)

	table, directives, err := Build(forms)
	require.NoError(t, err)
	assert.Empty(t, directives)
	assert.Equal(t, 2, table.Len())

	night, ok := table.Lookup("night")
	require.True(t, ok)
	assert.Equal(t, KindArchetype, night.Kind)

	motif, ok := table.Lookup("core-assertion")
	require.True(t, ok)
	assert.Equal(t, KindMotif, motif.Kind)
	assert.Equal(t, []string{"night"}, motif.SymbolList("archetypes"))

	_, hasIntensity := motif.Field("intensity")
	assert.True(t, hasIntensity)
}

func TestBuild_DirectivesKeptInSourceOrder(t *testing.T) {
	forms := mustRead(t, `
		(compose first)
		(define-motif m (text-content "x"))
		(execute-motif m)
		(compose second)
	`)

	table, directives, err := Build(forms)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	require.Len(t, directives, 3)
	assert.Equal(t, "compose", directives[0].Name())
	assert.Equal(t, "execute-motif", directives[1].Name())
	assert.Equal(t, "compose", directives[2].Name())
}

func TestBuild_OpenKindVocabulary(t *testing.T) {
	forms := mustRead(t, `(define-soundscape rain (layers (wind thunder)))`)

	table, _, err := Build(forms)
	require.NoError(t, err)

	d, ok := table.Lookup("rain")
	require.True(t, ok)
	assert.Equal(t, "soundscape", d.Kind)
	assert.Equal(t, []string{"wind", "thunder"}, d.SymbolList("layers"))
}

func TestBuild_RedefinitionLastWriteWins(t *testing.T) {
	forms := mustRead(t, `
		(define-motif m (text-content "first"))
		(define-motif m (text-content "second"))
	`)

	table, _, err := Build(forms)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	m, ok := table.Lookup("m")
	require.True(t, ok)
	text, ok := m.StringField("text-content")
	require.True(t, ok)
	assert.Equal(t, "second", text)
}

func TestBuild_MissingName(t *testing.T) {
	forms := mustRead(t, `(define-archetype)`)

	_, _, err := Build(forms)
	require.Error(t, err)

	var declErr *DeclarationError
	require.ErrorAs(t, err, &declErr)
	assert.Equal(t, CodeMissingName, declErr.Code)
	assert.Equal(t, "archetype", declErr.Kind)
}

func TestBuild_NameMustBeSymbol(t *testing.T) {
	forms := mustRead(t, `(define-archetype "night")`)

	_, _, err := Build(forms)
	require.Error(t, err)

	var declErr *DeclarationError
	require.ErrorAs(t, err, &declErr)
	assert.Equal(t, CodeMissingName, declErr.Code)
}

func TestBuild_MalformedField(t *testing.T) {
	forms := mustRead(t, `(define-motif m text-content)`)

	_, _, err := Build(forms)
	require.Error(t, err)

	var declErr *DeclarationError
	require.ErrorAs(t, err, &declErr)
	assert.Equal(t, CodeMalformedField, declErr.Code)
	assert.Equal(t, "m", declErr.Name)
}

func TestDeclaration_SymbolList_FlatAndNested(t *testing.T) {
	forms := mustRead(t, `
		(define-leitmotif nested (motifs (a b c)))
		(define-leitmotif flat (motifs a b c))
	`)

	table, _, err := Build(forms)
	require.NoError(t, err)

	nested, _ := table.Lookup("nested")
	flat, _ := table.Lookup("flat")
	assert.Equal(t, []string{"a", "b", "c"}, nested.SymbolList("motifs"))
	assert.Equal(t, []string{"a", "b", "c"}, flat.SymbolList("motifs"))
}

func TestTable_ByKindAndNames(t *testing.T) {
	forms := mustRead(t, `
		(define-motif zebra)
		(define-motif alpha)
		(define-archetype night)
	`)

	table, _, err := Build(forms)
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "zebra"}, table.ByKind(KindMotif))
	assert.Equal(t, []string{"zebra", "alpha", "night"}, table.Names())
	assert.Equal(t, []string{"archetype", "motif"}, table.Kinds())
}
