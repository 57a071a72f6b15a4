package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_TopLevelForms(t *testing.T) {
	forms, err := Read(`
		(define-archetype night (emotional-weight 0.9))
		(compose despair)
	`)
	require.NoError(t, err)
	require.Len(t, forms, 2)

	first, ok := forms[0].(*Form)
	require.True(t, ok, "expected *Form, got %T", forms[0])
	assert.Equal(t, "define-archetype", first.Head())
	require.Len(t, first.Children, 3)

	nested, ok := first.Children[2].(*Form)
	require.True(t, ok)
	assert.Equal(t, "emotional-weight", nested.Head())

	num, ok := nested.Children[1].(*Number)
	require.True(t, ok)
	assert.InDelta(t, 0.9, num.Value, 1e-9)
}

func TestRead_EmptyForm(t *testing.T) {
	forms, err := Read("()")
	require.NoError(t, err)
	require.Len(t, forms, 1)

	form, ok := forms[0].(*Form)
	require.True(t, ok)
	assert.Equal(t, 0, form.Len())
	assert.Equal(t, "", form.Head())
}

func TestRead_MissingClosingParen(t *testing.T) {
	_, err := Read(`(define-archetype night (emotional-weight 0.9)`)
	require.Error(t, err)

	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, CodeUnbalancedParens, synErr.Code)
	assert.Equal(t, 0, synErr.Pos.Offset, "error should name the unclosed paren")
}

func TestRead_StrayClosingParen(t *testing.T) {
	_, err := Read("(a)) ")
	require.Error(t, err)

	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, CodeUnbalancedParens, synErr.Code)
	assert.Equal(t, 3, synErr.Pos.Offset)
}

func TestRead_NoDomainVocabulary(t *testing.T) {
	// The reader accepts any balanced s-expression grammar; define-* carries
	// no meaning at this stage.
	forms, err := Read(`(frobnicate (a 1) "x" ())`)
	require.NoError(t, err)
	require.Len(t, forms, 1)

	form := forms[0].(*Form)
	assert.Equal(t, "frobnicate", form.Head())
	assert.Equal(t, 4, form.Len())
}

func TestForm_Sexpr_RoundTrip(t *testing.T) {
	src := `(define-motif line1 (archetypes (A B pipe)) (text-content "А и Б сидели на трубе"))`
	forms, err := Read(src)
	require.NoError(t, err)
	require.Len(t, forms, 1)

	rendered := forms[0].Sexpr()
	reread, err := Read(rendered)
	require.NoError(t, err)
	assert.Equal(t, rendered, reread[0].Sexpr())
}

func TestForm_SymbolNames(t *testing.T) {
	forms, err := Read(`(archetypes night street "not-a-symbol" 3 light)`)
	require.NoError(t, err)

	form := forms[0].(*Form)
	assert.Equal(t, []string{"archetypes", "night", "street", "light"}, form.SymbolNames())
}
