package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_BasicTokens(t *testing.T) {
	tokens, err := Tokenize(`(define-archetype night (emotional-weight 0.9))`)
	require.NoError(t, err)

	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{
		LPAREN, SYMBOL, SYMBOL,
		LPAREN, SYMBOL, NUMBER, RPAREN,
		RPAREN, EOF,
	}, types)

	assert.Equal(t, "define-archetype", tokens[1].Literal)
	assert.Equal(t, "0.9", tokens[5].Literal)
}

func TestLexer_SkipsComments(t *testing.T) {
	tokens, err := Tokenize(";; MOTIF Program: Basic Despair\n(a b)\n; trailing note\n")
	require.NoError(t, err)

	require.Len(t, tokens, 5)
	assert.Equal(t, LPAREN, tokens[0].Type)
	assert.Equal(t, "a", tokens[1].Literal)
	assert.Equal(t, "b", tokens[2].Literal)
}

func TestLexer_StringLiteral(t *testing.T) {
	tokens, err := Tokenize(`(text-content "А и Б сидели на трубе")`)
	require.NoError(t, err)

	require.Len(t, tokens, 5)
	assert.Equal(t, STRING, tokens[2].Type)
	assert.Equal(t, "А и Б сидели на трубе", tokens[2].Literal)
}

func TestLexer_StringEscapedQuote(t *testing.T) {
	tokens, err := Tokenize(`"say \"hello\""`)
	require.NoError(t, err)
	assert.Equal(t, `say "hello"`, tokens[0].Literal)
}

func TestLexer_UnterminatedString(t *testing.T) {
	_, err := Tokenize(`(text-content "no closing quote`)
	require.Error(t, err)

	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, CodeUnterminatedString, synErr.Code)
	assert.Equal(t, 14, synErr.Pos.Offset)
}

func TestLexer_NumberClassification(t *testing.T) {
	tests := []struct {
		atom string
		want TokenType
	}{
		{"0.9", NUMBER},
		{"-3", NUMBER},
		{"42", NUMBER},
		{"1e3", NUMBER},
		{"x-squared", SYMBOL},
		{"3x", SYMBOL},
		{"-", SYMBOL},
		{"night", SYMBOL},
	}

	for _, tt := range tests {
		t.Run(tt.atom, func(t *testing.T) {
			tokens, err := Tokenize(tt.atom)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.want, tokens[0].Type, "atom %q", tt.atom)
		})
	}
}

func TestLexer_PositionTracking(t *testing.T) {
	tokens, err := Tokenize("(a\n  b)")
	require.NoError(t, err)

	// b sits on line 2 at byte offset 5.
	b := tokens[2]
	assert.Equal(t, "b", b.Literal)
	assert.Equal(t, 2, b.Pos.Line)
	assert.Equal(t, 5, b.Pos.Offset)
}
