package reader

import "fmt"

// TokenType identifies the lexical class of a token.
type TokenType int

//nolint:revive // ALL-CAPS names follow the usual lexer token convention
const (
	// EOF marks the end of input.
	EOF TokenType = iota
	// LPAREN is an opening parenthesis.
	LPAREN
	// RPAREN is a closing parenthesis.
	RPAREN
	// SYMBOL is a bare identifier.
	SYMBOL
	// NUMBER is a decimal numeric literal.
	NUMBER
	// STRING is a double-quoted string literal.
	STRING
)

// String returns a readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	case SYMBOL:
		return "SYMBOL"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Position is a location in the source text.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// Token is a single lexical token with its source position.
// For STRING the Literal holds the decoded content, quotes stripped.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}
