package reader

import (
	"strconv"
	"strings"
)

// Lexer tokenizes symbolic-expression input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token, or a SyntaxError for an unterminated
// string literal.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()

	switch l.ch {
	case 0:
		return Token{Type: EOF, Pos: pos}, nil
	case '(':
		l.readChar()
		return Token{Type: LPAREN, Literal: "(", Pos: pos}, nil
	case ')':
		l.readChar()
		return Token{Type: RPAREN, Literal: ")", Pos: pos}, nil
	case '"':
		lit, err := l.readString(pos)
		if err != nil {
			return Token{}, err
		}
		return Token{Type: STRING, Literal: lit, Pos: pos}, nil
	default:
		lit := l.readAtom()
		if isNumeric(lit) {
			return Token{Type: NUMBER, Literal: lit, Pos: pos}, nil
		}
		return Token{Type: SYMBOL, Literal: lit, Pos: pos}, nil
	}
}

// skipWhitespaceAndComments skips whitespace and ; comments to end of line.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}

		if l.ch == ';' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}

		break
	}
}

// readString reads a double-quoted string literal. The only escape
// recognized is backslash-quote; every other byte is kept verbatim.
func (l *Lexer) readString(start Position) (string, error) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.ch != '"' {
		if l.ch == 0 {
			return "", &SyntaxError{
				Code:    CodeUnterminatedString,
				Pos:     start,
				Message: "unterminated string literal",
			}
		}
		if l.ch == '\\' && l.peekChar() == '"' {
			result.WriteByte('"')
			l.readChar() // skip backslash
			l.readChar() // skip quote
			continue
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar() // skip closing quote
	return result.String(), nil
}

// readAtom reads a maximal run of non-whitespace, non-delimiter bytes.
func (l *Lexer) readAtom() string {
	start := l.pos
	for l.ch != 0 && !isDelimiter(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// isDelimiter reports whether ch terminates an atom.
func isDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '(', ')', '"', ';':
		return true
	}
	return false
}

// isNumeric reports whether the atom parses fully as a decimal number.
func isNumeric(atom string) bool {
	if atom == "" {
		return false
	}
	_, err := strconv.ParseFloat(atom, 64)
	return err == nil
}

// Tokenize returns all tokens from the input, including the trailing EOF.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
