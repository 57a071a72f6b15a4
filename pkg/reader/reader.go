package reader

import (
	"fmt"
	"strconv"
)

// Reader parses tokens into a sequence of top-level forms.
type Reader struct {
	lexer *Lexer
	tok   Token
}

// New creates a Reader over the given source text.
func New(input string) *Reader {
	return &Reader{lexer: NewLexer(input)}
}

// Read parses the entire input and returns its top-level forms.
// The result is nil when any SyntaxError occurs; partial trees are never
// returned.
func Read(input string) ([]Node, error) {
	r := New(input)
	if err := r.advance(); err != nil {
		return nil, err
	}

	var forms []Node
	for r.tok.Type != EOF {
		node, err := r.parseNode()
		if err != nil {
			return nil, err
		}
		forms = append(forms, node)
	}
	return forms, nil
}

// advance consumes the current token and reads the next one.
func (r *Reader) advance() error {
	tok, err := r.lexer.NextToken()
	if err != nil {
		return err
	}
	r.tok = tok
	return nil
}

// parseNode parses a single atom or form at the current token.
func (r *Reader) parseNode() (Node, error) {
	switch r.tok.Type {
	case LPAREN:
		return r.parseForm()
	case RPAREN:
		return nil, &SyntaxError{
			Code:    CodeUnbalancedParens,
			Pos:     r.tok.Pos,
			Message: "unexpected closing parenthesis",
		}
	case STRING:
		node := &String{Value: r.tok.Literal, Position: r.tok.Pos}
		if err := r.advance(); err != nil {
			return nil, err
		}
		return node, nil
	case NUMBER:
		val, err := strconv.ParseFloat(r.tok.Literal, 64)
		if err != nil {
			// Unreachable: the lexer only classifies parseable literals.
			return nil, fmt.Errorf("invalid number literal %q: %w", r.tok.Literal, err)
		}
		node := &Number{Text: r.tok.Literal, Value: val, Position: r.tok.Pos}
		if err := r.advance(); err != nil {
			return nil, err
		}
		return node, nil
	default:
		node := &Symbol{Name: r.tok.Literal, Position: r.tok.Pos}
		if err := r.advance(); err != nil {
			return nil, err
		}
		return node, nil
	}
}

// parseForm parses a parenthesized form. The current token is the opening
// paren.
func (r *Reader) parseForm() (Node, error) {
	open := r.tok.Pos
	if err := r.advance(); err != nil {
		return nil, err
	}

	form := &Form{Position: open}
	for r.tok.Type != RPAREN {
		if r.tok.Type == EOF {
			return nil, &SyntaxError{
				Code:    CodeUnbalancedParens,
				Pos:     open,
				Message: "missing closing parenthesis",
			}
		}
		child, err := r.parseNode()
		if err != nil {
			return nil, err
		}
		form.Children = append(form.Children, child)
	}

	if err := r.advance(); err != nil {
		return nil, err
	}
	return form, nil
}
