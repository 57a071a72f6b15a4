package reader

import "fmt"

// Syntax error codes.
const (
	CodeUnbalancedParens   = "UnbalancedParens"
	CodeUnterminatedString = "UnterminatedString"
)

// SyntaxError represents malformed source input. It is always fatal to the
// current load; no partial result is returned alongside it.
type SyntaxError struct {
	Code    string
	Pos     Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error (%s) at offset %d (line %d, column %d): %s",
		e.Code, e.Pos.Offset, e.Pos.Line, e.Pos.Column, e.Message)
}
