package program

import (
	"fmt"

	"github.com/shepherdvovkes/Motif/pkg/reader"
)

// Declaration error codes.
const (
	CodeMissingName    = "MissingName"
	CodeMalformedField = "MalformedField"
)

// DeclarationError reports a structurally invalid define-* form. It is
// fatal to the current load.
type DeclarationError struct {
	Code    string
	Kind    string
	Name    string // empty when the name itself is the problem
	Pos     reader.Position
	Message string
}

func (e *DeclarationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("declaration error (%s) in define-%s %s at line %d: %s",
			e.Code, e.Kind, e.Name, e.Pos.Line, e.Message)
	}
	return fmt.Sprintf("declaration error (%s) in define-%s at line %d: %s",
		e.Code, e.Kind, e.Pos.Line, e.Message)
}
