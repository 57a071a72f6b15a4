package resolve

import (
	"fmt"
	"strings"
)

// Reference error codes.
const (
	CodeUnknownDeclaration = "UnknownDeclaration"
	CodeCyclicDeclaration  = "CyclicDeclaration"
)

// ReferenceError reports a broken or circular reference discovered while
// resolving one root. It names the offending declaration so callers can
// point at the exact source construct.
type ReferenceError struct {
	Code string
	// Name is the missing declaration (UnknownDeclaration) or the one that
	// closes the cycle (CyclicDeclaration).
	Name string
	// Referencer is the declaration whose field held the reference.
	Referencer string
	// Cycle is the reference path for CyclicDeclaration, ending at the
	// repeated name.
	Cycle []string
}

func (e *ReferenceError) Error() string {
	switch e.Code {
	case CodeCyclicDeclaration:
		return fmt.Sprintf("reference error (%s): cycle %s", e.Code, strings.Join(e.Cycle, " -> "))
	default:
		return fmt.Sprintf("reference error (%s): %q referenced by %q is not declared",
			e.Code, e.Name, e.Referencer)
	}
}
