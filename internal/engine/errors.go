package engine

import "fmt"

// Execution error codes.
const (
	CodeUnboundedRepetition = "UnboundedRepetition"
	CodeNotAComposition     = "NotAComposition"
	CodeNotAMotif           = "NotAMotif"
	CodeMalformedDirective  = "MalformedDirective"
)

// ExecutionError reports a failure while executing a resolved composition.
type ExecutionError struct {
	Code string
	// Name is the declaration the executor was working on.
	Name    string
	Message string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution error (%s) in %q: %s", e.Code, e.Name, e.Message)
}
