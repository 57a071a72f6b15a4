// Package state provides an optional run-history store for compose
// invocations. The interpreter core is stateless; hosts that want cross-run
// records inject a Store, and everything here stays outside the pipeline.
package state

import "time"

// RunStatus is the lifecycle state of a recorded compose run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded compose invocation.
type Run struct {
	ID          string
	Composition string
	Source      string // source file path, empty for stdin/REPL input
	Status      RunStatus
	LineCount   int
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Store records compose runs.
type Store interface {
	// Open opens the store at the given path (":memory:" for in-memory).
	Open(path string) error
	// Migrate brings the schema up to date.
	Migrate() error
	// Close releases the store.
	Close() error

	// CreateRun records the start of a compose invocation.
	CreateRun(composition, source string) (*Run, error)
	// CompleteRun records the outcome of a run.
	CompleteRun(id string, status RunStatus, lineCount int, errMsg string) error
	// GetRun retrieves a run by ID.
	GetRun(id string) (*Run, error)
	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*Run, error)
}
