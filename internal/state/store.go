// Package state records the history of fixpq runs in SQLite.
// Every processed input gets one row: which command ran on it, how it ended
// and the token, node and dropped-line counts.
package state

import (
	"context"
	"errors"
	"time"
)

// RunStatus is the lifecycle state of a run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// ErrRunNotFound is returned by GetRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded command invocation on one input.
type Run struct {
	ID          string
	Command     string
	Input       string
	Output      string
	Status      RunStatus
	Tokens      int
	Nodes       int
	Dropped     int
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Duration returns how long the run took, or zero while it is running.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// RunResult carries the outcome recorded by CompleteRun. A non-nil Err marks
// the run failed regardless of Status.
type RunResult struct {
	Status  RunStatus
	Output  string
	Tokens  int
	Nodes   int
	Dropped int
	Err     error
}

// Store persists run history.
type Store interface {
	CreateRun(ctx context.Context, command, input string) (*Run, error)
	CompleteRun(ctx context.Context, id string, result RunResult) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	Close() error
}
