package sync

import (
	"time"
)

// PathResult records the outcome of one executed operation.
type PathResult struct {
	Path string
	Op   OpType
	Err  error
}

// Report is the partial-success summary of one sync session. Conflicts are a
// reportable condition, not a failure: the run completes and base advances
// for every path that fully succeeded.
type Report struct {
	SessionID string
	CourseID  string
	StartedAt time.Time
	Duration  time.Duration

	Plan      *Plan
	DryRun    bool
	Committed bool

	Succeeded []PathResult
	Failed    []PathResult
	Conflicts []*Conflict
	Unchanged int
}

// HasFailures reports whether any operation permanently failed.
func (r *Report) HasFailures() bool {
	return len(r.Failed) > 0
}

// HasConflicts reports whether unresolved conflicts remain.
func (r *Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Clean reports a fully successful run with nothing left behind.
func (r *Report) Clean() bool {
	return !r.HasFailures() && !r.HasConflicts()
}
