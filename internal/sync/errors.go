package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreCorrupted signals that persisted snapshot state could not be
	// parsed. Recovery is a full re-sync from an empty base.
	ErrStoreCorrupted = errors.New("snapshot store corrupted")

	// ErrSessionLocked signals another sync session holds the workspace lock.
	ErrSessionLocked = errors.New("another sync session is running for this course")
)

// TransportError wraps a network or API failure from the transport adapter.
// Retryable failures are retried by the engine's retry policy; permanent ones
// are surfaced per-path in the run report.
type TransportError struct {
	Op        string
	Path      string
	Status    int
	Retryable bool
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s %s: status=%d retryable=%v: %v", e.Op, e.Path, e.Status, e.Retryable, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a transport error marked retryable.
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Retryable
}
