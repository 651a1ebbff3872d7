package domain

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid run configuration. Err may hold several
// violations combined with multierr.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "invalid config: " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// TransportError is the last network failure of a check whose retry budget
// ran out.
type TransportError struct {
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Err)
}
func (e *TransportError) Unwrap() error { return e.Err }

// WorkerAbortError marks URLs left unchecked because their worker panicked.
// CorrelationID matches the log entry that carries the panic and stack.
type WorkerAbortError struct {
	CorrelationID string
}

func (e *WorkerAbortError) Error() string {
	return fmt.Sprintf("worker aborted (correlation_id: %s)", e.CorrelationID)
}

// CanceledError marks a check cut short by run cancellation. Err is the last
// transport error seen, if any attempt was made.
type CanceledError struct {
	Attempts int
	Err      error
}

func (e *CanceledError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("canceled after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("canceled after %d attempts: %v", e.Attempts, e.Err)
}
func (e *CanceledError) Unwrap() error { return e.Err }

// ErrorKind names the error category of a result for reports: "" for
// successful checks, then "transport", "worker_aborted", "canceled" or "other".
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var (
		te *TransportError
		we *WorkerAbortError
		ce *CanceledError
	)
	switch {
	case errors.As(err, &we):
		return "worker_aborted"
	case errors.As(err, &ce):
		return "canceled"
	case errors.As(err, &te):
		return "transport"
	default:
		return "other"
	}
}
