package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the order no longer exists at the authority.
	ErrNotFound = errors.New("order not found at authority")
	// ErrConflict means the authority holds a newer state for the order;
	// reload and re-derive legality before retrying.
	ErrConflict = errors.New("order state conflict at authority")
)

// RejectionError is returned when the authority declined a well-formed
// request, e.g. permission denied. It is surfaced verbatim and must not be
// retried automatically.
type RejectionError struct {
	StatusCode int
	Message    string
}

func (e *RejectionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("authority rejected request (%d): %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("authority rejected request (%d)", e.StatusCode)
}

// TransientError wraps network trouble, timeouts, 5xx responses and an open
// circuit breaker. Retrying is safe; the cache has been restored to its
// pre-optimistic state before this error is surfaced.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient authority failure: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the error is safe to retry.
func IsTransient(err error) bool {
	var transient *TransientError

	return errors.As(err, &transient)
}
