package beacon

import (
	"errors"
	"fmt"
)

// ErrInvalidUUID is reported if the scanned identifier is not a well-formed
// UUID. It is reported synchronously and no scan is started.
var ErrInvalidUUID = errors.New("invalid UUID")

// ErrUnavailable is reported if the host does not support beacon ranging.
// It is reported synchronously and no scan is started.
var ErrUnavailable = errors.New("ranging unavailable")

// A RangingError is reported if the ranger failed mid-scan. The scan is
// terminated immediately and already collected observations are discarded.
type RangingError struct {
	Err error
}

// Error implements the error interface.
func (e *RangingError) Error() string {
	return fmt.Sprintf("ranging failed: %s", e.Err.Error())
}

// Unwrap returns the underlying ranger error.
func (e *RangingError) Unwrap() error {
	return e.Err
}
