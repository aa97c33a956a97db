package ai

import (
	"errors"
	"fmt"
)

// ModelError is the only error kind produced by the gateway: transport
// failures, timeouts, non-2xx answers and malformed JSON all end up here.
type ModelError struct {
	Op  string
	Err error
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("model %s failed", e.Op)
	}
	return fmt.Sprintf("model %s: %v", e.Op, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// IsModelError reports whether err carries a *ModelError.
func IsModelError(err error) bool {
	var me *ModelError
	return errors.As(err, &me)
}

// ErrUnavailable is returned when no completion backend is configured.
var ErrUnavailable = errors.New("model gateway is not configured")
