package availability

import (
	"errors"
	"fmt"
)

// ErrInvalidPolicy некорректная политика расписания
var ErrInvalidPolicy = errors.New("invalid availability policy")

// ValidationError is returned for malformed input. It is distinct from the
// "not available" outcome, which is reported as false or an empty sequence.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("availability: invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err wraps a *ValidationError
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
