package models

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable marks a total failure of the external record source.
// It is fatal for the entire run: no partial tables are written.
var ErrDataUnavailable = errors.New("purchase ledger unavailable")

// InvariantViolationError reports a broken internal contract, such as a
// zero or nil resolved interval reaching the forecast engine. It signals a
// programming defect upstream and is never silently coerced.
type InvariantViolationError struct {
	Stage  string
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Stage, e.Detail)
}

// IsInvariantViolation reports whether err is an InvariantViolationError.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolationError
	return errors.As(err, &iv)
}
