package dynamo

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for caller errors: steps below one,
// negative noise, non-finite inputs and series of unequal length.
var ErrInvalidArgument = errors.New("dynamo: invalid argument")

// LengthError reports two series that cannot be compared elementwise.
type LengthError struct {
	Left  int
	Right int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("dynamo: series length mismatch (%d != %d)", e.Left, e.Right)
}

func (e *LengthError) Unwrap() error {
	return ErrInvalidArgument
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}
