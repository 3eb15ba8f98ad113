package pcmax

import (
	"errors"
	"fmt"
)

// ErrInvalidAssignment wraps wrong lengths and out-of-range processor ids.
var ErrInvalidAssignment = errors.New("invalid assignment")

// ValidateAssignment checks that every task is owned by a processor id in
// [1, processors].
func ValidateAssignment(assign []int, tasks, processors int) error {
	if len(assign) != tasks {
		return fmt.Errorf("%w: length must be %d (got %d)", ErrInvalidAssignment, tasks, len(assign))
	}
	for i, p := range assign {
		if p < 1 || p > processors {
			return fmt.Errorf("%w: assign[%d]=%d out of range [1,%d]", ErrInvalidAssignment, i, p, processors)
		}
	}
	return nil
}
