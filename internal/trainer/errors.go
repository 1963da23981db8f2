package trainer

import (
	"fmt"
)

// InsufficientDataError is returned by Fit when fewer than the required
// number of labeled records remain after filtering.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient training data: %d usable records, need at least %d", e.Have, e.Need)
}

// SchemaMismatchError is returned by Fit or Predict when a record lacks
// a required field or carries a non-finite value.
type SchemaMismatchError struct {
	Field  string
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("record schema mismatch on %q: %s", e.Field, e.Reason)
}
