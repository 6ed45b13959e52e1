package engine

import (
	"errors"
	"fmt"
)

// ErrModelsUnavailable gates every prediction-dependent operation when one or
// more frozen model artifacts failed to load. It is reported once at startup
// and not retried; a missing artifact is not a transient condition.
var ErrModelsUnavailable = errors.New("model artifacts unavailable")

// ErrEmptySeries is returned when an operation is asked to work on a series
// with no rows. It is a normal outcome for a fresh database, not a fault.
var ErrEmptySeries = errors.New("series has no rows")

// UnknownCategoryError reports a category label outside the frozen encoder's
// trained vocabulary. It is fatal for the operation in progress; a label is
// never silently coerced to a default code, since an arbitrary code would
// corrupt downstream predictions.
type UnknownCategoryError struct {
	Field string // "section" or "operating_state"
	Label string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s label %q: not in trained vocabulary", e.Field, e.Label)
}
