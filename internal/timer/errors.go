package timer

import (
	"fmt"
	"strings"
)

// SpecError is a single trigger that could not be registered
type SpecError struct {
	Spec Spec
	Err  error
}

// ScheduleConsistencyError reports the triggers of an owner that failed during a batch replace.
// The rest of the batch is live.
type ScheduleConsistencyError struct {
	Owner    Owner
	Failures []SpecError
}

func (e *ScheduleConsistencyError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s@%s: %v", f.Spec.key(), f.Spec.At, f.Err))
	}
	return fmt.Sprintf("%d trigger(s) of %s not registered: %s", len(e.Failures), e.Owner, strings.Join(parts, "; "))
}

func (e *ScheduleConsistencyError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
