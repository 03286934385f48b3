package fsm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyTable           = errors.New("transition table has no states")
	ErrUnknownState         = errors.New("state is not part of the transition table")
	ErrDiscontinuousHistory = errors.New("history records are not contiguous")
)

// InvalidTransitionError indicates the requested target is not reachable from
// the current state. It carries the full allowed-destination set so callers can
// render an exact diagnostic without consulting the table themselves.
type InvalidTransitionError struct {
	From    string
	To      string
	Allowed []string
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid transition from terminal state %q to %q", e.From, e.To)
	}
	return fmt.Sprintf("invalid transition from %q to %q (allowed: %s)", e.From, e.To, strings.Join(e.Allowed, ", "))
}

func newInvalidTransitionError[S ~string](from, to S, allowed []S) *InvalidTransitionError {
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	return &InvalidTransitionError{From: string(from), To: string(to), Allowed: names}
}

func IsInvalidTransitionError(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}
