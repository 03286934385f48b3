package payment

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// UnknownExternalStateError indicates the normalizer received an external
// value outside its known vocabulary. It is a data-integrity condition: the
// value is surfaced immediately, never coerced or retried.
type UnknownExternalStateError struct {
	Value string
	Known []string
}

func (e *UnknownExternalStateError) Error() string {
	return fmt.Sprintf("unknown external payment state %q", e.Value)
}

func newUnknownExternalStateError(value string) *UnknownExternalStateError {
	return &UnknownExternalStateError{
		Value: value,
		Known: slices.Sorted(maps.Keys(externalVocabulary)),
	}
}

func IsUnknownExternalStateError(err error) bool {
	var e *UnknownExternalStateError
	return errors.As(err, &e)
}
