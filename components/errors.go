package components

import (
	"errors"
	"fmt"
)

// ErrAlreadyRun is returned when an App is asked to run a second pass.
var ErrAlreadyRun = errors.New("initialization pass already ran")

// UnknownComponentError is returned for an element naming a component that
// has no registered factory.
type UnknownComponentError struct {
	Name string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown component %q", e.Name)
}

// DuplicateSingletonError reports a second element for a singleton
// component.  It is a warning: the element is skipped and the pass goes on.
type DuplicateSingletonError struct {
	Name string
}

func (e *DuplicateSingletonError) Error() string {
	return fmt.Sprintf("only one instance of %s allowed", e.Name)
}
