package utils

import "errors"

// Reports whether any of the targets satisifies any error in the tree of the
// given error; that is, if [errors.Is] returns true.
func AnyError(err error, targets ...error) bool {
	for _, target := range targets {
		if target == nil && err == nil {
			return true
		} else if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Collect every error of type T in the tree of the given error, including all
// branches of joined errors.  Unlike [errors.As], this does not stop at the
// first match.
func Collect[T error](err error) []T {
	var result []T
	var visit func(error)
	visit = func(err error) {
		if err == nil {
			return
		}
		if typed, ok := err.(T); ok {
			result = append(result, typed)
			return
		}
		switch e := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				visit(inner)
			}
		case interface{ Unwrap() error }:
			visit(e.Unwrap())
		}
	}
	visit(err)
	return result
}
