// Package schederr defines the two failure kinds a scheduling run can end
// with: malformed input and circular dependencies.
package schederr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrValidation    = errors.New("invalid input")
	ErrCycleDetected = errors.New("circular dependency")
)

// Error carries a failure kind plus detail. Cycle holds the witness path
// (task ids, first id repeated at the end) for ErrCycleDetected.
type Error struct {
	Kind  error
	Msg   string
	Cycle []int
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Validationf builds an ErrValidation error.
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// Cycle builds an ErrCycleDetected error around a witness path.
func Cycle(path []int) error {
	msg := "cycle"
	if len(path) > 0 {
		parts := make([]string, len(path))
		for i, id := range path {
			parts[i] = strconv.Itoa(id)
		}
		msg = "cycle: " + strings.Join(parts, " -> ")
	}
	return &Error{Kind: ErrCycleDetected, Msg: msg, Cycle: path}
}

func IsCycle(err error) bool      { return errors.Is(err, ErrCycleDetected) }
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// KindName returns a short label for logging ("validation", "cycle", "").
func KindName(err error) string {
	switch {
	case IsCycle(err):
		return "cycle"
	case IsValidation(err):
		return "validation"
	default:
		return ""
	}
}
