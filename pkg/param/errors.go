// SPDX-License-Identifier: MPL-2.0

package param

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownParameter is returned when a name=value token names no parameter.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrAlreadyBound is returned when a parameter receives a second value.
	ErrAlreadyBound = errors.New("parameter already bound")
	// ErrNoMoreParameters is returned when a positional value has no parameter left to bind to.
	ErrNoMoreParameters = errors.New("no more parameters")
	// ErrMissingMandatoryParameter is returned when a mandatory parameter received no value.
	ErrMissingMandatoryParameter = errors.New("missing mandatory parameter")
	// ErrTypeMismatch is returned when a value does not parse as the parameter's kind.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrValueNotAccepted is returned when a string value is outside the accepted set.
	ErrValueNotAccepted = errors.New("value not accepted")

	// ErrInvalidSpec is the sentinel error wrapped by InvalidSpecError.
	ErrInvalidSpec = errors.New("invalid parameter spec")
	// ErrInvalidName is returned when a parameter name cannot be typed on a command line.
	ErrInvalidName = errors.New("invalid parameter name")
)

type (
	// Error is a structured binding failure. Code is one of the Err* binding
	// sentinels; Cause, when set, is the underlying parse or resolution error.
	Error struct {
		Code  error
		Param string
		Value string
		Cause error
	}

	// InvalidSpecError is returned when a Spec is inconsistent.
	// It wraps ErrInvalidSpec for errors.Is() compatibility and collects
	// every problem found.
	InvalidSpecError struct {
		Param    string
		Problems []error
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	var msg string
	switch {
	case errors.Is(e.Code, ErrUnknownParameter):
		msg = fmt.Sprintf("unknown parameter %q", e.Param)
	case errors.Is(e.Code, ErrAlreadyBound):
		msg = fmt.Sprintf("parameter %q is already bound", e.Param)
	case errors.Is(e.Code, ErrNoMoreParameters):
		msg = fmt.Sprintf("no more parameters to bind value %q to", e.Value)
	case errors.Is(e.Code, ErrMissingMandatoryParameter):
		msg = fmt.Sprintf("missing value for mandatory parameter %q", e.Param)
	case errors.Is(e.Code, ErrTypeMismatch):
		msg = fmt.Sprintf("parameter %q: invalid value %q", e.Param, e.Value)
	case errors.Is(e.Code, ErrValueNotAccepted):
		msg = fmt.Sprintf("parameter %q does not accept value %q", e.Param, e.Value)
	default:
		msg = fmt.Sprintf("parameter %q: %v", e.Param, e.Code)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the binding sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Code}
	}
	return []error{e.Code, e.Cause}
}

// Error implements the error interface for InvalidSpecError.
func (e *InvalidSpecError) Error() string {
	problems := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		problems[i] = p.Error()
	}
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, strings.Join(problems, "; "))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidSpecError) Unwrap() error {
	return ErrInvalidSpec
}

func newError(code error, name, value string, cause error) *Error {
	return &Error{Code: code, Param: name, Value: value, Cause: cause}
}
