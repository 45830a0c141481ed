// SPDX-License-Identifier: MPL-2.0

package binder

import (
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
	"github.com/ykrasik/jaci-sub001/pkg/param"
)

type (
	// Diagnostic describes where binding stopped: the command, the values
	// bound so far, the parameter being processed and those still unbound.
	Diagnostic struct {
		Command *hierarchy.Command
		Bound   param.Args
		// Current is the parameter the failing token was bound to, or nil
		// when the token could not be attributed to any parameter.
		Current *param.Spec
		Unbound []*param.Spec
		// Token is the raw token being processed, if any.
		Token string
	}

	// ParseError is a binding failure together with its Diagnostic. Err is a
	// *param.Error or a hierarchy path error.
	ParseError struct {
		Err        error
		Diagnostic Diagnostic
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Diagnostic.Command == nil {
		return e.Err.Error()
	}
	return e.Diagnostic.Command.Name() + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is() and errors.As().
func (e *ParseError) Unwrap() error {
	return e.Err
}
