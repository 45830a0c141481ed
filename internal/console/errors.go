// SPDX-License-Identifier: MPL-2.0

package console

import (
	"errors"
	"fmt"

	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
)

// ErrCommandFailed is the sentinel error wrapped by CommandError.
var ErrCommandFailed = errors.New("command failed")

// CommandError is returned when a resolved command's executor fails. It
// separates failures of the command itself from failures to parse the line.
type CommandError struct {
	Command *hierarchy.Command
	Err     error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command.Path(), e.Err)
}

// Unwrap returns ErrCommandFailed and the executor's error.
func (e *CommandError) Unwrap() []error {
	return []error{ErrCommandFailed, e.Err}
}
