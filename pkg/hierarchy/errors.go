// SPDX-License-Identifier: MPL-2.0

package hierarchy

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchEntry is the sentinel error wrapped by NoSuchEntryError.
	ErrNoSuchEntry = errors.New("no such entry")
	// ErrNotADirectory is the sentinel error wrapped by NotADirectoryError.
	ErrNotADirectory = errors.New("not a directory")
	// ErrNotACommand is the sentinel error wrapped by NotACommandError.
	ErrNotACommand = errors.New("not a command")
	// ErrEmptyDirectory is the sentinel error wrapped by EmptyDirectoryError.
	ErrEmptyDirectory = errors.New("empty directory")

	// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
	ErrInvalidName = errors.New("invalid entry name")
	// ErrNameConflict is the sentinel error wrapped by NameConflictError.
	ErrNameConflict = errors.New("entry name conflict")
	// ErrInvalidCommand is the sentinel error wrapped by InvalidCommandError.
	ErrInvalidCommand = errors.New("invalid command")
)

type (
	// NoSuchEntryError is returned when a path segment names nothing in Dir.
	NoSuchEntryError struct {
		Name string
		Dir  *Directory
	}

	// NotADirectoryError is returned when a path traverses through a command.
	NotADirectoryError struct {
		Name string
	}

	// NotACommandError is returned when a command was expected but the path
	// names a directory.
	NotACommandError struct {
		Name string
	}

	// EmptyDirectoryError is returned when completing a non-empty prefix in a
	// directory that has no candidates to offer.
	EmptyDirectoryError struct {
		Dir *Directory
	}

	// InvalidNameError is returned by Build for names that cannot be typed
	// on a command line.
	InvalidNameError struct {
		Name   string
		Reason string
	}

	// NameConflictError is returned by Build when a directory and a command,
	// or two entries of the same kind, share a name in one directory.
	NameConflictError struct {
		Path string
		Name string
	}

	// InvalidCommandError is returned by Build when a command definition is
	// inconsistent. It collects every problem found.
	InvalidCommandError struct {
		Path     string
		Problems []error
	}
)

// Error implements the error interface.
func (e *NoSuchEntryError) Error() string {
	if e.Dir == nil {
		return fmt.Sprintf("no such entry %q", e.Name)
	}
	return fmt.Sprintf("no such entry %q in %s", e.Name, e.Dir.Path())
}

// Unwrap returns ErrNoSuchEntry for errors.Is() compatibility.
func (e *NoSuchEntryError) Unwrap() error { return ErrNoSuchEntry }

// Error implements the error interface.
func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("%q is not a directory", e.Name)
}

// Unwrap returns ErrNotADirectory for errors.Is() compatibility.
func (e *NotADirectoryError) Unwrap() error { return ErrNotADirectory }

// Error implements the error interface.
func (e *NotACommandError) Error() string {
	return fmt.Sprintf("%q is a directory, not a command", e.Name)
}

// Unwrap returns ErrNotACommand for errors.Is() compatibility.
func (e *NotACommandError) Unwrap() error { return ErrNotACommand }

// Error implements the error interface.
func (e *EmptyDirectoryError) Error() string {
	return fmt.Sprintf("directory %s is empty", e.Dir.Path())
}

// Unwrap returns ErrEmptyDirectory for errors.Is() compatibility.
func (e *EmptyDirectoryError) Unwrap() error { return ErrEmptyDirectory }

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// Error implements the error interface.
func (e *NameConflictError) Error() string {
	return fmt.Sprintf("name %q is defined more than once in %s", e.Name, e.Path)
}

// Unwrap returns ErrNameConflict for errors.Is() compatibility.
func (e *NameConflictError) Unwrap() error { return ErrNameConflict }

// Error implements the error interface.
func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("invalid command %s: %v", e.Path, errors.Join(e.Problems...))
}

// Unwrap returns the sentinel and every collected problem.
func (e *InvalidCommandError) Unwrap() []error {
	return append([]error{ErrInvalidCommand}, e.Problems...)
}
