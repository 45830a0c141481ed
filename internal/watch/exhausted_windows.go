// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 error codes reported by ReadDirectoryChangesW.
const (
	errnoTooManyOpenFiles = syscall.Errno(4)
	errnoInvalidHandle    = syscall.Errno(6)
	errnoNotEnoughMemory  = syscall.Errno(8)
)

// exhausted reports whether err means the system will not deliver further
// catalog events, and returns what the operator can do about it.
func exhausted(err error) (hint string, ok bool) {
	switch {
	case errors.Is(err, errnoTooManyOpenFiles):
		return "close programs holding many handles and restart the server", true
	case errors.Is(err, errnoInvalidHandle):
		return "a watched catalog directory was removed; restore it and restart the server", true
	case errors.Is(err, errnoNotEnoughMemory):
		return "not enough memory for change notifications; restart the server", true
	}
	return "", false
}
