// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// exhausted reports whether err means the kernel will not deliver further
// catalog events, and returns what the operator can do about it.
func exhausted(err error) (hint string, ok bool) {
	switch {
	case errors.Is(err, syscall.ENOSPC):
		return "raise fs.inotify.max_user_watches or watch fewer catalog directories", true
	case errors.Is(err, syscall.EMFILE):
		return "raise the open file limit of the server (ulimit -n)", true
	case errors.Is(err, syscall.ENFILE):
		return "the system ran out of file descriptors; free some and restart the server", true
	}
	return "", false
}
