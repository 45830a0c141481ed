// SPDX-License-Identifier: MPL-2.0

// Package console runs command lines against a command hierarchy.
//
// A Session owns the only mutable state of a console: the working
// directory. The hierarchy itself is immutable and may be shared by any
// number of sessions, e.g. one per SSH connection. Calls on a Session are
// serialized; commands change the working directory through the Navigator
// handed to them.
package console
