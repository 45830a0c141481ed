// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves consoles over SSH using the Wish library.
//
// Every SSH session gets its own console session over the shared command
// hierarchy, so clients have independent working directories. A session
// with a pty gets the interactive line editor; "ssh host <line>" executes
// a single line and piped input is executed as a script. Clients
// authenticate with the configured password, or not at all when none is
// set.
package sshserver
