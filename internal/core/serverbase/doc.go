// SPDX-License-Identifier: MPL-2.0

// Package serverbase runs listener-backed services through a single-use
// lifecycle: created, starting, running, stopping, then stopped or failed.
//
// Base owns the listener, the serve goroutine and the asynchronous error
// channel. The SSH console server and the metrics endpoint embed it and
// supply a Service (an *ssh.Server or an *http.Server).
package serverbase
