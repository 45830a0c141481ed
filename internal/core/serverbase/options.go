// SPDX-License-Identifier: MPL-2.0

package serverbase

import (
	"time"

	"github.com/charmbracelet/log"
)

// Option configures a Base instance.
type Option func(*Base)

// WithLogger sets the logger lifecycle events are reported to.
func WithLogger(l *log.Logger) Option {
	return func(b *Base) { b.logger = l }
}

// WithStartupTimeout bounds how long Start waits for the serve goroutine.
// Default is 5s.
func WithStartupTimeout(d time.Duration) Option {
	return func(b *Base) { b.startupTimeout = d }
}

// WithShutdownTimeout bounds graceful shutdown in Stop. Default is 10s.
func WithShutdownTimeout(d time.Duration) Option {
	return func(b *Base) { b.shutdownTimeout = d }
}

// WithClosedErrors adds errors that a Service's Serve returns after a
// graceful shutdown, such as http.ErrServerClosed. net.ErrClosed is always
// treated as one.
func WithClosedErrors(errs ...error) Option {
	return func(b *Base) { b.closedErrs = append(b.closedErrs, errs...) }
}

// WithErrorChannel sets the error channel buffer size. Default is 1.
func WithErrorChannel(size int) Option {
	return func(b *Base) { b.errCh = make(chan error, size) }
}
