// SPDX-License-Identifier: MPL-2.0

package serverbase

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

const (
	defaultStartupTimeout  = 5 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// ErrInvalidState is returned when Start is called on a server that was
// already started.
var ErrInvalidState = errors.New("invalid server state")

type (
	// Service serves connections accepted on a listener. *http.Server and
	// *ssh.Server implement it.
	Service interface {
		Serve(l net.Listener) error
		Shutdown(ctx context.Context) error
	}

	// Base provides the lifecycle of a listener-backed server. Concrete
	// servers embed it and call Start with a Service factory.
	//
	// A server instance is single-use: once stopped or failed, create a new
	// instance.
	Base struct {
		state atomic.Int32

		logger          *log.Logger
		startupTimeout  time.Duration
		shutdownTimeout time.Duration
		closedErrs      []error

		// mu guards lastErr, listener and svc.
		mu       sync.Mutex
		lastErr  error
		listener net.Listener
		svc      Service

		wg        sync.WaitGroup
		startedCh chan struct{}
		errCh     chan error
		closeOnce sync.Once
	}
)

// NewBase creates a new Base with the given options.
func NewBase(opts ...Option) *Base {
	b := &Base{
		logger:          log.Default(),
		startupTimeout:  defaultStartupTimeout,
		shutdownTimeout: defaultShutdownTimeout,
		closedErrs:      []error{net.ErrClosed},
		startedCh:       make(chan struct{}),
		errCh:           make(chan error, 1),
	}
	b.state.Store(int32(StateCreated))
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the current server state (atomic, lock-free read).
func (b *Base) State() State {
	return State(b.state.Load())
}

// IsRunning returns true if the server is in the Running state.
func (b *Base) IsRunning() bool {
	return b.State() == StateRunning
}

// Err returns a channel receiving errors raised while serving. It is closed
// once the server has stopped.
func (b *Base) Err() <-chan error {
	return b.errCh
}

// LastError returns the error that caused the Failed state, or nil.
func (b *Base) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Address returns the bound address (host:port), or "" if the server never
// listened.
func (b *Base) Address() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listener == nil {
		return ""
	}
	return b.listener.Addr().String()
}

// Start listens on addr, creates the service with newService and serves it
// in the background. It blocks until either:
//   - the service is serving (returns nil)
//   - listening or creating the service fails (returns error)
//   - ctx is done or the startup timeout is exceeded (returns error)
//
// After Start returns nil, use Err to monitor for serve errors.
func (b *Base) Start(ctx context.Context, addr string, newService func(net.Listener) (Service, error)) error {
	select {
	case <-ctx.Done():
		return b.Fail(fmt.Errorf("context cancelled before start: %w", ctx.Err()))
	default:
	}
	if !b.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("%w: cannot start server in state %s", ErrInvalidState, b.State())
	}

	startupCtx, cancel := context.WithTimeout(ctx, b.startupTimeout)
	defer cancel()

	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		return b.Fail(fmt.Errorf("failed to listen on %s: %w", addr, err))
	}
	svc, err := newService(listener)
	if err != nil {
		_ = listener.Close() //nolint:errcheck // best-effort cleanup on error
		return b.Fail(err)
	}

	b.mu.Lock()
	b.listener = listener
	b.svc = svc
	b.mu.Unlock()

	b.wg.Go(func() { b.serve(svc, listener) })

	select {
	case <-b.startedCh:
		b.logger.Info("server started", "address", listener.Addr().String())
		return nil
	case err := <-b.errCh:
		return b.Fail(err)
	case <-startupCtx.Done():
		_ = listener.Close() //nolint:errcheck // unblocks Serve
		return b.Fail(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
	}
}

func (b *Base) serve(svc Service, listener net.Listener) {
	if b.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(b.startedCh)
	}
	if err := svc.Serve(listener); err != nil && !b.isClosedErr(err) {
		b.sendError(fmt.Errorf("serve error: %w", err))
	}
}

// Fail marks the server as failed with err and returns err. Concrete
// servers call it when they reject their configuration before Start.
func (b *Base) Fail(err error) error {
	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()
	b.state.Store(int32(StateFailed))
	b.sendError(err)
	return err
}

// Stop gracefully stops the server, waiting for open connections up to
// the shutdown timeout. Safe to call multiple times; subsequent calls wait
// for the first to finish.
func (b *Base) Stop() error {
	if !b.transitionToStopping() {
		b.wg.Wait()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.shutdownTimeout)
	defer cancel()

	b.mu.Lock()
	svc, listener := b.svc, b.listener
	b.mu.Unlock()

	var err error
	if svc != nil {
		if err = svc.Shutdown(ctx); err != nil && b.isClosedErr(err) {
			err = nil
		}
		if err != nil {
			b.logger.Error("shutdown error", "error", err)
		}
	}
	if listener != nil {
		_ = listener.Close() //nolint:errcheck // already closed by a graceful Shutdown
	}

	b.wg.Wait()
	b.state.Store(int32(StateStopped))
	b.closeOnce.Do(func() { close(b.errCh) })
	b.logger.Info("server stopped")
	return err
}

// Wait blocks until the serve goroutine has exited. It returns the error
// that failed the server, or nil.
func (b *Base) Wait() error {
	b.wg.Wait()
	if b.State() == StateFailed {
		return b.LastError()
	}
	return nil
}

// transitionToStopping reports whether the caller must perform the
// shutdown. A server that never started is marked stopped directly.
func (b *Base) transitionToStopping() bool {
	for {
		current := b.State()
		switch current {
		case StateCreated:
			if b.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return false
			}
		case StateStarting, StateRunning:
			if b.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				return true
			}
		case StateFailed:
			// A failed server may still hold a listener from a timed-out start.
			b.mu.Lock()
			listener := b.listener
			b.mu.Unlock()
			if listener != nil {
				_ = listener.Close() //nolint:errcheck // best-effort cleanup
			}
			return false
		default:
			return false
		}
	}
}

func (b *Base) sendError(err error) {
	select {
	case b.errCh <- err:
	default:
	}
}

func (b *Base) isClosedErr(err error) bool {
	for _, target := range b.closedErrs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
