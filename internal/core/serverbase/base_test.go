// SPDX-License-Identifier: MPL-2.0

package serverbase

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// fakeService blocks in Serve until Shutdown or until an error is sent on
// fail.
type fakeService struct {
	stop      chan struct{}
	fail      chan error
	closedErr error
	once      sync.Once
}

func newFakeService(closedErr error) *fakeService {
	return &fakeService{stop: make(chan struct{}), fail: make(chan error, 1), closedErr: closedErr}
}

func (f *fakeService) Serve(net.Listener) error {
	select {
	case <-f.stop:
		return f.closedErr
	case err := <-f.fail:
		return err
	}
}

func (f *fakeService) Shutdown(context.Context) error {
	f.once.Do(func() { close(f.stop) })
	return nil
}

func newTestBase(opts ...Option) *Base {
	return NewBase(append([]Option{WithLogger(log.New(io.Discard))}, opts...)...)
}

func start(t *testing.T, b *Base, svc Service) {
	t.Helper()
	err := b.Start(context.Background(), "127.0.0.1:0", func(net.Listener) (Service, error) {
		return svc, nil
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}

func TestLifecycle(t *testing.T) {
	t.Parallel()

	b := newTestBase(WithClosedErrors(http.ErrServerClosed))
	if b.State() != StateCreated || b.Address() != "" {
		t.Fatalf("new Base: state %s, address %q", b.State(), b.Address())
	}

	start(t, b, newFakeService(http.ErrServerClosed))
	if !b.IsRunning() {
		t.Errorf("State() = %s, want running", b.State())
	}
	if b.Address() == "" {
		t.Error("Address() is empty after Start")
	}

	if err := b.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if b.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", b.State())
	}
	if err, ok := <-b.Err(); ok {
		t.Errorf("Err() delivered %v after a clean stop", err)
	}
	if err := b.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
	if err := b.Wait(); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestStartFailures(t *testing.T) {
	t.Parallel()

	t.Run("double start", func(t *testing.T) {
		t.Parallel()

		b := newTestBase()
		start(t, b, newFakeService(nil))
		defer func() { _ = b.Stop() }()

		err := b.Start(context.Background(), "127.0.0.1:0", func(net.Listener) (Service, error) {
			t.Error("factory called on a started server")
			return nil, nil
		})
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("second Start() error = %v, want ErrInvalidState", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		b := newTestBase()
		err := b.Start(ctx, "127.0.0.1:0", func(net.Listener) (Service, error) {
			t.Error("factory called with a cancelled context")
			return nil, nil
		})
		if !errors.Is(err, context.Canceled) || b.State() != StateFailed {
			t.Errorf("Start() = %v, state %s", err, b.State())
		}
		if !errors.Is(b.Wait(), context.Canceled) {
			t.Errorf("Wait() = %v", b.Wait())
		}
	})

	t.Run("listen error", func(t *testing.T) {
		t.Parallel()

		b := newTestBase()
		err := b.Start(context.Background(), "256.0.0.1:bad", func(net.Listener) (Service, error) {
			return newFakeService(nil), nil
		})
		if err == nil || b.State() != StateFailed {
			t.Errorf("Start() = %v, state %s", err, b.State())
		}
	})

	t.Run("factory error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		b := newTestBase()
		err := b.Start(context.Background(), "127.0.0.1:0", func(net.Listener) (Service, error) {
			return nil, boom
		})
		if !errors.Is(err, boom) || !errors.Is(b.LastError(), boom) {
			t.Errorf("Start() = %v, LastError() = %v", err, b.LastError())
		}
		if err := b.Stop(); err != nil {
			t.Errorf("Stop() on a failed server = %v", err)
		}
		if b.State() != StateFailed {
			t.Errorf("State() = %s, want failed", b.State())
		}
	})
}

func TestServeErrorIsReported(t *testing.T) {
	t.Parallel()

	b := newTestBase()
	svc := newFakeService(nil)
	start(t, b, svc)

	boom := errors.New("accept failed")
	svc.fail <- boom
	select {
	case err := <-b.Err():
		if !errors.Is(err, boom) {
			t.Errorf("Err() = %v, want %v", err, boom)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve error was not reported")
	}
	if err := b.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestStopWithoutStart(t *testing.T) {
	t.Parallel()

	b := newTestBase()
	if err := b.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if b.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", b.State())
	}
	if err := b.Start(context.Background(), "127.0.0.1:0", nil); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Start() after Stop() = %v", err)
	}
}

func TestConcurrentStop(t *testing.T) {
	t.Parallel()

	b := newTestBase()
	start(t, b, newFakeService(nil))

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			if err := b.Stop(); err != nil {
				t.Errorf("Stop() error = %v", err)
			}
			_ = b.State().String()
		})
	}
	wg.Wait()
	if b.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", b.State())
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state    State
		want     string
		terminal bool
	}{
		{StateCreated, "created", false},
		{StateStarting, "starting", false},
		{StateRunning, "running", false},
		{StateStopping, "stopping", false},
		{StateStopped, "stopped", true},
		{StateFailed, "failed", true},
		{State(99), "unknown", false},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
		if got := tt.state.IsTerminal(); got != tt.terminal {
			t.Errorf("State(%d).IsTerminal() = %v, want %v", tt.state, got, tt.terminal)
		}
	}
}
