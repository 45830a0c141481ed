// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"github.com/ykrasik/jaci-sub001/internal/console"
	"github.com/ykrasik/jaci-sub001/internal/render"
	"github.com/ykrasik/jaci-sub001/internal/repl"
)

// consoleMiddleware runs one console per SSH session:
//   - a command given to ssh is executed as a single line
//   - a session with a pty gets an interactive console
//   - any other session executes its input as a script
func (s *Server) consoleMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			done := s.observer.SessionStarted()
			defer done()

			code := s.handle(sess)
			_ = sess.Exit(code) //nolint:errcheck // Terminal operation; error non-critical
			next(sess)
		}
	}
}

func (s *Server) handle(sess ssh.Session) int {
	ctx := sess.Context()
	pty, winCh, isPty := sess.Pty()

	var stdout, stderr io.Writer = sess, sess.Stderr()
	if isPty {
		// Without a line discipline "\n" only moves the cursor down.
		stdout = newCRLFWriter(sess)
		stderr = stdout
	}

	renderOpts := render.Options{
		Output:      stdout,
		ColorScheme: s.cfg.ColorScheme,
		Markdown:    s.cfg.Markdown,
	}
	if isPty {
		renderOpts.Width = pty.Window.Width
		renderOpts.Environ = append(sess.Environ(), "TERM="+pty.Term)
	}
	session := console.NewSession(s.Root(), stdout, stderr,
		console.WithLogger(s.logger.With("user", sess.User())),
		console.WithRenderer(render.New(renderOpts)),
		console.WithRecorder(s.observer),
	)

	switch {
	case sess.RawCommand() != "":
		if err := session.Run(ctx, sess.RawCommand()); err != nil {
			return 1
		}
		return 0

	case isPty:
		win := newWindow(pty.Window.Width, winCh)
		r := repl.New(session, repl.Options{
			Prompt: s.cfg.Prompt,
			Banner: fmt.Sprintf("Connected to %s. Tab completes, '?' lists, 'help' explains.", s.cfg.Prompt),
			Stdin:  sess,
			Stdout: stdout,
			Stderr: stdout,
			Terminal: &repl.Terminal{
				Width:    win.width,
				OnResize: win.onResize,
			},
		}, s.logger.With("user", sess.User()))
		if err := r.Run(ctx); err != nil {
			s.logger.Debug("console ended", "user", sess.User(), "error", err)
			return 1
		}
		return 0

	default:
		if err := repl.RunScript(ctx, session, sess); err != nil {
			return 1
		}
		return 0
	}
}

// window tracks the size of a session's pty.
type window struct {
	w atomic.Int64

	mu       sync.Mutex
	callback func()
}

func newWindow(width int, changes <-chan ssh.Window) *window {
	win := &window{}
	win.w.Store(int64(width))
	go func() {
		for c := range changes {
			win.w.Store(int64(c.Width))
			win.mu.Lock()
			cb := win.callback
			win.mu.Unlock()
			if cb != nil {
				cb()
			}
		}
	}()
	return win
}

func (w *window) width() int { return int(w.w.Load()) }

func (w *window) onResize(cb func()) {
	w.mu.Lock()
	w.callback = cb
	w.mu.Unlock()
}
