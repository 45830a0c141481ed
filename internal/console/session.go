// SPDX-License-Identifier: MPL-2.0

package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ykrasik/jaci-sub001/internal/render"
	"github.com/ykrasik/jaci-sub001/pkg/engine"
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
)

type (
	// Recorder observes session activity. internal/metrics implements it.
	Recorder interface {
		// CommandExecuted is called after a resolved command ran.
		CommandExecuted(path string, d time.Duration, err error)
		// ParseFailed is called when a line could not be resolved.
		ParseFailed(err error)
		// Assisted is called after every assist request.
		Assisted(candidates int, err error)
	}

	// Option configures a Session.
	Option func(*Session)

	// Session is one console: a working directory over a shared hierarchy
	// and the writers commands print to.
	Session struct {
		// callMu serializes Execute and Assist.
		callMu sync.Mutex
		// wdMu guards wd; commands change it while callMu is held.
		wdMu sync.RWMutex
		wd   *hierarchy.Directory

		root     *hierarchy.Directory
		stdout   io.Writer
		stderr   io.Writer
		renderer *render.Renderer
		logger   *log.Logger
		recorder Recorder
	}

	nopRecorder struct{}
)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithRenderer sets the renderer used by system commands and Report.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Session) { s.renderer = r }
}

// WithRecorder sets the activity recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithWorkingDir sets the initial working directory. It defaults to root.
func WithWorkingDir(dir *hierarchy.Directory) Option {
	return func(s *Session) { s.wd = dir }
}

// NewSession creates a session positioned at root.
func NewSession(root *hierarchy.Directory, stdout, stderr io.Writer, opts ...Option) *Session {
	s := &Session{
		wd:       root,
		root:     root,
		stdout:   stdout,
		stderr:   stderr,
		logger:   log.Default().WithPrefix("console"),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = render.New(render.Options{Output: stdout})
	}
	return s
}

// Root returns the hierarchy root.
func (s *Session) Root() *hierarchy.Directory { return s.root }

// Renderer returns the session's renderer.
func (s *Session) Renderer() *render.Renderer { return s.renderer }

// WorkingDir returns the current working directory.
func (s *Session) WorkingDir() *hierarchy.Directory {
	s.wdMu.RLock()
	defer s.wdMu.RUnlock()
	return s.wd
}

// ChangeDir sets the working directory.
func (s *Session) ChangeDir(dir *hierarchy.Directory) {
	s.wdMu.Lock()
	s.wd = dir
	s.wdMu.Unlock()
	s.logger.Debug("changed directory", "path", dir.Path())
}

// Execute resolves line against the working directory and runs the
// command. Bare names of root commands, such as the system commands,
// resolve from every directory. An empty line does nothing. Parse failures are
// *binder.ParseError values; executor failures are *CommandError values.
func (s *Session) Execute(ctx context.Context, line string) error {
	s.callMu.Lock()
	defer s.callMu.Unlock()

	inv, err := engine.Resolve(s.WorkingDir(), line, engine.WithFallback(s.root))
	if errors.Is(err, engine.ErrEmptyLine) {
		return nil
	}
	if err != nil {
		s.logger.Debug("parse failed", "line", line, "error", err)
		s.recorder.ParseFailed(err)
		return err
	}

	path := inv.Command.Path()
	s.logger.Debug("executing", "command", path, "args", inv.Args.Names())
	start := time.Now()
	err = inv.Command.Execute(ctx, &hierarchy.Call{
		Args:   inv.Args,
		Stdout: s.stdout,
		Stderr: s.stderr,
		Nav:    s,
	})
	elapsed := time.Since(start)
	s.recorder.CommandExecuted(path, elapsed, err)
	if err != nil {
		s.logger.Debug("command failed", "command", path, "duration", elapsed, "error", err)
		return &CommandError{Command: inv.Command, Err: err}
	}
	return nil
}

// Assist completes the last token of line.
func (s *Session) Assist(line string) (*engine.AssistResult, error) {
	s.callMu.Lock()
	defer s.callMu.Unlock()

	res, err := engine.Assist(s.WorkingDir(), line, engine.WithFallback(s.root))
	if err != nil {
		s.recorder.Assisted(0, err)
		return nil, err
	}
	s.recorder.Assisted(res.Size(), nil)
	return res, nil
}

// Run executes line and reports any failure on the session's stderr. It
// returns the error for callers that track exit status.
func (s *Session) Run(ctx context.Context, line string) error {
	err := s.Execute(ctx, line)
	if err != nil {
		s.Report(err)
	}
	return err
}

// Report writes the rendered err to the session's stderr.
func (s *Session) Report(err error) {
	_, _ = fmt.Fprintln(s.stderr, s.renderer.Error(err)) //nolint:errcheck // terminal output
}

// Prompt returns the rendered prompt for the working directory.
func (s *Session) Prompt(name string) string {
	return s.renderer.Prompt(name, s.WorkingDir())
}

func (nopRecorder) CommandExecuted(string, time.Duration, error) {}
func (nopRecorder) ParseFailed(error)                            {}
func (nopRecorder) Assisted(int, error)                          {}
