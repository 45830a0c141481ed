// SPDX-License-Identifier: MPL-2.0

package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/ykrasik/jaci-sub001/internal/console"
)

// exitWords end an interactive session unless the working directory has a
// command of the same name.
var exitWords = []string{"exit", "quit"}

type (
	// Options configures a REPL.
	Options struct {
		// Prompt is the name shown before the working directory.
		Prompt string
		// HistoryFile persists entered lines. Empty disables history.
		HistoryFile string
		// Banner is printed once before the first prompt.
		Banner string

		Stdin  io.ReadCloser
		Stdout io.Writer
		Stderr io.Writer

		// Terminal describes a remote terminal. When nil the local terminal
		// is detected from Stdin.
		Terminal *Terminal
	}

	// Terminal describes a terminal the line editor cannot detect itself,
	// such as an SSH pty.
	Terminal struct {
		// Width returns the current width in columns.
		Width func() int
		// OnResize registers a callback run after every size change.
		OnResize func(func())
	}

	// lineReader is the part of *readline.Instance the loop uses.
	lineReader interface {
		Readline() (string, error)
		SetPrompt(prompt string)
		Close() error
	}

	// REPL reads lines from a line editor and runs them in a session.
	REPL struct {
		session *console.Session
		opts    Options
		logger  *log.Logger
		rl      lineReader
		out     io.Writer

		mu     sync.Mutex
		cancel context.CancelFunc
	}
)

// New creates a REPL for session. The line editor is created by Run.
func New(session *console.Session, opts Options, logger *log.Logger) *REPL {
	if logger == nil {
		logger = log.Default().WithPrefix("repl")
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &REPL{session: session, opts: opts, logger: logger, out: opts.Stdout}
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Run reads and executes lines until EOF, an exit word or ctx is done.
// Command failures are reported and do not end the loop.
func (r *REPL) Run(ctx context.Context) error {
	c := &completer{session: r.session, out: func() io.Writer { return r.out }}
	cfg := &readline.Config{
		Prompt:          r.session.Prompt(r.opts.Prompt),
		HistoryFile:     r.opts.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    c,
		Listener:        readline.FuncListener(c.onChange),
		Stdin:           r.opts.Stdin,
		Stdout:          r.opts.Stdout,
		Stderr:          r.opts.Stderr,
	}
	if t := r.opts.Terminal; t != nil {
		cfg.ForceUseInteractive = true
		cfg.FuncIsTerminal = func() bool { return true }
		cfg.FuncMakeRaw = func() error { return nil }
		cfg.FuncExitRaw = func() error { return nil }
		cfg.FuncGetWidth = t.Width
		cfg.FuncOnWidthChanged = t.OnResize
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return fmt.Errorf("failed to start line editor: %w", err)
	}
	r.rl = rl
	r.out = rl.Stdout()
	return r.loop(ctx)
}

// Interrupt cancels the running command. It reports whether one was
// running.
func (r *REPL) Interrupt() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel == nil {
		return false
	}
	r.cancel()
	return true
}

func (r *REPL) loop(ctx context.Context) error {
	defer func() { _ = r.rl.Close() }() //nolint:errcheck // best-effort terminal restore

	if r.opts.Banner != "" {
		_, _ = fmt.Fprintln(r.out, r.opts.Banner) //nolint:errcheck // terminal output
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		r.rl.SetPrompt(r.session.Prompt(r.opts.Prompt))

		line, err := r.rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("failed to read line: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r.isExit(line) {
			return nil
		}
		r.run(ctx, line)
	}
}

func (r *REPL) isExit(line string) bool {
	for _, w := range exitWords {
		if line == w {
			_, shadowed := r.session.WorkingDir().Command(w)
			return !shadowed
		}
	}
	return false
}

func (r *REPL) run(ctx context.Context, line string) {
	cmdCtx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.cancel = nil
		r.mu.Unlock()
		cancel()
	}()

	if err := r.session.Run(cmdCtx, line); err != nil {
		r.logger.Debug("line failed", "line", line, "error", err)
	}
}
