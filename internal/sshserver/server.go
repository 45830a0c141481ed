// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"crypto/subtle"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"

	"github.com/ykrasik/jaci-sub001/internal/console"
	"github.com/ykrasik/jaci-sub001/internal/core/serverbase"
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
)

const (
	defaultHost            = "127.0.0.1"
	defaultPrompt          = "jaci"
	defaultShutdownTimeout = 10 * time.Second
	defaultStartupTimeout  = 5 * time.Second
)

type (
	// Observer is notified of SSH sessions and of the activity inside them.
	// *metrics.Metrics implements it.
	Observer interface {
		console.Recorder
		// SessionStarted is called when a connection opens a session. The
		// returned function is called when the session ends.
		SessionStarted() (done func())
	}

	// Config holds immutable configuration for the SSH server.
	Config struct {
		// Host is the address to bind to (default: 127.0.0.1).
		Host string
		// Port is the port to listen on (0 = auto-select).
		Port int
		// HostKeyPath is the server's private key. It is generated when
		// missing. Empty uses an ephemeral key.
		HostKeyPath string
		// Password, when set, is required from every client.
		Password string
		// Prompt is the name shown before the working directory.
		Prompt string
		// ColorScheme and Markdown configure each session's renderer.
		ColorScheme string
		Markdown    bool
		// ShutdownTimeout bounds graceful shutdown (default: 10s).
		ShutdownTimeout time.Duration
		// StartupTimeout is the max time to wait for the listener (default: 5s).
		StartupTimeout time.Duration
	}

	// Option configures a Server.
	Option func(*Server)

	// Server serves consoles over SSH: every SSH session gets its own
	// console session over the shared hierarchy. A Server is single-use.
	Server struct {
		*serverbase.Base

		cfg      Config
		root     atomic.Pointer[hierarchy.Directory]
		logger   *log.Logger
		observer Observer
	}

	nopObserver struct{}
)

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Host:            defaultHost,
		Port:            0,
		Prompt:          defaultPrompt,
		Markdown:        true,
		ShutdownTimeout: defaultShutdownTimeout,
		StartupTimeout:  defaultStartupTimeout,
	}
}

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithObserver reports sessions and console activity to o.
func WithObserver(o Observer) Option {
	return func(s *Server) { s.observer = o }
}

// New creates a server for root. The server is not started; call Start to
// begin accepting connections.
func New(root *hierarchy.Directory, cfg Config, opts ...Option) *Server {
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if cfg.Prompt == "" {
		cfg.Prompt = defaultPrompt
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = defaultStartupTimeout
	}

	s := &Server{
		cfg:      cfg,
		observer: nopObserver{},
	}
	s.root.Store(root)
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default().WithPrefix("ssh-server")
	}
	s.Base = serverbase.NewBase(
		serverbase.WithLogger(s.logger),
		serverbase.WithStartupTimeout(cfg.StartupTimeout),
		serverbase.WithShutdownTimeout(cfg.ShutdownTimeout),
		serverbase.WithClosedErrors(ssh.ErrServerClosed),
	)
	return s
}

// Root returns the hierarchy new sessions are created over.
func (s *Server) Root() *hierarchy.Directory {
	return s.root.Load()
}

// SetRoot replaces the hierarchy for sessions opened from now on. Open
// sessions keep the hierarchy they started with.
func (s *Server) SetRoot(root *hierarchy.Directory) {
	s.root.Store(root)
}

// Host returns the server's configured host address.
func (s *Server) Host() string {
	return s.cfg.Host
}

// Port returns the server's listening port, or 0 if it is not listening.
func (s *Server) Port() int {
	addr := s.Address()
	if addr == "" {
		return 0
	}
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

// passwordHandler accepts the configured password.
func (s *Server) passwordHandler(ctx ssh.Context, password string) bool {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1 {
		return true
	}
	s.logger.Warn("rejected password", "user", ctx.User(), "remote", ctx.RemoteAddr())
	return false
}

func (nopObserver) CommandExecuted(string, time.Duration, error) {}
func (nopObserver) ParseFailed(error)                            {}
func (nopObserver) Assisted(int, error)                          {}
func (nopObserver) SessionStarted() func()                       { return func() {} }
