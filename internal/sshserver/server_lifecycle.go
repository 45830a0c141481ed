// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/logging"

	"github.com/ykrasik/jaci-sub001/internal/core/serverbase"
)

// Start validates the configuration, binds the listener and serves in the
// background. It returns once the server accepts connections. After Start
// returns nil, use Err() to monitor for runtime errors.
func (s *Server) Start(ctx context.Context) error {
	if s.State() == serverbase.StateCreated {
		if err := s.cfg.Validate(); err != nil {
			return s.Fail(err)
		}
	}
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	return s.Base.Start(ctx, addr, s.newSSHServer)
}

// newSSHServer creates the wish server for an already bound listener.
func (s *Server) newSSHServer(l net.Listener) (serverbase.Service, error) {
	opts := []ssh.Option{
		wish.WithAddress(l.Addr().String()),
		wish.WithMiddleware(
			s.consoleMiddleware(),
			logging.StructuredMiddlewareWithLogger(s.logger, s.logger.GetLevel()),
		),
	}
	if s.cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(s.cfg.HostKeyPath))
	}
	if s.cfg.Password != "" {
		opts = append(opts, wish.WithPasswordAuth(s.passwordHandler))
	}

	srv, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH server: %w", err)
	}
	return srv, nil
}
