// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"fmt"
	"strings"
)

const maxPort = 65535

var (
	// ErrInvalidSSHConfig is the sentinel error wrapped by InvalidSSHConfigError.
	ErrInvalidSSHConfig = errors.New("invalid SSH server config")
	// ErrServerNotRunning is returned by ConnectionInfo when the server is not running.
	ErrServerNotRunning = errors.New("SSH server is not running")
)

type (
	// InvalidSSHConfigError is returned when an SSH server Config has invalid fields.
	// It wraps ErrInvalidSSHConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidSSHConfigError struct {
		FieldErrors []error
	}

	// ConnectionInfo describes how to reach a running server.
	ConnectionInfo struct {
		Host string
		Port int
		// PasswordRequired reports whether clients must authenticate.
		PasswordRequired bool
	}
)

// Validate returns an error describing every invalid field.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Host) == "" {
		errs = append(errs, errors.New("host must be non-empty"))
	}
	if c.Port < 0 || c.Port > maxPort {
		errs = append(errs, fmt.Errorf("port %d out of range 0-%d", c.Port, maxPort))
	}
	if c.ShutdownTimeout < 0 || c.StartupTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if len(errs) > 0 {
		return &InvalidSSHConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidSSHConfigError.
func (e *InvalidSSHConfigError) Error() string {
	return fmt.Sprintf("invalid SSH server config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidSSHConfig for errors.Is() compatibility.
func (e *InvalidSSHConfigError) Unwrap() error { return ErrInvalidSSHConfig }

// ConnectionInfo returns how to reach the server.
func (s *Server) ConnectionInfo() (*ConnectionInfo, error) {
	if !s.IsRunning() {
		return nil, fmt.Errorf("%w (state: %s)", ErrServerNotRunning, s.State())
	}
	return &ConnectionInfo{
		Host:             s.cfg.Host,
		Port:             s.Port(),
		PasswordRequired: s.cfg.Password != "",
	}, nil
}

// String returns the ssh command line that connects to the server.
func (c *ConnectionInfo) String() string {
	return fmt.Sprintf("ssh -p %d %s", c.Port, c.Host)
}
