// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError collects every invalid field of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is jaci's configuration.
	Config struct {
		// Catalogs are the command catalog files loaded at startup.
		Catalogs []string `json:"catalogs" mapstructure:"catalogs"`
		// Prompt is the REPL prompt prefix.
		Prompt string `json:"prompt" mapstructure:"prompt"`
		// HistoryFile persists REPL history. Empty means <config dir>/history.
		HistoryFile string `json:"history_file" mapstructure:"history_file"`
		// UI holds presentation settings.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// SSH holds settings for 'jaci serve'.
		SSH SSHConfig `json:"ssh" mapstructure:"ssh"`

		// Source is the file the configuration was read from, empty when only
		// defaults and environment variables apply.
		Source string `json:"-" mapstructure:"-"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		Markdown    bool        `json:"markdown" mapstructure:"markdown"`
	}

	// SSHConfig holds settings for the SSH console server.
	SSHConfig struct {
		Host        string `json:"host" mapstructure:"host"`
		Port        int    `json:"port" mapstructure:"port"`
		HostKeyPath string `json:"host_key_path" mapstructure:"host_key_path"`
		Password    string `json:"password" mapstructure:"password"`
		MetricsAddr string `json:"metrics_addr" mapstructure:"metrics_addr"`
		// WatchCatalogs rebuilds the served hierarchy when a catalog changes.
		WatchCatalogs bool `json:"watch_catalogs" mapstructure:"watch_catalogs"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Catalogs:    []string{},
		Prompt:      "jaci",
		HistoryFile: "",
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Markdown:    true,
		},
		SSH: SSHConfig{
			Host: "localhost",
			Port: 2222,
		},
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Validate returns an error if the color scheme is not recognized.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// String returns the string representation of the color scheme.
func (c ColorScheme) String() string { return string(c) }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks the values the CUE schema cannot see, i.e. those coming
// from defaults and environment variables.
func (c *Config) Validate() error {
	var errs []error
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.SSH.Port <= 0 || c.SSH.Port > 65535 {
		errs = append(errs, fmt.Errorf("ssh.port %d is out of range", c.SSH.Port))
	}
	for i, path := range c.Catalogs {
		if strings.TrimSpace(path) == "" {
			errs = append(errs, fmt.Errorf("catalogs[%d] is empty", i))
		}
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// SSHAddr returns the listen address of the SSH server.
func (c *Config) SSHAddr() string {
	return net.JoinHostPort(c.SSH.Host, strconv.Itoa(c.SSH.Port))
}

// CatalogPaths returns the catalog files with relative paths resolved
// against the directory of the config file they came from.
func (c *Config) CatalogPaths() []string {
	out := make([]string, len(c.Catalogs))
	for i, p := range c.Catalogs {
		if c.Source != "" && !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(c.Source), p)
		}
		out[i] = p
	}
	return out
}

// HistoryPath returns the REPL history file, defaulting to a file in the
// config directory.
func (c *Config) HistoryPath() (string, error) {
	if c.HistoryFile != "" {
		return c.HistoryFile, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// HostKeyPath returns the SSH host key file, defaulting to a file in the
// config directory.
func (c *Config) HostKeyPath() (string, error) {
	if c.SSH.HostKeyPath != "" {
		return c.SSH.HostKeyPath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ssh_host_ed25519"), nil
}
