// SPDX-License-Identifier: MPL-2.0

// Package config loads jaci's configuration using Viper with CUE as the file
// format.
//
// The file is config.cue in the platform config directory
// ($XDG_CONFIG_HOME/jaci on Linux, ~/Library/Application Support/jaci on
// macOS, %APPDATA%\jaci on Windows), or in the working directory. It is
// validated against the embedded #Config schema before being merged over the
// defaults. Environment variables prefixed with JACI_ override both, e.g.
// JACI_SSH_PORT=2323.
package config
