// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetConfigHome points the platform's user configuration directory at dir
// for the rest of the test and returns the directory config.ConfigDir will
// resolve to. Tests using it cannot run in parallel.
//
// Platform handling:
//   - Windows: sets APPDATA
//   - macOS: sets HOME (config lives in Library/Application Support)
//   - others: sets XDG_CONFIG_HOME
func SetConfigHome(t *testing.T, dir, appName string) string {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		t.Setenv("APPDATA", dir)
		return filepath.Join(dir, appName)
	case "darwin":
		t.Setenv("HOME", dir)
		return filepath.Join(dir, "Library", "Application Support", appName)
	default:
		t.Setenv("XDG_CONFIG_HOME", dir)
		return filepath.Join(dir, appName)
	}
}
