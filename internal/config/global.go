// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the platform config directory when set.
var configDirOverride string

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride makes ConfigDir return dir. It exists for tests,
// where os.UserHomeDir does not reliably follow HOME on every platform.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
