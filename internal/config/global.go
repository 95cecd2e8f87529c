// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces ConfigDir in tests, where os.UserHomeDir does not
// reliably follow HOME (macOS CI).
var configDirOverride string

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride makes ConfigDir return dir. Intended for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
