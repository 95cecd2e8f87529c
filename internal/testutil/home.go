// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// HomeEnvVar is the environment variable that designates the plugstack home.
// Defined locally to avoid importing internal/config from test helpers.
const HomeEnvVar = "PLUGSTACK_HOME"

// SetHomeDir sets the appropriate HOME environment variable based on platform
// and returns a cleanup function to restore the original value.
//
// Platform handling:
//   - Windows: Sets USERPROFILE
//   - Linux/macOS: Sets HOME
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
//	    // Test code that uses the user home directory...
//	}
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}

// Home is a throwaway plugstack home directory.
type Home struct {
	// Root is the home directory.
	Root string
}

// NewHome creates an empty home under t.TempDir() with its plugins directory.
func NewHome(t testing.TB) Home {
	t.Helper()
	h := Home{Root: t.TempDir()}
	MustMkdirAll(t, h.PluginsDir())
	return h
}

// PluginsDir returns <home>/plugins.
func (h Home) PluginsDir() string { return filepath.Join(h.Root, "plugins") }

// ExportDir returns <home>/export.
func (h Home) ExportDir() string { return filepath.Join(h.Root, "export") }

// Plugin writes a module archive named fileName into the plugins directory.
func (h Home) Plugin(t testing.TB, fileName string, files map[string]string) string {
	t.Helper()
	p := filepath.Join(h.PluginsDir(), fileName)
	WriteArchive(t, p, files)
	return p
}
