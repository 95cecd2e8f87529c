// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"slices"
	"testing"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v0.3.0"
		Commit = "abc1234"
		BuildDate = "2026-01-15T10:00:00Z"

		got := getVersionString()
		want := "v0.3.0 (commit: abc1234, built: 2026-01-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		// Test binaries report Main.Version == "(devel)".
		Version = "dev"
		Commit = "unknown"
		BuildDate = "unknown"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestNewRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	root := NewRootCommand(NewApp(Dependencies{}))
	var got []string
	for _, c := range root.Commands() {
		got = append(got, c.Name())
	}
	for _, want := range []string{"activate", "bootstrap", "config", "docs", "plugins", "resolve", "watch"} {
		if !slices.Contains(got, want) {
			t.Errorf("missing subcommand %q in %v", want, got)
		}
	}
	for _, flag := range []string{"verbose", "config", "home", "safe-mode"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}
