// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for plugstack.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "plugstack",
		Short: "Compose versioned plugin archives into one runtime",
		Long: TitleStyle.Render("plugstack") + SubtitleStyle.Render(" - compose versioned plugin archives into one runtime") + `

plugstack scans a plugin directory, elects the newest archive of every
artifact, layers the elected archives over the host runtime and publishes
a fingerprint of the result.

` + SubtitleStyle.Render("Examples:") + `
  plugstack plugins list            List the active plugins
  plugstack plugins fingerprint     Print the active set fingerprint
  plugstack resolve conf/app.toml   Show which plugin provides a resource
  plugstack docs foo                Render the documentation of 'foo'
  plugstack watch                   Recompose whenever the plugin directory changes`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/plugstack/config.cue)")
	flags.StringVar(&app.flags.home, "home", "", "plugstack home directory (default is $PLUGSTACK_HOME or ~/.plugstack)")
	flags.BoolVar(&app.flags.safeMode, "safe-mode", false, "start without plugins")

	rootCmd.AddCommand(
		newPluginsCommand(app),
		newResolveCommand(app),
		newBootstrapCommand(app),
		newActivateCommand(app),
		newDocsCommand(app),
		newWatchCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}
