// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/plugstack/plugstack/internal/election"
)

// newPluginsCommand creates the `plugstack plugins` command tree.
func newPluginsCommand(app *App) *cobra.Command {
	pluginsCmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect installed plugins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var docs bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the active plugins",
		Long: `List the elected archive of every artifact in the plugin directory.

With --docs the documentation archives are listed instead.`,
		Args: cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			if docs {
				return listDocs(cmd, app)
			}
			return listPlugins(cmd, app)
		}),
	}
	listCmd.Flags().BoolVar(&docs, "docs", false, "list documentation archives")

	pluginsCmd.AddCommand(listCmd, &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the fingerprint of the active set",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			e, _, err := app.composedEngine(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, e.Fingerprint())
			return nil
		}),
	})

	return pluginsCmd
}

func listPlugins(cmd *cobra.Command, app *App) error {
	e, _, err := app.composedEngine(cmd.Context())
	if err != nil {
		return err
	}

	if !e.Enabled() {
		fmt.Fprintln(app.stdout, WarningStyle.Render("safe mode: plugins are disabled"))
		return nil
	}

	snap := e.Snapshot()
	printActiveSet(app, snap.Active)
	fmt.Fprintf(app.stdout, "\n%s\n", SubtitleStyle.Render(fmt.Sprintf("%d active, %d superseded", snap.Added(), snap.Ignored())))
	if app.verbose() {
		fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("fingerprint:"), snap.Fingerprint)
		for _, f := range snap.Superseded {
			fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("superseded:"), f.FileName)
		}
	}
	app.warnModuleErrors(e)
	return nil
}

func listDocs(cmd *cobra.Command, app *App) error {
	e, _, err := app.newEngine(cmd.Context())
	if err != nil {
		return err
	}
	res, err := e.Docs(cmd.Context())
	if err != nil {
		return err
	}
	printActiveSet(app, res.Active)
	return nil
}

func printActiveSet(app *App, active election.ActiveSet) {
	if len(active) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no plugins installed)"))
		return
	}
	names := active.FileNames()
	for _, id := range slices.Sorted(maps.Keys(names)) {
		fmt.Fprintf(app.stdout, "%s %s\n", idColumnStyle.Render(id.String()), SuccessStyle.Render(names[id]))
	}
}
