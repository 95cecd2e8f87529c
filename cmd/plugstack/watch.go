// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plugstack/plugstack/internal/engine"
	"github.com/plugstack/plugstack/internal/watch"
)

// newWatchCommand creates the `plugstack watch` command.
func newWatchCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Recompose whenever the plugin directory changes",
		Long: `Compose once, then watch the plugin directory and recompose after
archives are added, replaced or removed. A line is printed every time the
fingerprint of the active set changes.

Press Ctrl+C to stop.`,
		Args: cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, cfg, err := app.composedEngine(ctx)
			if err != nil {
				return err
			}
			if !e.Enabled() {
				fmt.Fprintln(app.stdout, WarningStyle.Render("safe mode: plugins are disabled, nothing to watch"))
				return nil
			}
			app.printFingerprint(e)

			w, err := watch.New(watch.Config{
				Dir:      e.PluginsDir(),
				Patterns: []string{"*" + cfg.Plugins.Suffix.String(), "*" + cfg.Plugins.DocsSuffix.String()},
				Debounce: cfg.Watch.Debounce,
				OnChange: app.recompose(e),
				Logger:   app.logger(cfg),
			})
			if err != nil {
				return err
			}
			return w.Run(ctx)
		}),
	}
}

// recompose returns a watch callback that runs a new composition cycle and
// reports fingerprint changes.
func (a *App) recompose(e *engine.Engine) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		before := e.Fingerprint()
		if _, err := e.Compose(ctx); err != nil {
			// A broken cycle keeps the previous snapshot; the next change retries.
			fmt.Fprintf(a.stderr, "%s %v\n", ErrorStyle.Render("compose failed:"), err)
			return nil
		}
		if e.Fingerprint() != before {
			a.printFingerprint(e)
		}
		a.warnModuleErrors(e)
		return nil
	}
}

func (a *App) printFingerprint(e *engine.Engine) {
	snap := e.Snapshot()
	fmt.Fprintf(a.stdout, "%s %s %s\n",
		TitleStyle.Render("composed"),
		IDStyle.Render(snap.Fingerprint.Short()),
		SubtitleStyle.Render(fmt.Sprintf("(%d active, %d superseded)", snap.Added(), snap.Ignored())))
}
