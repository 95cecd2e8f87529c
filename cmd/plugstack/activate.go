// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plugstack/plugstack/internal/activation"
)

// newActivateCommand creates the `plugstack activate` command.
func newActivateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate",
		Short: "Run each active module's bootstrap script",
		Long: `Activate every composed module in descending artifact id order.

A failing module is reported and the remaining modules are still activated.
The command exits with status 2 when at least one module failed.`,
		Args: cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			e, _, err := app.composedEngine(cmd.Context())
			if err != nil {
				return err
			}

			reg := activation.NewRegistry()
			reg.SetFallback(activation.ScriptProvider{
				Dir:    e.Home(),
				Env:    append(os.Environ(), envHome+"="+e.Home()),
				Stdout: app.stdout,
				Stderr: app.stderr,
			})

			activated, errs := e.Activate(cmd.Context(), reg)
			fmt.Fprintln(app.stderr, SubtitleStyle.Render(fmt.Sprintf("%d modules activated, %d failed", activated, len(errs))))
			if len(errs) > 0 {
				return &ExitError{Code: ExitPartial, Err: fmt.Errorf("%d modules failed to activate", len(errs))}
			}
			return nil
		}),
	}
}
