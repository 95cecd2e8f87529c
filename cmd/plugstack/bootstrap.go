// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plugstack/plugstack/internal/activation"
	"github.com/plugstack/plugstack/internal/issue"
)

const envHome = "PLUGSTACK_HOME"

// newBootstrapCommand creates the `plugstack bootstrap` command.
func newBootstrapCommand(app *App) *cobra.Command {
	var run bool

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Print or run the combined bootstrap code",
		Long: `Print the bootstrap code contributed by the active modules, in
descending artifact id order.

With --run the code is executed in the embedded shell interpreter, with the
plugstack home as working directory.`,
		Args: cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			e, _, err := app.composedEngine(cmd.Context())
			if err != nil {
				return err
			}
			code := e.BootstrapCode()

			if !run {
				if code != "" {
					fmt.Fprint(app.stdout, code)
					if !strings.HasSuffix(code, "\n") {
						fmt.Fprintln(app.stdout)
					}
				}
				return nil
			}

			p := activation.ScriptProvider{Dir: e.Home(), Stdout: app.stdout, Stderr: app.stderr}
			if err := p.Run(cmd.Context(), "bootstrap", code, envHome+"="+e.Home()); err != nil {
				return &ExitError{
					Code: ExitFailure,
					Err: issue.NewErrorContext().
						WithOperation("run bootstrap code").
						WithIssue(issue.BootstrapFailedId).
						WithSuggestion("Run 'plugstack bootstrap' to inspect the combined code").
						Wrap(err).
						BuildError(),
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&run, "run", false, "execute the bootstrap code")

	return cmd
}
