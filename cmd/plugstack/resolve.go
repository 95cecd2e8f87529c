// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plugstack/plugstack/internal/issue"
)

// newResolveCommand creates the `plugstack resolve` command.
func newResolveCommand(app *App) *cobra.Command {
	var (
		all     bool
		content bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <name>",
		Short: "Find a resource in the composed namespace",
		Long: `Resolve a resource name against the composed namespace.

Modules are searched in descending artifact id order and the host layer is
searched last. With --all every layer providing the resource is listed.`,
		Example: `  plugstack resolve share.txt
  plugstack resolve --all share.txt
  plugstack resolve --cat README.md`,
		Args: cobra.ExactArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			e, _, err := app.composedEngine(cmd.Context())
			if err != nil {
				return err
			}
			name := args[0]

			if all {
				found := 0
				for r := range e.ResolveAll(name) {
					fmt.Fprintf(app.stdout, "%s %s\n", idColumnStyle.Render(r.Layer), r.Name)
					found++
				}
				if found == 0 {
					return resourceNotFound(name)
				}
				return nil
			}

			r, ok := e.Resolve(name)
			if !ok {
				return resourceNotFound(name)
			}
			if !content {
				fmt.Fprintf(app.stdout, "%s %s\n", idColumnStyle.Render(r.Layer), r.Name)
				return nil
			}
			data, err := r.ReadAll()
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("read resource").
					WithResource(r.String()).
					Wrap(err).
					BuildError()
			}
			_, err = app.stdout.Write(data)
			return err
		}),
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every layer providing the resource")
	cmd.Flags().BoolVar(&content, "cat", false, "print the content of the first match")
	cmd.MarkFlagsMutuallyExclusive("all", "cat")

	return cmd
}

func resourceNotFound(name string) error {
	return &ExitError{
		Code: ExitFailure,
		Err: issue.NewErrorContext().
			WithOperation("resolve resource").
			WithResource(name).
			WithIssue(issue.ResourceNotFoundId).
			WithSuggestion("Run 'plugstack plugins list' to see the active modules").
			Wrap(fmt.Errorf("resource %q not found", name)).
			BuildError(),
	}
}
