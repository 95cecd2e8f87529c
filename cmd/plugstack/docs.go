// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/plugstack/plugstack/internal/artifact"
	"github.com/plugstack/plugstack/internal/config"
	"github.com/plugstack/plugstack/internal/issue"
	"github.com/plugstack/plugstack/internal/namespace"
)

const (
	docsEntry     = "README.md"
	docsWordWrap  = 100
	docsGlobEntry = "*.md"
)

var errNoDocsEntry = errors.New("documentation archive has no markdown entry")

// newDocsCommand creates the `plugstack docs` command.
func newDocsCommand(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs <artifact>",
		Short: "Show the documentation of a plugin",
		Long: `Render the README.md of the elected documentation archive of an artifact.

Documentation archives use the docs suffix (default "-docs.zip") and are
elected separately from module archives.`,
		Example: `  plugstack docs foo
  plugstack docs --raw foo`,
		Args: cobra.ExactArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			e, cfg, err := app.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			res, err := e.Docs(cmd.Context())
			if err != nil {
				return err
			}

			id := artifact.ID(args[0])
			f, ok := res.Active[id]
			if !ok {
				return docsNotFound(id, nil)
			}
			content, err := readDocs(id, f.Path)
			if err != nil {
				return docsNotFound(id, err)
			}

			if raw {
				_, err = app.stdout.Write(content)
				return err
			}
			rendered, err := renderMarkdown(string(content), cfg.UI.ColorScheme)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, rendered)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source")

	return cmd
}

// readDocs returns README.md from the archive, or the first markdown file at
// its root when there is no README.
func readDocs(id artifact.ID, path string) ([]byte, error) {
	layer, err := namespace.OpenArchive(string(id), path)
	if err != nil {
		return nil, err
	}
	content, err := fs.ReadFile(layer.FS, docsEntry)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return content, err
	}
	matches, err := fs.Glob(layer.FS, docsGlobEntry)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errNoDocsEntry
	}
	return fs.ReadFile(layer.FS, matches[0])
}

func renderMarkdown(content string, scheme config.ColorScheme) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(docsWordWrap)}
	switch scheme {
	case config.ColorSchemeDark, config.ColorSchemeLight:
		opts = append(opts, glamour.WithStandardStyle(string(scheme)))
	default:
		opts = append(opts, glamour.WithAutoStyle())
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}

func docsNotFound(id artifact.ID, cause error) error {
	if cause == nil {
		cause = fmt.Errorf("no documentation archive for %q", id)
	}
	return &ExitError{
		Code: ExitFailure,
		Err: issue.NewErrorContext().
			WithOperation("show plugin documentation").
			WithResource(string(id)).
			WithIssue(issue.DocsNotFoundId).
			WithSuggestion("Run 'plugstack plugins list --docs' to see the installed documentation").
			Wrap(cause).
			BuildError(),
	}
}
