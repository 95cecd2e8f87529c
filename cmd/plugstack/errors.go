// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plugstack/plugstack/internal/artifact"
	"github.com/plugstack/plugstack/internal/engine"
	"github.com/plugstack/plugstack/internal/fingerprint"
	"github.com/plugstack/plugstack/internal/issue"
)

// classifyError turns known engine failures into actionable errors linked to
// a catalog issue. Errors that are already actionable pass through.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	ctx := issue.NewErrorContext().Wrap(err)
	switch {
	case errors.Is(err, engine.ErrSetup):
		ctx.WithOperation("prepare plugin directory").
			WithIssue(issue.PluginDirUnavailableId).
			WithSuggestion("Check that the home directory is writable or pass --home")
	case errors.Is(err, artifact.ErrScan):
		ctx.WithOperation("list plugin directory").
			WithIssue(issue.PluginScanFailedId).
			WithSuggestion("Check the permissions of the plugin directory")
	case errors.Is(err, fingerprint.ErrDigestUnavailable):
		ctx.WithOperation("compute fingerprint").
			WithIssue(issue.DigestUnavailableId)
	case errors.Is(err, os.ErrPermission):
		ctx.WithOperation("access plugstack files").
			WithIssue(issue.PermissionDeniedId)
	default:
		return err
	}
	return ctx.BuildError()
}

// runE adapts a handler so that its error is classified and, in verbose
// mode, followed by the rendered catalog guidance.
func (a *App) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := classifyError(fn(cmd, args))
		if err == nil {
			return nil
		}
		if a.verbose() {
			a.renderGuidance(err)
		}
		return err
	}
}

func (a *App) renderGuidance(err error) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	fmt.Fprintln(a.stderr, ae.Format(true))
	if i, ok := ae.CatalogIssue(); ok {
		if rendered, renderErr := i.Render(""); renderErr == nil {
			fmt.Fprint(a.stderr, rendered)
		}
	}
}
