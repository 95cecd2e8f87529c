// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/plugstack/plugstack/internal/artifact"
	"github.com/plugstack/plugstack/internal/engine"
	"github.com/plugstack/plugstack/internal/fingerprint"
	"github.com/plugstack/plugstack/internal/issue"
)

func TestClassifyError_Sentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"setup", fmt.Errorf("%w /h/plugins: %w", engine.ErrSetup, os.ErrExist), issue.PluginDirUnavailableId},
		{"scan", fmt.Errorf("%w: /h/plugins: %w", artifact.ErrScan, os.ErrPermission), issue.PluginScanFailedId},
		{"digest", fmt.Errorf("%w: sha256", fingerprint.ErrDigestUnavailable), issue.DigestUnavailableId},
		{"permission", fmt.Errorf("open export: %w", os.ErrPermission), issue.PermissionDeniedId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classifyError(tt.err)
			var ae *issue.ActionableError
			if !errors.As(got, &ae) {
				t.Fatalf("classifyError(%v) = %T, want *issue.ActionableError", tt.err, got)
			}
			if ae.Issue != tt.want {
				t.Errorf("Issue = %d, want %d", ae.Issue, tt.want)
			}
			if _, ok := ae.CatalogIssue(); !ok {
				t.Errorf("issue %d missing from the catalog", ae.Issue)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classified error does not wrap the original")
			}
		})
	}
}

func TestClassifyError_PassesThrough(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain")
	if got := classifyError(plain); got != plain {
		t.Errorf("classifyError(plain) = %v", got)
	}
	if classifyError(nil) != nil {
		t.Error("classifyError(nil) != nil")
	}
	ae := issue.NewErrorContext().WithOperation("x").Wrap(plain).BuildError()
	wrapped := &ExitError{Code: ExitFailure, Err: ae}
	if got := classifyError(wrapped); got != error(wrapped) {
		t.Errorf("actionable error was rewrapped: %v", got)
	}
}
