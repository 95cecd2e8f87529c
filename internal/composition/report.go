// SPDX-License-Identifier: MPL-2.0

package composition

import (
	"fmt"

	"github.com/plugstack/plugstack/internal/artifact"
)

// Module-scoped operations recorded on a ModuleError.
const (
	// OpOpen is opening the module archive as a layer.
	OpOpen Op = "open"
	// OpManifest is decoding the module manifest.
	OpManifest Op = "manifest"
	// OpExport is copying one exported resource.
	OpExport Op = "export"
	// OpBootstrap is reading the module's bootstrap resource.
	OpBootstrap Op = "bootstrap"
	// OpActivate is invoking the module's activation provider.
	OpActivate Op = "activate"
)

type (
	// Op names the module-scoped action that failed.
	Op string

	// ModuleError is a failure confined to one module and one action.
	ModuleError struct {
		ArtifactID artifact.ID
		Op         Op
		// Resource is the file or entry involved (optional).
		Resource string
		Err      error
	}

	// Report summarizes one composition cycle.
	Report struct {
		// Composed is the number of modules layered into the namespace.
		Composed int
		// Exported is the number of resources copied to the export directory.
		Exported int
		// Skipped is the number of exported resources left untouched because
		// the destination already existed.
		Skipped int
		// Errors lists module-scoped failures in the order they happened.
		Errors []*ModuleError
	}
)

// Error implements the error interface.
func (e *ModuleError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("module %s: %s %s: %v", e.ArtifactID, e.Op, e.Resource, e.Err)
	}
	return fmt.Sprintf("module %s: %s: %v", e.ArtifactID, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ModuleError) Unwrap() error { return e.Err }

// FailedModules returns the distinct artifact ids with at least one error.
func (r *Report) FailedModules() []artifact.ID {
	seen := make(map[artifact.ID]bool, len(r.Errors))
	var ids []artifact.ID
	for _, e := range r.Errors {
		if !seen[e.ArtifactID] {
			seen[e.ArtifactID] = true
			ids = append(ids, e.ArtifactID)
		}
	}
	return ids
}

func (r *Report) record(id artifact.ID, op Op, resource string, err error) *ModuleError {
	me := &ModuleError{ArtifactID: id, Op: op, Resource: resource, Err: err}
	r.Errors = append(r.Errors, me)
	return me
}
