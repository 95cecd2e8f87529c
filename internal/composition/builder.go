// SPDX-License-Identifier: MPL-2.0

package composition

import (
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/plugstack/plugstack/internal/artifact"
	"github.com/plugstack/plugstack/internal/election"
	"github.com/plugstack/plugstack/internal/namespace"
)

// DefaultBootstrapResource is the resource every module may contribute to the
// aggregated bootstrap code.
const DefaultBootstrapResource = "bootstrap.sh"

type (
	// Builder composes active sets. The zero value composes with no host
	// resources, no export directory and a discarding logger.
	Builder struct {
		// Host is the host runtime layer, always probed last.
		Host namespace.Layer
		// ExportDir receives exported module resources. Export is disabled when empty.
		ExportDir string
		// BootstrapResource is the per-module bootstrap resource name.
		BootstrapResource string
		// Logger receives module-scoped failures.
		Logger *log.Logger
	}

	// Module is one successfully layered module.
	Module struct {
		ID       artifact.ID
		File     artifact.File
		Manifest Manifest
		Layer    namespace.Layer
		// Bootstrap is the module's bootstrap code, empty when it has none.
		Bootstrap string
	}

	// Composition is the immutable outcome of a Compose call.
	Composition struct {
		// Modules are the layered modules in composition order.
		Modules []Module
		// Namespace resolves resources across Modules and the host.
		Namespace *namespace.Namespace
		// Bootstrap is the newline-joined bootstrap code of Modules, in order.
		Bootstrap string
		// Report summarizes the cycle.
		Report Report
	}
)

// Compose layers every elected module in descending artifact id order,
// exports their resources and gathers their bootstrap code. It never fails as
// a whole: a module whose archive cannot be opened is left out of the
// namespace and recorded on the report.
func (b *Builder) Compose(active election.ActiveSet) *Composition {
	logger := b.logger()
	c := &Composition{}

	layers := make([]namespace.Layer, 0, len(active))
	var bootstrap []string
	for _, f := range active.Descending() {
		m, ok := b.composeModule(f, &c.Report, logger)
		if !ok {
			continue
		}
		c.Modules = append(c.Modules, m)
		layers = append(layers, m.Layer)
		if m.Bootstrap != "" {
			bootstrap = append(bootstrap, m.Bootstrap)
		}
	}

	c.Namespace = namespace.New(b.Host, layers...)
	c.Bootstrap = strings.Join(bootstrap, "\n")
	c.Report.Composed = len(c.Modules)
	return c
}

// composeModule runs the per-module pipeline: layer, manifest, export,
// bootstrap. It returns false when the module could not be layered.
func (b *Builder) composeModule(f artifact.File, report *Report, logger *log.Logger) (Module, bool) {
	fail := func(op Op, resource string, err error) {
		me := report.record(f.ArtifactID, op, resource, err)
		logger.Error("module action failed", "module", me.ArtifactID, "op", me.Op, "resource", me.Resource, "err", me.Err)
	}

	layer, err := namespace.OpenArchive(string(f.ArtifactID), f.Path)
	if err != nil {
		fail(OpOpen, f.FileName, err)
		return Module{}, false
	}
	m := Module{ID: f.ArtifactID, File: f, Layer: layer}

	if m.Manifest, err = ReadManifest(layer.FS); err != nil {
		fail(OpManifest, ManifestName, err)
	}

	if b.ExportDir != "" {
		b.export(m, report, fail)
	}

	m.Bootstrap = b.readBootstrap(m, fail)
	logger.Debug("module composed", "module", m.ID, "file", f.FileName)
	return m, true
}

func (b *Builder) export(m Module, report *Report, fail func(Op, string, error)) {
	root, err := exportRoot(m.Manifest)
	if err != nil {
		fail(OpExport, m.Manifest.Export, err)
		return
	}
	res := exportModule(m, root, b.ExportDir, func(resource string, err error) {
		fail(OpExport, resource, err)
	})
	report.Exported += res.copied
	report.Skipped += res.skipped
}

func (b *Builder) readBootstrap(m Module, fail func(Op, string, error)) string {
	name := m.Manifest.Bootstrap
	if name == "" {
		name = b.BootstrapResource
	}
	if name == "" {
		name = DefaultBootstrapResource
	}

	clean, ok := namespace.CleanName(name)
	if !ok {
		return ""
	}
	data, err := fs.ReadFile(m.Layer.FS, clean)
	if errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	if err != nil {
		fail(OpBootstrap, clean, err)
		return ""
	}
	return string(data)
}

func (b *Builder) logger() *log.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return log.New(io.Discard)
}

// IDs returns the composed artifact ids in composition order.
func (c *Composition) IDs() []artifact.ID {
	ids := make([]artifact.ID, len(c.Modules))
	for i, m := range c.Modules {
		ids[i] = m.ID
	}
	return ids
}
