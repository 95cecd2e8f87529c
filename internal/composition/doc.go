// SPDX-License-Identifier: MPL-2.0

// Package composition turns an active set into a merged namespace.
//
// Modules are composed in descending artifact id order. For each module the
// Builder opens the archive as a layer placed ahead of the host runtime and,
// when the module exports resources, copies them into the export directory
// without overwriting anything already there. Failures are scoped to the
// module and the action that failed: they are recorded on the Report and
// logged, and the remaining modules are still composed.
//
// File organization:
//   - builder.go: Builder, Composition and the per-module pipeline
//   - manifest.go: the optional plugin.toml module manifest
//   - export.go: first-writer-wins resource export
//   - report.go: Report and ModuleError
package composition
