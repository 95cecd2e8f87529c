// SPDX-License-Identifier: MPL-2.0

// Package namespace resolves resources across an ordered chain of layers.
//
// A Namespace is built once from the composed module layers followed by the
// host runtime layer, which is always last. It is never mutated afterwards, so
// any number of goroutines may resolve through it concurrently. Lookups probe
// the layers in order: ResolveFirst returns the first hit and ResolveAll yields
// every hit without deduplication.
package namespace
