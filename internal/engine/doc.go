// SPDX-License-Identifier: MPL-2.0

// Package engine owns the plugin composition lifecycle.
//
// An Engine runs scan, election, composition and fingerprinting as one cycle
// and publishes the outcome as an immutable Snapshot. Readers always see one
// complete snapshot: a refresh builds a new one and swaps it in atomically, so
// a query that started on the old snapshot finishes on it.
//
// The engine is the only holder of composition state. Callers construct it
// once from configuration and hand it to whatever needs the query surface.
package engine
