// SPDX-License-Identifier: MPL-2.0

// Package activation invokes the entry point of every composed module.
//
// Modules do not carry executable code that the host loads implicitly.
// Instead a Provider is registered per artifact id (or as a fallback) and
// the Registry calls it explicitly, in composition order, once composition
// has finished. ScriptProvider is the stock fallback: it runs the module's
// bootstrap script in the embedded mvdan/sh interpreter.
package activation
