// SPDX-License-Identifier: MPL-2.0

// Package safemode holds the process-wide switch that turns composition off.
//
// The gate is resolved once at start-up from configuration and never changes
// afterwards. While it is off no plugin directory is scanned: only the host
// runtime is visible and the published fingerprint is a random placeholder.
package safemode

// Gate reports whether plugin composition is enabled.
type Gate struct {
	enabled bool
}

// New returns a gate fixed to the given state.
func New(enabled bool) Gate {
	return Gate{enabled: enabled}
}

// Enabled reports whether composition runs.
func (g Gate) Enabled() bool { return g.enabled }

// String returns "enabled" or "safe mode".
func (g Gate) String() string {
	if g.enabled {
		return "enabled"
	}
	return "safe mode"
}
