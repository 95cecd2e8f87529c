// SPDX-License-Identifier: MPL-2.0

// Package fingerprint derives a stable digest of an active set.
//
// The digest covers the elected comparable keys, concatenated in artifact id
// order. It exists for cache invalidation ("has the active set changed since I
// last looked") and must not be used for security decisions.
package fingerprint

import (
	_ "crypto/sha256" // registers the hash behind digest.SHA256
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"

	"github.com/plugstack/plugstack/internal/election"
)

// Algorithm is the digest algorithm used for fingerprints.
const Algorithm = digest.SHA256

// uncomposedPrefix marks placeholder fingerprints published in safe mode.
const uncomposedPrefix = "uncomposed:"

// ErrDigestUnavailable is returned when the digest algorithm is not linked
// into the binary.
var ErrDigestUnavailable = errors.New("fingerprint digest algorithm unavailable")

// Fingerprint is an opaque digest string identifying an active set.
type Fingerprint string

// Compute returns the fingerprint of an active set. It performs no I/O.
func Compute(active election.ActiveSet) (Fingerprint, error) {
	if !Algorithm.Available() {
		return "", fmt.Errorf("%w: %s", ErrDigestUnavailable, Algorithm)
	}

	var buf strings.Builder
	for _, id := range active.IDs() {
		buf.WriteString(string(active[id].Key))
	}
	return Fingerprint(Algorithm.FromString(buf.String()).String()), nil
}

// Uncomposed returns a random placeholder signalling that no composition took
// place. Two placeholders never compare equal, and no placeholder equals a
// computed fingerprint.
func Uncomposed() Fingerprint {
	return Fingerprint(uncomposedPrefix + uuid.NewString())
}

// IsUncomposed reports whether f is a safe-mode placeholder.
func (f Fingerprint) IsUncomposed() bool {
	return strings.HasPrefix(string(f), uncomposedPrefix)
}

// Short returns an abbreviated form for logs.
func (f Fingerprint) Short() string {
	if f.IsUncomposed() {
		return string(f)
	}
	d, err := digest.Parse(string(f))
	if err != nil {
		return string(f)
	}
	enc := d.Encoded()
	if len(enc) > 12 {
		enc = enc[:12]
	}
	return enc
}

// String returns the string representation of the Fingerprint.
func (f Fingerprint) String() string { return string(f) }
