// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"time"

	"github.com/plugstack/plugstack/internal/artifact"
	"github.com/plugstack/plugstack/internal/composition"
	"github.com/plugstack/plugstack/internal/election"
	"github.com/plugstack/plugstack/internal/fingerprint"
	"github.com/plugstack/plugstack/internal/namespace"
)

// Snapshot is the published outcome of one composition cycle. It is never
// mutated after publication.
type Snapshot struct {
	// Active is the elected set. Empty in safe mode.
	Active election.ActiveSet
	// Superseded lists the archives that lost the election.
	Superseded []artifact.File
	// Composition holds the layered modules, namespace and bootstrap code.
	Composition *composition.Composition
	// Fingerprint identifies Active.
	Fingerprint fingerprint.Fingerprint
	// ComposedAt is when the cycle finished.
	ComposedAt time.Time
}

func hostOnlySnapshot(host namespace.Layer) *Snapshot {
	return &Snapshot{
		Active:      election.ActiveSet{},
		Composition: &composition.Composition{Namespace: namespace.New(host)},
		Fingerprint: fingerprint.Uncomposed(),
		ComposedAt:  time.Now(),
	}
}

// Namespace returns the merged namespace of the snapshot.
func (s *Snapshot) Namespace() *namespace.Namespace { return s.Composition.Namespace }

// Bootstrap returns the aggregated bootstrap code.
func (s *Snapshot) Bootstrap() string { return s.Composition.Bootstrap }

// Report returns the diagnostics of the cycle.
func (s *Snapshot) Report() composition.Report { return s.Composition.Report }

// Added is the number of elected archives.
func (s *Snapshot) Added() int { return len(s.Active) }

// Ignored is the number of superseded archives.
func (s *Snapshot) Ignored() int { return len(s.Superseded) }
