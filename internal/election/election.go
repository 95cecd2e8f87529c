// SPDX-License-Identifier: MPL-2.0

// Package election picks the single active archive of every artifact.
//
// Keys are visited in descending order and the first file seen for an
// artifact id wins, which is the same as taking the maximum key per group.
// Files sharing an identical key are visited by descending file name, so the
// winner among exact duplicates is stable but carries no semantic meaning.
package election

import (
	"maps"
	"slices"

	"github.com/plugstack/plugstack/internal/artifact"
)

type (
	// ActiveSet maps each artifact id to its elected archive.
	ActiveSet map[artifact.ID]artifact.File

	// Result is the outcome of an election.
	Result struct {
		// Active holds exactly one file per artifact id present in the index.
		Active ActiveSet
		// Superseded holds every indexed file that lost, in descending key order.
		Superseded []artifact.File
	}
)

// Elect reduces an index to its active set.
func Elect(idx *artifact.Index) Result {
	res := Result{Active: make(ActiveSet)}
	if idx == nil {
		return res
	}

	display := idx.DisplayIDs()
	for f := range idx.Descending() {
		id := display[f.Key]
		if _, seen := res.Active[id]; seen {
			res.Superseded = append(res.Superseded, f)
			continue
		}
		res.Active[id] = f
	}
	return res
}

// ElectedCount returns the number of elected archives.
func (r Result) ElectedCount() int { return len(r.Active) }

// SupersededCount returns the number of indexed archives that were not elected.
func (r Result) SupersededCount() int { return len(r.Superseded) }

// IDs returns the elected artifact ids in ascending order.
func (s ActiveSet) IDs() []artifact.ID {
	return slices.Sorted(maps.Keys(s))
}

// Descending returns the elected files ordered by descending artifact id.
func (s ActiveSet) Descending() []artifact.File {
	ids := s.IDs()
	slices.Reverse(ids)
	out := make([]artifact.File, len(ids))
	for i, id := range ids {
		out[i] = s[id]
	}
	return out
}

// FileNames maps each artifact id to the elected file name.
func (s ActiveSet) FileNames() map[artifact.ID]string {
	out := make(map[artifact.ID]string, len(s))
	for id, f := range s {
		out[id] = f.FileName
	}
	return out
}

// Equal reports whether both sets elect the same files.
func (s ActiveSet) Equal(other ActiveSet) bool {
	return maps.EqualFunc(s, other, func(a, b artifact.File) bool {
		return a.Path == b.Path && a.Key == b.Key
	})
}
