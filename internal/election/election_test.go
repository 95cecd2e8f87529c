// SPDX-License-Identifier: MPL-2.0

package election

import (
	"fmt"
	"maps"
	"slices"
	"testing"

	"github.com/plugstack/plugstack/internal/artifact"
)

func index(t *testing.T, names ...string) *artifact.Index {
	t.Helper()
	files := make([]artifact.File, 0, len(names))
	for _, name := range names {
		f, ok := artifact.Parse(name, artifact.DefaultSuffix)
		if !ok {
			t.Fatalf("Parse(%q) failed", name)
		}
		f.Path = "/plugins/" + name
		files = append(files, f)
	}
	return artifact.NewIndex(artifact.DefaultSuffix, files...)
}

func TestElect_Scenario(t *testing.T) {
	t.Parallel()

	res := Elect(index(t, "foo-1.2.0.zip", "foo-1.10.0.zip", "foo-2.0.0-SNAPSHOT.zip", "bar.zip"))

	want := map[artifact.ID]string{
		// Major 2 outranks every 1.x release even as a pre-release.
		"foo": "foo-2.0.0-SNAPSHOT.zip",
		"bar": "bar.zip",
	}
	if got := res.Active.FileNames(); !maps.Equal(got, want) {
		t.Errorf("Active = %v, want %v", got, want)
	}
	if res.ElectedCount() != 2 {
		t.Errorf("ElectedCount() = %d, want 2", res.ElectedCount())
	}
	if res.SupersededCount() != 2 {
		t.Errorf("SupersededCount() = %d, want 2", res.SupersededCount())
	}
}

func TestElect_ReleaseBeatsSnapshot(t *testing.T) {
	t.Parallel()

	res := Elect(index(t, "foo-1.10.0.zip", "foo-2.0.0-SNAPSHOT.zip", "foo-2.0.0.zip"))
	if got := res.Active["foo"].FileName; got != "foo-2.0.0.zip" {
		t.Errorf("elected %q, want foo-2.0.0.zip", got)
	}

	res = Elect(index(t, "foo-1.0.0.zip", "foo-1.0.0-SNAPSHOT.zip"))
	if got := res.Active["foo"].FileName; got != "foo-1.0.0.zip" {
		t.Errorf("elected %q, want foo-1.0.0.zip", got)
	}
}

func TestElect_QualifiedVersionSharesArtifact(t *testing.T) {
	t.Parallel()

	res := Elect(index(t, "foo-1.0.0.zip", "foo-1.0.0-1.zip"))
	if got := res.Active.IDs(); !slices.Equal(got, []artifact.ID{"foo"}) {
		t.Fatalf("Active ids = %v, want [foo]", got)
	}
	if got := res.Active["foo"].FileName; got != "foo-1.0.0-1.zip" {
		t.Errorf("elected %q, want foo-1.0.0-1.zip", got)
	}
	if res.SupersededCount() != 1 {
		t.Errorf("superseded = %d, want 1", res.SupersededCount())
	}
}

func TestElect_UnversionedNeverElectedOverVersioned(t *testing.T) {
	t.Parallel()

	for _, sibling := range []string{"foo-0.zip", "foo-0.0.1.zip", "foo-0.0.0-SNAPSHOT.zip"} {
		res := Elect(index(t, "foo.zip", sibling))
		if got := res.Active["foo"].FileName; got != sibling {
			t.Errorf("with %s: elected %q, want the versioned sibling", sibling, got)
		}
	}
}

func TestElect_PicksSemanticMaximum(t *testing.T) {
	t.Parallel()

	var names []string
	for major := range 3 {
		for minor := range 12 {
			names = append(names, fmt.Sprintf("lib-%d.%d.zip", major, minor))
		}
	}
	slices.Reverse(names)

	res := Elect(index(t, names...))
	if got := res.Active["lib"].FileName; got != "lib-2.11.zip" {
		t.Errorf("elected %q, want lib-2.11.zip", got)
	}
	if res.SupersededCount() != len(names)-1 {
		t.Errorf("SupersededCount() = %d, want %d", res.SupersededCount(), len(names)-1)
	}
}

func TestElect_DuplicateKeysAreStable(t *testing.T) {
	t.Parallel()

	first := Elect(index(t, "foo-1.0.zip", "foo-1.0.0.zip"))
	second := Elect(index(t, "foo-1.0.0.zip", "foo-1.0.zip"))

	if first.Active["foo"].FileName != second.Active["foo"].FileName {
		t.Errorf("duplicate key election depends on input order: %q vs %q",
			first.Active["foo"].FileName, second.Active["foo"].FileName)
	}
	// Descending file name order: "foo-1.0.zip" > "foo-1.0.0.zip".
	if got := first.Active["foo"].FileName; got != "foo-1.0.zip" {
		t.Errorf("elected %q, want foo-1.0.zip", got)
	}
}

func TestElect_NilIndex(t *testing.T) {
	t.Parallel()

	res := Elect(nil)
	if res.ElectedCount() != 0 || res.SupersededCount() != 0 {
		t.Errorf("Elect(nil) = %+v, want empty result", res)
	}
}

func TestActiveSet_Descending(t *testing.T) {
	t.Parallel()

	res := Elect(index(t, "alpha.zip", "gamma-1.0.zip", "beta-2.zip"))
	var got []artifact.ID
	for _, f := range res.Active.Descending() {
		got = append(got, f.ArtifactID)
	}
	if want := []artifact.ID{"gamma", "beta", "alpha"}; !slices.Equal(got, want) {
		t.Errorf("Descending() = %v, want %v", got, want)
	}
}

func TestActiveSet_Equal(t *testing.T) {
	t.Parallel()

	a := Elect(index(t, "foo-1.0.zip", "bar.zip")).Active
	b := Elect(index(t, "bar.zip", "foo-1.0.zip", "foo-0.9.zip")).Active
	c := Elect(index(t, "bar.zip", "foo-1.1.zip")).Active

	if !a.Equal(b) {
		t.Error("sets electing the same files should be equal")
	}
	if a.Equal(c) {
		t.Error("sets electing different files should differ")
	}
}
