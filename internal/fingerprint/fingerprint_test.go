// SPDX-License-Identifier: MPL-2.0

package fingerprint

import (
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"

	"github.com/plugstack/plugstack/internal/artifact"
	"github.com/plugstack/plugstack/internal/election"
)

func active(t *testing.T, names ...string) election.ActiveSet {
	t.Helper()
	files := make([]artifact.File, 0, len(names))
	for _, name := range names {
		f, ok := artifact.Parse(name, artifact.DefaultSuffix)
		if !ok {
			t.Fatalf("Parse(%q) failed", name)
		}
		files = append(files, f)
	}
	return election.Elect(artifact.NewIndex(artifact.DefaultSuffix, files...)).Active
}

func compute(t *testing.T, names ...string) Fingerprint {
	t.Helper()
	fp, err := Compute(active(t, names...))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return fp
}

func TestCompute_Deterministic(t *testing.T) {
	t.Parallel()

	a := compute(t, "foo-1.0.zip", "bar.zip", "baz-2.1.zip")
	b := compute(t, "baz-2.1.zip", "foo-1.0.zip", "bar.zip")
	if a != b {
		t.Errorf("fingerprint depends on input order: %s vs %s", a, b)
	}

	d, err := digest.Parse(string(a))
	if err != nil {
		t.Fatalf("fingerprint is not a valid digest: %v", err)
	}
	if d.Algorithm() != Algorithm {
		t.Errorf("Algorithm = %s, want %s", d.Algorithm(), Algorithm)
	}
}

func TestCompute_Sensitivity(t *testing.T) {
	t.Parallel()

	base := compute(t, "foo-1.0.zip", "foo-0.9.zip", "bar.zip")

	tests := []struct {
		name  string
		files []string
		same  bool
	}{
		{"add_module", []string{"foo-1.0.zip", "foo-0.9.zip", "bar.zip", "qux.zip"}, false},
		{"remove_module", []string{"foo-1.0.zip", "foo-0.9.zip"}, false},
		{"upgrade_module", []string{"foo-1.1.zip", "foo-1.0.zip", "foo-0.9.zip", "bar.zip"}, false},
		{"version_bar", []string{"foo-1.0.zip", "foo-0.9.zip", "bar-1.zip"}, false},
		{"remove_superseded", []string{"foo-1.0.zip", "bar.zip"}, true},
		{"add_superseded", []string{"foo-1.0.zip", "foo-0.9.zip", "foo-0.1.zip", "bar.zip"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := compute(t, tt.files...)
			if (got == base) != tt.same {
				t.Errorf("fingerprint equal = %v, want %v", got == base, tt.same)
			}
		})
	}
}

func TestCompute_EmptySet(t *testing.T) {
	t.Parallel()

	fp, err := Compute(election.ActiveSet{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if fp.IsUncomposed() {
		t.Error("an empty composition is not an uncomposed placeholder")
	}
	if fp != Fingerprint(digest.SHA256.FromString("").String()) {
		t.Errorf("empty fingerprint = %s", fp)
	}
}

func TestUncomposed(t *testing.T) {
	t.Parallel()

	a, b := Uncomposed(), Uncomposed()
	if a == b {
		t.Error("placeholders should be random")
	}
	if !a.IsUncomposed() {
		t.Error("IsUncomposed() = false for a placeholder")
	}
	if a.Short() != a.String() {
		t.Error("Short() should not abbreviate placeholders")
	}
}

func TestFingerprint_Short(t *testing.T) {
	t.Parallel()

	fp := compute(t, "foo-1.0.zip")
	short := fp.Short()
	if len(short) != 12 || !strings.Contains(fp.String(), short) {
		t.Errorf("Short() = %q for %s", short, fp)
	}
	if got := Fingerprint("garbage").Short(); got != "garbage" {
		t.Errorf("Short() of a non-digest = %q", got)
	}
}
