// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// WriteArchive writes a ZIP module archive at path holding the given
// name → content entries. Entries are written in sorted name order so the
// archive bytes are reproducible.
func WriteArchive(t testing.TB, path string, files map[string]string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive %s: %v", path, err)
	}

	zw := zip.NewWriter(f)
	for _, name := range slices.Sorted(maps.Keys(files)) {
		w, createErr := zw.Create(name)
		if createErr != nil {
			t.Fatalf("failed to add %s to %s: %v", name, path, createErr)
		}
		if _, writeErr := w.Write([]byte(files[name])); writeErr != nil {
			t.Fatalf("failed to write %s to %s: %v", name, path, writeErr)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish archive %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close archive %s: %v", path, err)
	}
}
