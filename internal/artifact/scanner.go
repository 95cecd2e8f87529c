// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Scan modes select which archive kind a Scanner accepts. They are mutually
// exclusive: documentation archives never enter a module index.
const (
	// ModeModules accepts module archives and excludes documentation archives.
	ModeModules Mode = iota
	// ModeDocs accepts documentation archives only.
	ModeDocs
)

// ErrScan is returned when the plugin directory cannot be listed.
var ErrScan = errors.New("scan plugin directory")

type (
	// Mode selects the archive kind accepted by a scan.
	Mode int

	// Scanner lists a plugin directory and classifies the archives in it.
	Scanner struct {
		// Suffix identifies module archives. Defaults to DefaultSuffix.
		Suffix Suffix
		// DocsSuffix identifies documentation archives. Defaults to DefaultDocsSuffix.
		DocsSuffix Suffix
		// Mode selects modules or documentation archives.
		Mode Mode
	}

	// Index holds every classified archive of one scan, ordered ascending by
	// (Key, FileName). Files sharing a key are all retained.
	Index struct {
		files  []File
		suffix Suffix
	}
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeModules:
		return "modules"
	case ModeDocs:
		return "docs"
	default:
		return "unknown"
	}
}

// Scan lists dir and returns the index of matching archives. The directory
// must already exist. Listing failures are returned wrapped in ErrScan; the
// scan never partially succeeds.
func (s Scanner) Scan(ctx context.Context, dir string) (*Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScan, err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrScan, dir, err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrScan, absDir, err)
	}

	suffix := s.effectiveSuffix()
	idx := &Index{suffix: suffix}
	for _, entry := range entries {
		name := entry.Name()
		if !s.accepts(name) {
			continue
		}

		path := filepath.Join(absDir, name)
		regular, statErr := isRegularFile(path, entry)
		if statErr != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrScan, path, statErr)
		}
		if !regular {
			continue
		}

		f, ok := Parse(name, suffix)
		if !ok {
			continue
		}
		f.Path = path
		idx.files = append(idx.files, f)
	}

	slices.SortFunc(idx.files, compareFiles)
	return idx, nil
}

func (s Scanner) accepts(name string) bool {
	isDocs := strings.HasSuffix(name, string(s.docsSuffix()))
	switch s.Mode {
	case ModeDocs:
		return isDocs
	default:
		return !isDocs && strings.HasSuffix(name, string(s.moduleSuffix()))
	}
}

func (s Scanner) moduleSuffix() Suffix {
	if s.Suffix == "" {
		return DefaultSuffix
	}
	return s.Suffix
}

func (s Scanner) docsSuffix() Suffix {
	if s.DocsSuffix == "" {
		return DefaultDocsSuffix
	}
	return s.DocsSuffix
}

// effectiveSuffix is the suffix stripped from accepted names.
func (s Scanner) effectiveSuffix() Suffix {
	if s.Mode == ModeDocs {
		return s.docsSuffix()
	}
	return s.moduleSuffix()
}

// isRegularFile reports whether the entry is a regular file, following
// symlinks. Dangling symlinks are not archives.
func isRegularFile(path string, entry os.DirEntry) (bool, error) {
	if entry.Type().IsRegular() {
		return true, nil
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false, nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func compareFiles(a, b File) int {
	return cmp.Or(
		strings.Compare(string(a.Key), string(b.Key)),
		strings.Compare(a.FileName, b.FileName),
	)
}

// NewIndex builds an index from already classified files. It is used by tests
// and callers that classify names without touching the filesystem.
func NewIndex(suffix Suffix, files ...File) *Index {
	idx := &Index{files: slices.Clone(files), suffix: suffix}
	slices.SortFunc(idx.files, compareFiles)
	return idx
}

// Len returns the number of indexed files.
func (idx *Index) Len() int { return len(idx.files) }

// Suffix returns the suffix stripped from indexed file names.
func (idx *Index) Suffix() Suffix { return idx.suffix }

// Files returns a copy of the indexed files in ascending key order.
func (idx *Index) Files() []File { return slices.Clone(idx.files) }

// Descending yields the indexed files from the highest key to the lowest.
// Files sharing a key are yielded by descending file name.
func (idx *Index) Descending() iter.Seq[File] {
	return func(yield func(File) bool) {
		for i := len(idx.files) - 1; i >= 0; i-- {
			if !yield(idx.files[i]) {
				return
			}
		}
	}
}

// DisplayIDs maps every indexed key to the artifact id used for grouping.
func (idx *Index) DisplayIDs() map[Key]ID {
	out := make(map[Key]ID, len(idx.files))
	for _, f := range idx.files {
		out[f.Key] = f.ArtifactID
	}
	return out
}

// ArtifactIDs returns the distinct artifact ids in ascending order.
func (idx *Index) ArtifactIDs() []ID {
	ids := make([]ID, 0, len(idx.files))
	for _, f := range idx.files {
		ids = append(ids, f.ArtifactID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
