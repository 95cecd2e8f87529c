// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/plugstack/plugstack/pkg/versionkey"
)

const (
	// DefaultSuffix is the default module archive suffix.
	DefaultSuffix Suffix = ".zip"
	// DefaultDocsSuffix is the default documentation archive suffix.
	DefaultDocsSuffix Suffix = "-docs.zip"

	// keySeparator joins the artifact id and the version key.
	keySeparator = "@"
)

var (
	// ErrInvalidID is the sentinel error wrapped by InvalidIDError.
	ErrInvalidID = errors.New("invalid artifact id")
	// ErrInvalidSuffix is the sentinel error wrapped by InvalidSuffixError.
	ErrInvalidSuffix = errors.New("invalid archive suffix")

	// versionPattern captures the longest trailing -<version> group of a file
	// stem holding at most versionkey.Fragments fragments: the first starts
	// with a digit, the rest are dot/dash separated alphanumerics.
	// "foo-1.0.0-1" yields ("foo", "1.0.0-1").
	versionPattern = regexp.MustCompile(fmt.Sprintf(
		`^(.+?)-([0-9][0-9A-Za-z]*(?:[.-][0-9A-Za-z]+){0,%d})$`, versionkey.Fragments-1))

	// longVersionPattern matches versions with more fragments than a key
	// encodes. The encoder drops the excess.
	longVersionPattern = regexp.MustCompile(`^(.+?)-([0-9][0-9A-Za-z]*(?:[.-][0-9A-Za-z]+)*)$`)
)

type (
	// ID is the logical module name with version and suffix stripped.
	ID string

	// InvalidIDError is returned when an ID is empty or contains a path separator.
	InvalidIDError struct {
		Value ID
	}

	// Suffix is a file name suffix identifying an archive kind (e.g. ".zip").
	Suffix string

	// InvalidSuffixError is returned when a Suffix is empty or contains a path separator.
	InvalidSuffixError struct {
		Value Suffix
	}

	// Key is a comparable key that groups by artifact id and then orders by
	// version: "<id>@<versionkey>".
	Key string

	// File is one classified archive. It is immutable once created.
	File struct {
		// Path is the absolute path of the archive.
		Path string
		// FileName is the base name of the archive.
		FileName string
		// ArtifactID is the version-stripped logical name.
		ArtifactID ID
		// RawVersion is the version captured from the file name. Empty when
		// HasVersion is false.
		RawVersion string
		// HasVersion reports whether the file name carried a version.
		HasVersion bool
		// Key orders the file within its artifact group.
		Key Key
	}
)

// Error implements the error interface.
func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid artifact id %q", e.Value)
}

// Unwrap returns ErrInvalidID so callers can use errors.Is.
func (e *InvalidIDError) Unwrap() error { return ErrInvalidID }

// IsValid returns whether the ID is usable as an artifact id.
func (id ID) IsValid() (bool, []error) {
	if strings.TrimSpace(string(id)) == "" || strings.ContainsAny(string(id), `/\`) {
		return false, []error{&InvalidIDError{Value: id}}
	}
	return true, nil
}

// String returns the string representation of the ID.
func (id ID) String() string { return string(id) }

// Error implements the error interface.
func (e *InvalidSuffixError) Error() string {
	return fmt.Sprintf("invalid archive suffix %q", e.Value)
}

// Unwrap returns ErrInvalidSuffix so callers can use errors.Is.
func (e *InvalidSuffixError) Unwrap() error { return ErrInvalidSuffix }

// IsValid returns whether the Suffix can identify archive files.
func (s Suffix) IsValid() (bool, []error) {
	if strings.TrimSpace(string(s)) == "" || strings.ContainsAny(string(s), `/\`) {
		return false, []error{&InvalidSuffixError{Value: s}}
	}
	return true, nil
}

// String returns the string representation of the Suffix.
func (s Suffix) String() string { return string(s) }

// String returns the string representation of the Key.
func (k Key) String() string { return string(k) }

// VersionKey returns the version part of the key.
func (k Key) VersionKey() versionkey.Key {
	i := strings.LastIndex(string(k), keySeparator)
	if i < 0 {
		return ""
	}
	return versionkey.Key(k[i+len(keySeparator):])
}

// NewKey builds the comparable key of an artifact version.
func NewKey(id ID, vk versionkey.Key) Key {
	return Key(string(id) + keySeparator + string(vk))
}

// Parse classifies a file name carrying the given suffix. It returns false
// when the name does not end with the suffix or nothing remains once the
// suffix is stripped.
func Parse(fileName string, suffix Suffix) (File, bool) {
	stem, found := strings.CutSuffix(fileName, string(suffix))
	if !found || stem == "" {
		return File{}, false
	}

	f := File{FileName: fileName, ArtifactID: ID(stem)}
	m := versionPattern.FindStringSubmatch(stem)
	if m == nil {
		m = longVersionPattern.FindStringSubmatch(stem)
	}
	if m != nil {
		f.ArtifactID = ID(m[1])
		f.RawVersion = m[2]
		f.HasVersion = true
	}
	f.Key = NewKey(f.ArtifactID, versionkey.Encode(f.RawVersion, f.HasVersion))
	return f, true
}

// DisplayName returns the versioned display form of the file ("foo-1.2.0"),
// i.e. the file name without its suffix.
func (f File) DisplayName(suffix Suffix) string {
	return strings.TrimSuffix(f.FileName, string(suffix))
}
