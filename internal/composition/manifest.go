// SPDX-License-Identifier: MPL-2.0

package composition

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/pelletier/go-toml/v2"
)

// ManifestName is the optional manifest at the root of a module archive.
const ManifestName = "plugin.toml"

// Manifest describes a module. Every field is optional; zero values fall back
// to the Builder's conventions.
type Manifest struct {
	// Name is a human-readable module name.
	Name string `toml:"name"`
	// Description is a one-line summary shown by tooling.
	Description string `toml:"description"`
	// Export is the archive directory whose files are exported.
	Export string `toml:"export"`
	// Bootstrap is the archive resource contributed to the bootstrap code.
	Bootstrap string `toml:"bootstrap"`
}

// ReadManifest decodes the manifest of a module layer. A missing manifest is
// not an error and yields the zero Manifest.
func ReadManifest(fsys fs.FS) (Manifest, error) {
	var m Manifest
	data, err := fs.ReadFile(fsys, ManifestName)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("read %s: %w", ManifestName, err)
	}
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode %s: %w", ManifestName, err)
	}
	return m, nil
}
