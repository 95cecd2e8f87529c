// SPDX-License-Identifier: MPL-2.0

package composition

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/plugstack/plugstack/internal/namespace"
)

// DefaultExportRoot is the archive directory exported when the manifest does
// not name one.
const DefaultExportRoot = "export"

// exportResult counts the outcome of exporting one module.
type exportResult struct {
	copied  int
	skipped int
}

// exportModule copies every file under root in the module layer into
// exportDir. Files already present at the destination are left untouched so
// local overrides survive restarts. Each failed copy is reported through fail
// and does not stop the remaining copies.
func exportModule(m Module, root, exportDir string, fail func(resource string, err error)) exportResult {
	var res exportResult

	info, err := fs.Stat(m.Layer.FS, root)
	if errors.Is(err, fs.ErrNotExist) {
		return res
	}
	if err != nil {
		fail(root, err)
		return res
	}
	if !info.IsDir() {
		fail(root, fmt.Errorf("export root is not a directory"))
		return res
	}

	walkErr := fs.WalkDir(m.Layer.FS, root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			fail(name, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(name, root+"/")
		dest := filepath.Join(exportDir, filepath.FromSlash(rel))

		copied, copyErr := copyIfAbsent(m.Layer.FS, name, dest)
		switch {
		case copyErr != nil:
			fail(name, copyErr)
		case copied:
			res.copied++
		default:
			res.skipped++
		}
		return nil
	})
	if walkErr != nil {
		fail(root, walkErr)
	}
	return res
}

// copyIfAbsent copies name from fsys to dest unless dest exists. It reports
// whether a copy happened. A partially written destination is removed so a
// later cycle can retry.
func copyIfAbsent(fsys fs.FS, name, dest string) (copied bool, err error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, fmt.Errorf("create export directory: %w", err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(dest) // best-effort cleanup of the partial copy
			copied = false
		}
	}()

	in, err := fsys.Open(name)
	if err != nil {
		return false, fmt.Errorf("open exported resource: %w", err)
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		return false, fmt.Errorf("copy exported resource: %w", err)
	}
	return true, nil
}

// exportRoot returns the cleaned export root of a module.
func exportRoot(m Manifest) (string, error) {
	root := m.Export
	if root == "" {
		root = DefaultExportRoot
	}
	clean, ok := namespace.CleanName(root)
	if !ok {
		return "", fmt.Errorf("invalid export root %q", root)
	}
	return clean, nil
}
