// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path"
	"slices"
	"strings"
)

const (
	// KindModule marks a layer backed by a module archive.
	KindModule Kind = iota
	// KindHost marks the host runtime layer.
	KindHost

	// HostLayerID identifies the host runtime layer.
	HostLayerID = "host"
)

// ErrOpenArchive is returned when a module archive cannot be read as a layer.
var ErrOpenArchive = errors.New("open module archive")

type (
	// Kind distinguishes module layers from the host layer.
	Kind int

	// Layer is one resource provider in the chain.
	Layer struct {
		// ID names the layer: the artifact id for modules, HostLayerID for the host.
		ID string
		// Kind is the layer kind.
		Kind Kind
		// Source describes where the layer comes from (archive path, "embedded", ...).
		Source string
		// FS serves the layer's resources.
		FS fs.FS
	}

	// Resource is a named entry found in a layer.
	Resource struct {
		// Name is the slash-separated resource name within the layer.
		Name string
		// Layer is the ID of the layer holding the resource.
		Layer string
		// Kind is the kind of that layer.
		Kind Kind

		fsys fs.FS
	}

	// Namespace is an immutable ordered chain of layers.
	Namespace struct {
		layers []Layer
	}

	emptyFS struct{}
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindHost:
		return "host"
	default:
		return "unknown"
	}
}

// Open implements fs.FS for a host runtime without resources.
func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// HostLayer wraps the host runtime resources. A nil fsys yields an empty layer.
func HostLayer(fsys fs.FS, source string) Layer {
	if fsys == nil {
		fsys = emptyFS{}
	}
	return Layer{ID: HostLayerID, Kind: KindHost, Source: source, FS: fsys}
}

// OpenArchive reads a module archive fully into memory and exposes it as a
// layer. The returned layer holds no open file descriptor.
func OpenArchive(id, archivePath string) (Layer, error) {
	data, err := os.ReadFile(archivePath)
	if err != nil {
		return Layer{}, fmt.Errorf("%w: %s: %w", ErrOpenArchive, archivePath, err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Layer{}, fmt.Errorf("%w: %s: %w", ErrOpenArchive, archivePath, err)
	}

	return Layer{ID: id, Kind: KindModule, Source: archivePath, FS: zr}, nil
}

// New builds a namespace from module layers in probe order followed by the
// host layer.
func New(host Layer, modules ...Layer) *Namespace {
	layers := make([]Layer, 0, len(modules)+1)
	layers = append(layers, modules...)
	host.Kind = KindHost
	if host.FS == nil {
		host.FS = emptyFS{}
	}
	layers = append(layers, host)
	return &Namespace{layers: layers}
}

// Layers returns a copy of the layer chain in probe order.
func (n *Namespace) Layers() []Layer {
	return slices.Clone(n.layers)
}

// ModuleLayers returns the module layers in probe order.
func (n *Namespace) ModuleLayers() []Layer {
	return slices.DeleteFunc(n.Layers(), func(l Layer) bool { return l.Kind != KindModule })
}

// ResolveFirst returns the first layer's resource with the given name. The
// host layer answers when no module layer holds the name.
func (n *Namespace) ResolveFirst(name string) (Resource, bool) {
	for r := range n.ResolveAll(name) {
		return r, true
	}
	return Resource{}, false
}

// ResolveAll lazily yields the resource from every layer holding name, modules
// first and host last. Layers are probed only as the sequence is consumed.
func (n *Namespace) ResolveAll(name string) iter.Seq[Resource] {
	clean, ok := CleanName(name)
	return func(yield func(Resource) bool) {
		if !ok {
			return
		}
		for _, l := range n.layers {
			if !exists(l.FS, clean) {
				continue
			}
			if !yield(Resource{Name: clean, Layer: l.ID, Kind: l.Kind, fsys: l.FS}) {
				return
			}
		}
	}
}

// ReadFile returns the content of the first resource with the given name.
func (n *Namespace) ReadFile(name string) ([]byte, error) {
	r, ok := n.ResolveFirst(name)
	if !ok {
		return nil, &fs.PathError{Op: "resolve", Path: name, Err: fs.ErrNotExist}
	}
	return r.ReadAll()
}

// Open opens the resource for reading.
func (r Resource) Open() (fs.File, error) {
	if r.fsys == nil {
		return nil, &fs.PathError{Op: "open", Path: r.Name, Err: fs.ErrInvalid}
	}
	return r.fsys.Open(r.Name)
}

// ReadAll returns the full content of the resource.
func (r Resource) ReadAll() ([]byte, error) {
	if r.fsys == nil {
		return nil, &fs.PathError{Op: "read", Path: r.Name, Err: fs.ErrInvalid}
	}
	return fs.ReadFile(r.fsys, r.Name)
}

// String returns "<layer>:<name>".
func (r Resource) String() string {
	return r.Layer + ":" + r.Name
}

// CleanName normalizes a resource name into an fs.FS path. Backslashes become
// slashes, leading slashes are dropped and ".." cannot climb above the layer
// root. Names that clean to the root itself are rejected.
func CleanName(name string) (string, bool) {
	clean := path.Clean("/" + strings.ReplaceAll(name, `\`, "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || !fs.ValidPath(clean) {
		return "", false
	}
	return clean, true
}

// exists reports whether name is a regular entry of fsys.
func exists(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && !info.IsDir()
}
