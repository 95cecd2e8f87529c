// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/plugstack/plugstack/internal/activation"
	"github.com/plugstack/plugstack/internal/artifact"
	"github.com/plugstack/plugstack/internal/composition"
	"github.com/plugstack/plugstack/internal/election"
	"github.com/plugstack/plugstack/internal/fingerprint"
	"github.com/plugstack/plugstack/internal/namespace"
	"github.com/plugstack/plugstack/internal/safemode"
)

const (
	// PluginsDirName is the plugin directory below the home directory.
	PluginsDirName = "plugins"
	// ExportDirName is the export directory below the home directory.
	ExportDirName = "export"

	composeKey = "compose"
)

var (
	// ErrSetup is returned when the plugin directory cannot be created.
	ErrSetup = errors.New("prepare plugin directory")

	// ErrNoHome is returned when no home directory is configured.
	ErrNoHome = errors.New("home directory is not set")

	// ErrOutsideHome is returned by ToPath for fragments that leave the home directory.
	ErrOutsideHome = errors.New("path escapes home directory")
)

type (
	// Options configures an Engine.
	Options struct {
		// Home is the plugstack home directory. Required.
		Home string
		// Enabled is the safe-mode switch. False means safe mode.
		Enabled bool
		// Suffix identifies module archives. Empty means artifact.DefaultSuffix.
		Suffix artifact.Suffix
		// DocsSuffix identifies documentation archives. Empty means artifact.DefaultDocsSuffix.
		DocsSuffix artifact.Suffix
		// BootstrapResource is the per-module bootstrap resource name.
		BootstrapResource string
		// Host is the host runtime's resource tree, probed after every module.
		Host fs.FS
		// HostSource describes Host in diagnostics.
		HostSource string
		// Logger receives cycle summaries and module-scoped failures.
		Logger *log.Logger
	}

	// Engine composes the plugin directory and serves queries against the
	// latest snapshot. It is safe for concurrent use.
	Engine struct {
		opts     Options
		gate     safemode.Gate
		host     namespace.Layer
		logger   *log.Logger
		current  atomic.Pointer[Snapshot]
		inflight singleflight.Group
	}
)

// New creates an engine. Until the first Compose the engine publishes a
// host-only snapshot.
func New(opts Options) (*Engine, error) {
	if opts.Home == "" {
		return nil, ErrNoHome
	}
	for _, s := range []artifact.Suffix{opts.Suffix, opts.DocsSuffix} {
		if s == "" {
			continue
		}
		if ok, errs := s.IsValid(); !ok {
			return nil, errors.Join(errs...)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Engine{
		opts:   opts,
		gate:   safemode.New(opts.Enabled),
		host:   namespace.HostLayer(opts.Host, opts.HostSource),
		logger: logger,
	}
	e.current.Store(hostOnlySnapshot(e.host))
	return e, nil
}

// Compose runs one composition cycle and publishes its snapshot. Concurrent
// calls share a single cycle. In safe mode nothing is scanned and the
// published snapshot resolves against the host only.
func (e *Engine) Compose(ctx context.Context) (*Snapshot, error) {
	v, err, _ := e.inflight.Do(composeKey, func() (any, error) {
		snap, err := e.compose(ctx)
		if err != nil {
			return nil, err
		}
		e.current.Store(snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (e *Engine) compose(ctx context.Context) (*Snapshot, error) {
	if !e.gate.Enabled() {
		e.logger.Info("plugins disabled, composing host runtime only")
		return hostOnlySnapshot(e.host), nil
	}

	dir, err := e.preparePluginsDir()
	if err != nil {
		return nil, err
	}

	idx, err := e.scanner(artifact.ModeModules).Scan(ctx, dir)
	if err != nil {
		return nil, err
	}
	result := election.Elect(idx)

	fp, err := fingerprint.Compute(result.Active)
	if err != nil {
		return nil, err
	}

	builder := composition.Builder{
		Host:              e.host,
		ExportDir:         e.ExportDir(),
		BootstrapResource: e.opts.BootstrapResource,
		Logger:            e.logger,
	}
	snap := &Snapshot{
		Active:      result.Active,
		Superseded:  result.Superseded,
		Composition: builder.Compose(result.Active),
		Fingerprint: fp,
		ComposedAt:  time.Now(),
	}

	e.logger.Infof("%d plugins added, %d ignored", snap.Added(), snap.Ignored())
	e.logger.Debug("composition finished",
		"fingerprint", fp.Short(),
		"exported", snap.Report().Exported,
		"skipped", snap.Report().Skipped,
		"failed", len(snap.Report().Errors))
	return snap, nil
}

func (e *Engine) preparePluginsDir() (string, error) {
	dir := e.PluginsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrSetup, dir, err)
	}
	return dir, nil
}

func (e *Engine) scanner(mode artifact.Mode) artifact.Scanner {
	return artifact.Scanner{Suffix: e.opts.Suffix, DocsSuffix: e.opts.DocsSuffix, Mode: mode}
}

// Snapshot returns the latest published snapshot.
func (e *Engine) Snapshot() *Snapshot { return e.current.Load() }

// Enabled reports whether composition is enabled.
func (e *Engine) Enabled() bool { return e.gate.Enabled() }

// Gate returns the safe-mode gate.
func (e *Engine) Gate() safemode.Gate { return e.gate }

// Fingerprint returns the fingerprint of the latest snapshot.
func (e *Engine) Fingerprint() fingerprint.Fingerprint { return e.Snapshot().Fingerprint }

// Resolve finds the first layer providing name.
func (e *Engine) Resolve(name string) (namespace.Resource, bool) {
	return e.Snapshot().Namespace().ResolveFirst(name)
}

// ResolveAll yields every layer's copy of name in precedence order. The
// sequence is bound to the snapshot current at the time of the call.
func (e *Engine) ResolveAll(name string) iter.Seq[namespace.Resource] {
	return e.Snapshot().Namespace().ResolveAll(name)
}

// InstalledPlugins maps each elected artifact id to its archive file name.
// The map is a copy and empty in safe mode.
func (e *Engine) InstalledPlugins() map[artifact.ID]string {
	return e.Snapshot().Active.FileNames()
}

// BootstrapCode returns the aggregated bootstrap code of the latest snapshot.
func (e *Engine) BootstrapCode() string { return e.Snapshot().Bootstrap() }

// Home returns the home directory.
func (e *Engine) Home() string { return e.opts.Home }

// PluginsDir returns <home>/plugins.
func (e *Engine) PluginsDir() string { return filepath.Join(e.opts.Home, PluginsDirName) }

// ExportDir returns <home>/export.
func (e *Engine) ExportDir() string { return filepath.Join(e.opts.Home, ExportDirName) }

// ToPath joins fragments under the home directory and creates the missing
// parent directories of the result.
func (e *Engine) ToPath(fragments ...string) (string, error) {
	rel := filepath.Join(fragments...)
	if rel != "" && !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %s", ErrOutsideHome, rel)
	}
	p := filepath.Join(e.opts.Home, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create parent of %s: %w", p, err)
	}
	return p, nil
}

// Activate runs the registry's providers over the modules of the latest
// snapshot in composition order.
func (e *Engine) Activate(ctx context.Context, reg *activation.Registry) (int, []*composition.ModuleError) {
	snap := e.Snapshot()
	n, errs := reg.Activate(ctx, snap.Composition.Modules)
	for _, me := range errs {
		e.logger.Error("module activation failed", "module", me.ArtifactID, "err", me.Err)
	}
	return n, errs
}

// Docs elects the documentation archives of the plugin directory. It does
// not touch the published snapshot. In safe mode the result is empty.
func (e *Engine) Docs(ctx context.Context) (election.Result, error) {
	if !e.gate.Enabled() {
		return election.Result{Active: election.ActiveSet{}}, nil
	}
	dir, err := e.preparePluginsDir()
	if err != nil {
		return election.Result{}, err
	}
	idx, err := e.scanner(artifact.ModeDocs).Scan(ctx, dir)
	if err != nil {
		return election.Result{}, err
	}
	return election.Elect(idx), nil
}
