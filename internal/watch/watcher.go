// SPDX-License-Identifier: MPL-2.0

// Package watch triggers debounced callbacks when a plugin directory changes.
//
// The plugin directory is flat, so only the directory itself is watched.
// Events for names matching the configured glob patterns are coalesced over
// the debounce window and delivered to the callback as one sorted batch.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// defaultIgnores never trigger a refresh: hidden files, editor swap files and
// partial downloads.
var defaultIgnores = []string{
	".*",
	"*.swp",
	"*~",
	"*.part",
	"*.crdownload",
	"*.tmp",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Dir is the directory to watch. Required.
		Dir string

		// Patterns are doublestar globs matched against file names in Dir
		// (e.g. "*.zip"). An empty slice matches every non-ignored name.
		Patterns []string

		// Ignore adds glob patterns to the built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before OnChange
		// fires.
		Debounce time.Duration

		// OnChange receives the sorted, deduplicated names that changed. A nil
		// callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives watcher diagnostics. Nil discards them.
		Logger *log.Logger
	}

	// Watcher monitors a directory and fires a debounced callback. Run must be
	// called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		logger   *log.Logger
		debounce time.Duration
		dir      string
		started  atomic.Bool
	}
)

// New validates cfg and starts watching cfg.Dir.
func New(cfg Config) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, errors.New("watch: directory is required")
	}
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve directory: %w", err)
	}

	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close watcher after init failure", "err", closeErr)
		}
		return nil, fmt.Errorf("watch: add directory %q: %w", dir, err)
	}

	return &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		logger:   logger,
		debounce: debounce,
		dir:      dir,
	}, nil
}

// Run blocks until ctx is cancelled, batching events and dispatching
// OnChange. It returns nil on cancellation and an error when the watcher
// breaks (closed channels, resource exhaustion).
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		busy    atomic.Bool
	)

	// fire runs on the timer goroutine. A batch arriving while the previous
	// callback is still running is deferred by one debounce period instead of
	// overlapping it.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !busy.CompareAndSwap(false, true) {
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if len(changed) == 0 || w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.logger.Error("refresh failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			name, relevant := w.relevant(evt)
			if !relevant {
				continue
			}
			w.logger.Debug("plugin directory event", "name", name, "op", evt.Op.String())

			mu.Lock()
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// relevant returns the file name of evt and whether it should trigger a
// refresh. Permission changes and names outside the patterns are dropped.
func (w *Watcher) relevant(evt fsnotify.Event) (string, bool) {
	if evt.Op == fsnotify.Chmod {
		return "", false
	}
	if filepath.Dir(evt.Name) != w.dir {
		return "", false
	}
	name := filepath.Base(evt.Name)
	if matchAny(w.ignores, name) {
		return "", false
	}
	if len(w.cfg.Patterns) > 0 && !matchAny(w.cfg.Patterns, name) {
		return "", false
	}
	return name, true
}

// Dir returns the absolute watched directory.
func (w *Watcher) Dir() string { return w.dir }

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func matchAny(patterns []string, name string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, name); err == nil && matched {
			return true
		}
	}
	return false
}

// validatePatterns checks that every pattern is a valid doublestar glob.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
