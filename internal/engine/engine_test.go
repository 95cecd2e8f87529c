// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/plugstack/plugstack/internal/activation"
	"github.com/plugstack/plugstack/internal/artifact"
	"github.com/plugstack/plugstack/internal/composition"
	"github.com/plugstack/plugstack/internal/namespace"
	"github.com/plugstack/plugstack/internal/testutil"
)

var hostFS = fstest.MapFS{
	"shared.txt":    {Data: []byte("host")},
	"host-only.txt": {Data: []byte("host only")},
}

func newEngine(t *testing.T, home string, enabled bool) *Engine {
	t.Helper()
	e, err := New(Options{Home: home, Enabled: enabled, Host: hostFS, HostSource: "test"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func scenarioHome(t *testing.T) testutil.Home {
	t.Helper()
	h := testutil.NewHome(t)
	h.Plugin(t, "foo-1.2.0.zip", map[string]string{"shared.txt": "foo 1.2.0"})
	h.Plugin(t, "foo-1.10.0.zip", map[string]string{"shared.txt": "foo 1.10.0"})
	h.Plugin(t, "foo-2.0.0-SNAPSHOT.zip", map[string]string{
		"shared.txt":       "foo 2.0.0-SNAPSHOT",
		"bootstrap.sh":     "echo foo",
		"export/foo.txt":   "exported by foo",
		"export/share.txt": "foo",
	})
	h.Plugin(t, "bar.zip", map[string]string{
		"bar.txt":          "bar",
		"bootstrap.sh":     "echo bar",
		"export/share.txt": "bar",
	})
	return h
}

func TestEngine_Compose_Scenario(t *testing.T) {
	t.Parallel()

	h := scenarioHome(t)
	e := newEngine(t, h.Root, true)

	snap, err := e.Compose(t.Context())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if snap.Added() != 2 || snap.Ignored() != 2 {
		t.Errorf("added/ignored = %d/%d, want 2/2", snap.Added(), snap.Ignored())
	}

	want := map[artifact.ID]string{"foo": "foo-2.0.0-SNAPSHOT.zip", "bar": "bar.zip"}
	if got := e.InstalledPlugins(); !maps.Equal(got, want) {
		t.Errorf("InstalledPlugins() = %v, want %v", got, want)
	}

	res, ok := e.Resolve("shared.txt")
	if !ok || res.Layer != "foo" {
		t.Fatalf("Resolve(shared.txt) = %v, %v; want foo layer", res, ok)
	}
	data, err := res.ReadAll()
	if err != nil || string(data) != "foo 2.0.0-SNAPSHOT" {
		t.Errorf("shared.txt = %q, %v", data, err)
	}

	var layers []string
	for r := range e.ResolveAll("shared.txt") {
		layers = append(layers, r.Layer)
	}
	if !slices.Equal(layers, []string{"foo", namespace.HostLayerID}) {
		t.Errorf("ResolveAll(shared.txt) layers = %v", layers)
	}

	if got := e.BootstrapCode(); got != "echo foo\necho bar" {
		t.Errorf("BootstrapCode() = %q", got)
	}
	if fp := e.Fingerprint(); !strings.HasPrefix(fp.String(), "sha256:") || fp.IsUncomposed() {
		t.Errorf("Fingerprint() = %q", fp)
	}

	// First writer wins the shared export.
	share := testutil.MustReadFile(t, filepath.Join(h.ExportDir(), "share.txt"))
	if share != "foo" {
		t.Errorf("export/share.txt = %q, want foo", share)
	}
}

func TestEngine_Compose_Idempotent(t *testing.T) {
	t.Parallel()

	h := scenarioHome(t)
	e := newEngine(t, h.Root, true)

	first, err := e.Compose(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Compose(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	if first.Fingerprint != second.Fingerprint {
		t.Errorf("fingerprint changed: %s -> %s", first.Fingerprint, second.Fingerprint)
	}
	if !first.Active.Equal(second.Active) {
		t.Error("active set changed between identical cycles")
	}
	if !slices.Equal(first.Composition.IDs(), second.Composition.IDs()) {
		t.Errorf("composition order changed: %v -> %v", first.Composition.IDs(), second.Composition.IDs())
	}
	if r := second.Report(); r.Exported != 0 || r.Skipped != first.Report().Exported+first.Report().Skipped {
		t.Errorf("second cycle report = %+v, want everything skipped", r)
	}
}

func TestEngine_Compose_FingerprintTracksActiveSet(t *testing.T) {
	t.Parallel()

	h := scenarioHome(t)
	e := newEngine(t, h.Root, true)
	ctx := t.Context()

	compose := func() string {
		t.Helper()
		snap, err := e.Compose(ctx)
		if err != nil {
			t.Fatal(err)
		}
		return snap.Fingerprint.String()
	}

	base := compose()

	if err := os.Remove(filepath.Join(h.PluginsDir(), "foo-1.2.0.zip")); err != nil {
		t.Fatal(err)
	}
	if got := compose(); got != base {
		t.Errorf("removing a superseded archive changed the fingerprint")
	}

	h.Plugin(t, "baz-0.1.zip", map[string]string{"baz.txt": "baz"})
	added := compose()
	if added == base {
		t.Error("adding an artifact did not change the fingerprint")
	}

	h.Plugin(t, "baz-0.2.zip", map[string]string{"baz.txt": "baz"})
	if got := compose(); got == added {
		t.Error("upgrading an artifact did not change the fingerprint")
	}
}

func TestEngine_SafeMode(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	e := newEngine(t, home, false)

	if e.Enabled() {
		t.Fatal("Enabled() = true, want false")
	}
	if _, err := e.Compose(t.Context()); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if got := e.InstalledPlugins(); len(got) != 0 {
		t.Errorf("InstalledPlugins() = %v, want empty", got)
	}
	res, ok := e.Resolve("shared.txt")
	if !ok || res.Kind != namespace.KindHost {
		t.Errorf("Resolve(shared.txt) = %v, %v; want host", res, ok)
	}
	if !e.Fingerprint().IsUncomposed() {
		t.Errorf("Fingerprint() = %q, want placeholder", e.Fingerprint())
	}
	if e.BootstrapCode() != "" {
		t.Errorf("BootstrapCode() = %q, want empty", e.BootstrapCode())
	}
	if _, err := os.Stat(e.PluginsDir()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("safe mode touched the plugin directory: %v", err)
	}

	docs, err := e.Docs(t.Context())
	if err != nil || len(docs.Active) != 0 {
		t.Errorf("Docs() = %v, %v; want empty", docs.Active, err)
	}
}

func TestEngine_BeforeCompose(t *testing.T) {
	t.Parallel()

	e := newEngine(t, t.TempDir(), true)
	if !e.Fingerprint().IsUncomposed() {
		t.Errorf("Fingerprint() before Compose = %q, want placeholder", e.Fingerprint())
	}
	if _, ok := e.Resolve("host-only.txt"); !ok {
		t.Error("host resources should resolve before Compose")
	}
}

func TestEngine_Compose_SetupFailure(t *testing.T) {
	t.Parallel()

	home := filepath.Join(t.TempDir(), "home")
	testutil.MustWriteFile(t, home, "not a directory")

	e := newEngine(t, home, true)
	if _, err := e.Compose(t.Context()); !errors.Is(err, ErrSetup) {
		t.Errorf("Compose() error = %v, want ErrSetup", err)
	}
	if !e.Fingerprint().IsUncomposed() {
		t.Error("a failed cycle must not replace the published snapshot")
	}
}

func TestEngine_Compose_Concurrent(t *testing.T) {
	t.Parallel()

	h := scenarioHome(t)
	e := newEngine(t, h.Root, true)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		fps = map[string]struct{}{}
	)
	for range 8 {
		wg.Go(func() {
			snap, err := e.Compose(context.Background())
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			fps[snap.Fingerprint.String()] = struct{}{}
			mu.Unlock()
			_, _ = e.Resolve("shared.txt")
		})
	}
	wg.Wait()

	if len(fps) != 1 {
		t.Errorf("concurrent cycles published %d distinct fingerprints, want 1", len(fps))
	}
}

func TestEngine_ToPath(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	e := newEngine(t, home, true)

	p, err := e.ToPath("cache", "nested", "file.txt")
	if err != nil {
		t.Fatalf("ToPath() error = %v", err)
	}
	if want := filepath.Join(home, "cache", "nested", "file.txt"); p != want {
		t.Errorf("ToPath() = %q, want %q", p, want)
	}
	if info, err := os.Stat(filepath.Dir(p)); err != nil || !info.IsDir() {
		t.Errorf("parent directory not created: %v", err)
	}

	if p, err := e.ToPath(); err != nil || p != home {
		t.Errorf("ToPath() with no fragments = %q, %v; want home", p, err)
	}
	if _, err := e.ToPath("..", "elsewhere"); !errors.Is(err, ErrOutsideHome) {
		t.Errorf("ToPath(..) error = %v, want ErrOutsideHome", err)
	}
}

func TestEngine_Activate(t *testing.T) {
	t.Parallel()

	h := scenarioHome(t)
	e := newEngine(t, h.Root, true)
	if _, err := e.Compose(t.Context()); err != nil {
		t.Fatal(err)
	}

	var order []artifact.ID
	reg := activation.NewRegistry()
	reg.SetFallback(activation.ProviderFunc(func(_ context.Context, m composition.Module) error {
		order = append(order, m.ID)
		return nil
	}))

	n, errs := e.Activate(t.Context(), reg)
	if n != 2 || len(errs) != 0 {
		t.Fatalf("Activate() = %d, %v", n, errs)
	}
	if !slices.Equal(order, []artifact.ID{"foo", "bar"}) {
		t.Errorf("activation order = %v, want [foo bar]", order)
	}
}

func TestEngine_Docs(t *testing.T) {
	t.Parallel()

	h := scenarioHome(t)
	h.Plugin(t, "foo-1.0-docs.zip", map[string]string{"README.md": "# old"})
	h.Plugin(t, "foo-2.0-docs.zip", map[string]string{"README.md": "# new"})
	e := newEngine(t, h.Root, true)

	docs, err := e.Docs(t.Context())
	if err != nil {
		t.Fatalf("Docs() error = %v", err)
	}
	want := map[artifact.ID]string{"foo": "foo-2.0-docs.zip"}
	if got := docs.Active.FileNames(); !maps.Equal(got, want) {
		t.Errorf("Docs() = %v, want %v", got, want)
	}

	// Docs archives never leak into module composition.
	if _, err := e.Compose(t.Context()); err != nil {
		t.Fatal(err)
	}
	if got := e.InstalledPlugins()["foo"]; got != "foo-2.0.0-SNAPSHOT.zip" {
		t.Errorf("installed foo = %q", got)
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{}); !errors.Is(err, ErrNoHome) {
		t.Errorf("New() without home error = %v, want ErrNoHome", err)
	}
	if _, err := New(Options{Home: t.TempDir(), Suffix: "a/b.zip"}); !errors.Is(err, artifact.ErrInvalidSuffix) {
		t.Errorf("New() with bad suffix error = %v, want ErrInvalidSuffix", err)
	}
}
