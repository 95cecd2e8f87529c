// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestCatalog_Complete(t *testing.T) {
	ids := []Id{
		PluginDirUnavailableId,
		PluginScanFailedId,
		DigestUnavailableId,
		ConfigLoadFailedId,
		ModuleCompositionFailedId,
		ResourceNotFoundId,
		DocsNotFoundId,
		BootstrapFailedId,
		PermissionDeniedId,
	}

	if PluginDirUnavailableId != 1 {
		t.Errorf("PluginDirUnavailableId = %d, want 1", PluginDirUnavailableId)
	}
	for _, id := range ids {
		i := Get(id)
		if i == nil {
			t.Errorf("Get(%d) returned nil", id)
			continue
		}
		if i.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, i.Id())
		}
		if strings.TrimSpace(string(i.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no guidance", id)
		}
	}

	values := Values()
	if len(values) != len(ids) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(ids))
	}
	for n, i := range values {
		if i.Id() != ids[n] {
			t.Errorf("Values()[%d].Id() = %d, want %d", n, i.Id(), ids[n])
		}
	}

	if Get(0) != nil || Get(Id(len(ids)+1)) != nil {
		t.Error("Get() of an unknown id should return nil")
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotStyle string
	render = func(in string, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	rendered, err := Get(ConfigLoadFailedId).Render("")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(rendered, "plugstack config init") {
		t.Error("rendered guidance should mention 'plugstack config init'")
	}
	if strings.Contains(rendered, "See also") {
		t.Error("issue without links should not render a See also section")
	}
	if gotStyle != "auto" {
		t.Errorf("empty style should render as auto, got %q", gotStyle)
	}
}

func TestIssue_Render_WithLinks(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()
	render = func(in string, _ string) (string, error) { return in, nil }

	i := &Issue{
		id:       PermissionDeniedId,
		mdMsg:    "# Test",
		docLinks: []HttpLink{"https://example.com/docs"},
		extLinks: []HttpLink{"https://example.com/ext"},
	}
	rendered, err := i.Render("dark")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{"See also", "https://example.com/docs", "https://example.com/ext"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered output missing %q", want)
		}
	}

	links := i.DocLinks()
	links[0] = "mutated"
	if i.DocLinks()[0] != "https://example.com/docs" {
		t.Error("DocLinks() must return a copy")
	}
}

func TestIssue_Render_Glamour(t *testing.T) {
	rendered, err := Get(ResourceNotFoundId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(rendered, "Resource not found") {
		t.Errorf("rendered output = %q", rendered)
	}
}
