// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type (
	// Id identifies a catalog issue.
	Id int

	// MarkdownMsg is Markdown guidance rendered to the terminal.
	MarkdownMsg string

	// HttpLink is a documentation or external link.
	HttpLink string

	// Issue is a catalog entry: Markdown guidance for a class of failures.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

const (
	PluginDirUnavailableId Id = iota + 1
	PluginScanFailedId
	DigestUnavailableId
	ConfigLoadFailedId
	ModuleCompositionFailedId
	ResourceNotFoundId
	DocsNotFoundId
	BootstrapFailedId
	PermissionDeniedId
)

// Id returns the issue id.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// ExtLinks returns a copy of the external links.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the guidance with the given glamour style ("dark",
// "light", "notty", a JSON style path, or "" for auto detection).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	if stylePath == "" {
		stylePath = "auto"
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	pluginDirUnavailableIssue = &Issue{
		id: PluginDirUnavailableId,
		mdMsg: `
# The plugin directory could not be prepared!

plugstack creates ` + "`<home>/plugins`" + ` on start-up and could not do so.

## Things you can try:
- Check that the home directory is writable
- Point plugstack at another home:
~~~
$ plugstack --home /path/to/home plugins list
~~~
- Or start without plugins:
~~~
$ plugstack --safe-mode plugins list
~~~`,
	}

	pluginScanFailedIssue = &Issue{
		id: PluginScanFailedId,
		mdMsg: `
# The plugin directory could not be listed!

The directory exists but its entries could not be read.

## Things you can try:
- Check the directory permissions
- Make sure ` + "`<home>/plugins`" + ` is a directory and not a file`,
	}

	digestUnavailableIssue = &Issue{
		id: DigestUnavailableId,
		mdMsg: `
# The fingerprint digest is unavailable!

The binary was built without the hash used for plugin fingerprints.
This is a build problem, not a configuration problem.

## Things you can try:
- Reinstall plugstack from an official release`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the configuration!

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- A suffix containing a path separator
- Module and docs suffixes that are equal

## Things you can try:
- Print the effective configuration:
~~~
$ plugstack config show
~~~
- Write a fresh default file:
~~~
$ plugstack config init
~~~

## Example configuration:
~~~cue
plugins: {
	enabled: true
	suffix: ".zip"
	docs_suffix: "-docs.zip"
}
~~~`,
	}

	moduleCompositionFailedIssue = &Issue{
		id: ModuleCompositionFailedId,
		mdMsg: `
# Some plugins could not be composed!

The listed modules were skipped or partially exported. Every other module
is active.

## Things you can try:
- Check that each listed archive is a valid ZIP file
- Re-download the archive
- Remove stale files from ` + "`<home>/export`" + ` if an export keeps failing`,
	}

	resourceNotFoundIssue = &Issue{
		id: ResourceNotFoundId,
		mdMsg: `
# Resource not found!

No active module and no host resource provides that name.

## Things you can try:
- List the active plugins:
~~~
$ plugstack plugins list
~~~
- Resource names are slash separated and relative to the archive root`,
	}

	docsNotFoundIssue = &Issue{
		id: DocsNotFoundId,
		mdMsg: `
# No documentation archive found!

Documentation archives are named ` + "`<artifact>-<version>-docs.zip`" + `
and live next to the module archives.

## Things you can try:
- List the documentation archives:
~~~
$ plugstack plugins list --docs
~~~`,
	}

	bootstrapFailedIssue = &Issue{
		id: BootstrapFailedId,
		mdMsg: `
# A bootstrap script failed!

Bootstrap scripts run in the built-in shell interpreter.

## Things you can try:
- Print the aggregated bootstrap code:
~~~
$ plugstack bootstrap
~~~
- Start without plugins to rule them out:
~~~
$ plugstack --safe-mode bootstrap --run
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Things you can try:
- Check file and directory permissions below the home directory
- Run plugstack with a home directory you own`,
	}

	issues = map[Id]*Issue{
		pluginDirUnavailableIssue.Id():    pluginDirUnavailableIssue,
		pluginScanFailedIssue.Id():        pluginScanFailedIssue,
		digestUnavailableIssue.Id():       digestUnavailableIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		moduleCompositionFailedIssue.Id(): moduleCompositionFailedIssue,
		resourceNotFoundIssue.Id():        resourceNotFoundIssue,
		docsNotFoundIssue.Id():            docsNotFoundIssue,
		bootstrapFailedIssue.Id():         bootstrapFailedIssue,
		permissionDeniedIssue.Id():        permissionDeniedIssue,
	}
)

// Values returns every catalog issue ordered by id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int { return int(a.id - b.id) })
}

// Get returns the catalog issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
