// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"embed"
	"io/fs"
)

// hostSource labels the embedded host layer in diagnostics.
const hostSource = "embedded"

//go:embed host
var hostFiles embed.FS

// HostFS returns the resources built into the binary. They form the host
// layer, probed after every plugin.
func HostFS() fs.FS {
	sub, err := fs.Sub(hostFiles, "host")
	if err != nil {
		panic(err) // "host" is embedded above
	}
	return sub
}
