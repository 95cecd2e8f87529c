// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/plugstack/plugstack/cmd/plugstack"

func main() {
	cmd.Execute()
}
