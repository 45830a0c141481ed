// SPDX-License-Identifier: MPL-2.0

// Command jaci is an interactive console for hierarchical commands.
package main

import cmd "github.com/ykrasik/jaci-sub001/cmd/jaci"

func main() {
	cmd.Execute()
}
