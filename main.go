// SPDX-License-Identifier: MPL-2.0

package main

import cmd "foldrun-cli/cmd/foldrun"

func main() {
	cmd.Execute()
}
