// SPDX-License-Identifier: MPL-2.0

package main

import cmd "nimbus-cli/cmd/nimbus"

func main() {
	cmd.Execute()
}
