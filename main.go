// SPDX-License-Identifier: MPL-2.0

// convoke is a smart-contract ABI codec and sandboxed invocation engine.
package main

import (
	cmd "convoke/cmd/convoke"
)

func main() {
	cmd.Execute()
}
