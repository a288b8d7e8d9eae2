// mcpkg serves Windows package management and developer utilities as
// MCP tools over stdio. Each subcommand starts one deployment: choco,
// winget, or devkit.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
