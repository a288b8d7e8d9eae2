package main

import (
	"github.com/spf13/cobra"

	"github.com/mcpkg/mcpkg"
	"github.com/mcpkg/mcpkg/devkit"
)

var devkitCmd = &cobra.Command{
	Use:   "devkit",
	Short: "Serve developer utility tools over stdio",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger, err := mcpkg.NewLogger(logLevel)
		if err != nil {
			return err
		}
		return serve(cmd, "Devkit MCP Server", devkit.NewRegistry(), logger)
	},
}
