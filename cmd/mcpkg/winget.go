package main

import (
	"github.com/spf13/cobra"

	"github.com/mcpkg/mcpkg"
	"github.com/mcpkg/mcpkg/winget"
)

var wingetCmd = &cobra.Command{
	Use:   "winget",
	Short: "Serve Winget package management tools over stdio",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger, err := mcpkg.NewLogger(logLevel)
		if err != nil {
			return err
		}
		registry := winget.NewRegistry(winget.NewService(logger))
		return serve(cmd, "Winget MCP Server", registry, logger)
	},
}
