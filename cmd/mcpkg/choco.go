package main

import (
	"github.com/spf13/cobra"

	"github.com/mcpkg/mcpkg"
	"github.com/mcpkg/mcpkg/choco"
)

var chocoCmd = &cobra.Command{
	Use:   "choco",
	Short: "Serve Chocolatey package management tools over stdio",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger, err := mcpkg.NewLogger(logLevel)
		if err != nil {
			return err
		}
		registry := choco.NewRegistry(choco.NewService(logger))
		return serve(cmd, "Chocolatey MCP Server", registry, logger)
	},
}
