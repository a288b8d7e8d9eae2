package main

import (
	_ "embed"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mcpkg/mcpkg"
)

//go:embed manifest.toml
var manifestTOML []byte

var logLevel string

var rootCmd = &cobra.Command{
	Use:           "mcpkg",
	Short:         "MCP servers for Windows package management and developer utilities",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (trace, debug, info, warn, error)")
	rootCmd.AddCommand(chocoCmd, wingetCmd, devkitCmd)
}

// serve wires a deployment's registry into a protocol server and runs
// it over stdio until the stream closes or the process is signalled.
func serve(cmd *cobra.Command, serverName string, registry mcpkg.Registry, logger *logrus.Logger) error {
	manifest, err := mcpkg.LoadManifest(manifestTOML)
	if err != nil {
		return err
	}

	cfg, err := mcpkg.NewConfig(
		mcpkg.WithServerName(serverName),
		mcpkg.WithServerVersion(manifest.Project.Version),
		mcpkg.WithRegistry(registry),
		mcpkg.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to build server config: %w", err)
	}

	server, err := mcpkg.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.ServeStdio(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
