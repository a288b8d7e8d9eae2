// Package winget exposes Winget package management as MCP tools: a CLI
// adapter service around the winget binary and the controller registry
// served by the Winget deployment.
package winget

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mcpkg/mcpkg"
	"github.com/mcpkg/mcpkg/internal/shell"
)

// defaultSourceType is applied when wg_add_source omits a type.
const defaultSourceType = "Microsoft.Rest"

// ErrNotInstalled is raised when the winget binary is absent from PATH.
var ErrNotInstalled = mcpkg.NewDomainError("Winget is not installed or not available in PATH")

// NewCommandError creates the domain error for a Winget command that
// executed but failed.
func NewCommandError(format string, args ...any) *mcpkg.DomainError {
	return mcpkg.NewDomainError(format, args...)
}

// Service is the Winget CLI adapter. Stateless; Winget serializes
// conflicting operations itself.
type Service struct {
	runner shell.Runner
	logger *logrus.Logger
}

// NewService creates a Service backed by the real winget binary.
func NewService(logger *logrus.Logger) *Service {
	return NewServiceWithRunner(shell.ExecRunner{}, logger)
}

// NewServiceWithRunner creates a Service with a custom command runner.
func NewServiceWithRunner(runner shell.Runner, logger *logrus.Logger) *Service {
	return &Service{runner: runner, logger: logger}
}

func (s *Service) validateWingetCommand() error {
	if _, err := s.runner.LookPath("winget"); err != nil {
		s.logger.Error("Winget command is not available in PATH")
		return ErrNotInstalled
	}
	return nil
}

func (s *Service) runWingetCommand(ctx context.Context, args ...string) (string, error) {
	if err := s.validateWingetCommand(); err != nil {
		return "", err
	}
	if len(args) == 0 {
		return "", NewCommandError("No command arguments provided")
	}

	s.logger.WithField("args", args).Debug("Running Winget command")
	output, err := s.runner.Output(ctx, "winget", args...)
	if err != nil {
		s.logger.WithField("error", err).Error("Failed to run Winget command")
		return "", NewCommandError("Failed to run Winget command: %v", err)
	}
	return output, nil
}

// runElevatedWingetCommand runs a winget command with administrator
// privileges through a PowerShell Start-Process prompt.
func (s *Service) runElevatedWingetCommand(ctx context.Context, args ...string) error {
	if err := s.validateWingetCommand(); err != nil {
		return err
	}
	if len(args) == 0 {
		return NewCommandError("No command arguments provided")
	}

	s.logger.WithField("args", args).Debug("Running elevated Winget command")
	// Arguments containing spaces need escaping through the PowerShell
	// string into Start-Process.
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.Contains(arg, " ") {
			arg = fmt.Sprintf(`"""%s"""`, arg)
		}
		quoted = append(quoted, arg)
	}
	script := fmt.Sprintf(`Start-Process winget -ArgumentList "%s" -Verb runas -Wait`, strings.Join(quoted, " "))

	if _, err := s.runner.Output(ctx, "powershell.exe", "-NoProfile", "-NonInteractive", "-Command", script); err != nil {
		s.logger.WithField("error", err).Error("Failed to run elevated Winget command")
		return NewCommandError("Failed to run elevated Winget command: %v", err)
	}
	return nil
}

// isNoiseLine reports whether a winget output line is a progress
// spinner or table border rather than package data.
func isNoiseLine(line string) bool {
	for _, prefix := range []string{"|", "/", "â", `\`, " "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// ListInstalledPackages returns the raw package rows from winget list.
func (s *Service) ListInstalledPackages(ctx context.Context) ([]string, error) {
	s.logger.Info("Retrieving list of installed packages")
	output, err := s.runWingetCommand(ctx, "list")
	if err != nil {
		return nil, err
	}
	if output == "" {
		s.logger.Debug("No packages found")
		return []string{}, nil
	}

	var packages []string
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !isNoiseLine(line) {
			packages = append(packages, trimmed)
		}
	}

	s.logger.WithField("count", len(packages)).Debug("Found packages")
	return packages, nil
}

// ListSources returns the configured Winget source rows.
func (s *Service) ListSources(ctx context.Context) ([]string, error) {
	s.logger.Info("Retrieving list of Winget sources")
	output, err := s.runWingetCommand(ctx, "source", "list")
	if err != nil {
		return nil, err
	}
	if output == "" {
		s.logger.Debug("No sources found")
		return []string{}, nil
	}

	var sources []string
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			sources = append(sources, trimmed)
		}
	}

	s.logger.WithField("count", len(sources)).Debug("Found sources")
	return sources, nil
}

// InstallPackage installs a package, optionally pinned to a version.
func (s *Service) InstallPackage(ctx context.Context, packageName, version string) (bool, error) {
	if strings.TrimSpace(packageName) == "" {
		return false, NewCommandError("Package name cannot be empty")
	}

	s.logger.WithFields(logrus.Fields{"package": packageName, "version": version}).Info("Installing package")
	args := []string{"install", packageName}
	if version != "" {
		args = append(args, "--version", version)
	}
	if _, err := s.runWingetCommand(ctx, args...); err != nil {
		return false, err
	}
	s.logger.WithField("package", packageName).Info("Package installed successfully")
	return true, nil
}

// UninstallPackage removes an installed package.
func (s *Service) UninstallPackage(ctx context.Context, packageName string) (bool, error) {
	if strings.TrimSpace(packageName) == "" {
		return false, NewCommandError("Package name cannot be empty")
	}

	s.logger.WithField("package", packageName).Info("Uninstalling package")
	if _, err := s.runWingetCommand(ctx, "uninstall", packageName); err != nil {
		return false, err
	}
	s.logger.WithField("package", packageName).Info("Package uninstalled successfully")
	return true, nil
}

// UpgradePackage upgrades a package to the latest or a specific version.
func (s *Service) UpgradePackage(ctx context.Context, packageName, version string) (bool, error) {
	if strings.TrimSpace(packageName) == "" {
		return false, NewCommandError("Package name cannot be empty")
	}

	s.logger.WithFields(logrus.Fields{"package": packageName, "version": version}).Info("Upgrading package")
	args := []string{"upgrade", packageName}
	if version != "" {
		args = append(args, "--version", version)
	}
	if _, err := s.runWingetCommand(ctx, args...); err != nil {
		return false, err
	}
	s.logger.WithField("package", packageName).Info("Package upgraded successfully")
	return true, nil
}

// ListAvailablePackages searches the configured sources and returns the
// matching raw rows.
func (s *Service) ListAvailablePackages(ctx context.Context, searchTerm string) ([]string, error) {
	s.logger.WithField("term", searchTerm).Info("Searching for available packages")
	args := []string{"search"}
	if searchTerm != "" {
		args = append(args, searchTerm)
	}

	output, err := s.runWingetCommand(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		s.logger.Debug("No packages found")
		return []string{}, nil
	}

	var packages []string
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isNoiseLine(line) || strings.HasPrefix(trimmed, "No package found matching") {
			continue
		}
		packages = append(packages, trimmed)
	}

	s.logger.WithField("count", len(packages)).Debug("Found available packages")
	return packages, nil
}

// AddSource registers a package source. An empty sourceType defaults to
// Microsoft.Rest.
func (s *Service) AddSource(ctx context.Context, sourceName, sourceURL, sourceType string) (bool, error) {
	if strings.TrimSpace(sourceName) == "" {
		return false, NewCommandError("Source name cannot be empty")
	}
	if strings.TrimSpace(sourceURL) == "" {
		return false, NewCommandError("Source URL cannot be empty")
	}
	if sourceType == "" {
		sourceType = defaultSourceType
	}

	s.logger.WithFields(logrus.Fields{
		"source": sourceName,
		"url":    sourceURL,
		"type":   sourceType,
	}).Info("Adding source")
	err := s.runElevatedWingetCommand(ctx,
		"source", "add",
		"--name", sourceName,
		"--arg", sourceURL,
		"--type", sourceType,
	)
	if err != nil {
		return false, err
	}
	s.logger.WithField("source", sourceName).Info("Source added successfully")
	return true, nil
}

// RemoveSource removes a configured package source.
func (s *Service) RemoveSource(ctx context.Context, sourceName string) (bool, error) {
	if strings.TrimSpace(sourceName) == "" {
		return false, NewCommandError("Source name cannot be empty")
	}

	s.logger.WithField("source", sourceName).Info("Removing source")
	if err := s.runElevatedWingetCommand(ctx, "source", "remove", "--name", sourceName); err != nil {
		return false, err
	}
	s.logger.WithField("source", sourceName).Info("Source removed successfully")
	return true, nil
}
