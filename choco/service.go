// Package choco exposes Chocolatey package management as MCP tools:
// a CLI adapter service around the choco binary and the controller
// registry served by the Chocolatey deployment.
package choco

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mcpkg/mcpkg"
	"github.com/mcpkg/mcpkg/internal/shell"
)

// tls12Protocol is the SecurityProtocol flag forced before downloading
// the Chocolatey install script on hosts with legacy defaults.
const tls12Protocol = 3072

// ErrNotInstalled is raised when the choco binary is absent from PATH.
// The registry recovers it into a bootstrap hint; every other domain
// error re-raises.
var ErrNotInstalled = mcpkg.NewDomainError("Chocolatey is not installed or not available in PATH")

// NewCommandError creates the domain error for a Chocolatey command
// that executed but failed.
func NewCommandError(format string, args ...any) *mcpkg.DomainError {
	return mcpkg.NewDomainError(format, args...)
}

var installedPackagePattern = regexp.MustCompile(`^[a-zA-Z0-9.-]+\s+[\d.]+$`)

// Service is the Chocolatey CLI adapter. It is stateless; conflicting
// package operations are serialized by Chocolatey itself.
type Service struct {
	runner shell.Runner
	logger *logrus.Logger
}

// NewService creates a Service backed by the real choco binary.
func NewService(logger *logrus.Logger) *Service {
	return NewServiceWithRunner(shell.ExecRunner{}, logger)
}

// NewServiceWithRunner creates a Service with a custom command runner.
func NewServiceWithRunner(runner shell.Runner, logger *logrus.Logger) *Service {
	return &Service{runner: runner, logger: logger}
}

func (s *Service) validateChocoCommand() error {
	if _, err := s.runner.LookPath("choco"); err != nil {
		s.logger.Error("Chocolatey (choco) command is not available in PATH")
		return ErrNotInstalled
	}
	return nil
}

func (s *Service) runChocoCommand(ctx context.Context, args ...string) (string, error) {
	if err := s.validateChocoCommand(); err != nil {
		return "", err
	}
	if len(args) == 0 {
		return "", NewCommandError("No command arguments provided")
	}

	s.logger.WithField("args", args).Debug("Running Chocolatey command")
	output, err := s.runner.Output(ctx, "choco", args...)
	if err != nil {
		s.logger.WithField("error", err).Error("Failed to run Chocolatey command")
		return "", NewCommandError("Failed to run Chocolatey command: %v", err)
	}
	return output, nil
}

// runElevatedChocoCommand runs a choco command with administrator
// privileges through a PowerShell Start-Process prompt. The command
// runs without captured output; success is the exit status.
func (s *Service) runElevatedChocoCommand(ctx context.Context, command string) (bool, error) {
	if strings.TrimSpace(command) == "" {
		return false, NewCommandError("Empty command provided")
	}
	if err := s.validateChocoCommand(); err != nil {
		return false, err
	}

	s.logger.WithField("command", command).Info("Running elevated Chocolatey command")
	script := fmt.Sprintf(`Start-Process -FilePath "choco" -ArgumentList "%s" -Verb RunAs -Wait`, command)
	status, err := s.runner.Status(ctx, "powershell.exe", "-Command", script)
	if err != nil {
		s.logger.WithField("error", err).Error("Failed to run elevated Chocolatey command")
		return false, NewCommandError("Failed to run elevated Chocolatey command: %v", err)
	}
	return status == 0, nil
}

// InstallChocolatey installs the Chocolatey package manager if it is
// not already present, via the community install script in an elevated
// PowerShell.
func (s *Service) InstallChocolatey(ctx context.Context) (bool, error) {
	if _, err := s.runner.LookPath("choco"); err == nil {
		s.logger.Info("Chocolatey is already installed")
		return true, nil
	}

	s.logger.Info("Installing Chocolatey...")
	installCommand := fmt.Sprintf(
		"[System.Net.ServicePointManager]::SecurityProtocol = "+
			"[System.Net.ServicePointManager]::SecurityProtocol -bor %d; "+
			"iex ((New-Object System.Net.WebClient).DownloadString('https://community.chocolatey.org/install.ps1'))",
		tls12Protocol,
	)
	elevatedCommand := fmt.Sprintf(
		`Start-Process -FilePath "powershell.exe" -ArgumentList "-Command %s" -Verb RunAs -Wait`,
		installCommand,
	)

	status, err := s.runner.Status(ctx, "powershell.exe", "-Command", elevatedCommand)
	if err != nil {
		s.logger.WithField("error", err).Error("Error installing Chocolatey")
		return false, NewCommandError("Failed to install Chocolatey: %v", err)
	}
	if status != 0 {
		s.logger.Error("Failed to install Chocolatey: Installation returned non-zero status code")
		return false, nil
	}

	s.logger.Info("Chocolatey installation completed successfully")
	return true, nil
}

// ListInstalledPackages returns installed packages in "name (version)"
// format.
func (s *Service) ListInstalledPackages(ctx context.Context) ([]string, error) {
	s.logger.Info("Retrieving list of installed packages")
	output, err := s.runChocoCommand(ctx, "list")
	if err != nil {
		return nil, err
	}
	if output == "" || strings.Contains(output, "No packages found.") {
		s.logger.Debug("No packages found")
		return []string{}, nil
	}

	var packages []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !installedPackagePattern.MatchString(line) {
			continue
		}
		fields := strings.Fields(line)
		packages = append(packages, fmt.Sprintf("%s (%s)", fields[0], fields[1]))
	}

	s.logger.WithField("count", len(packages)).Debug("Found installed packages")
	return packages, nil
}

// ListSources returns the configured Chocolatey source names.
func (s *Service) ListSources(ctx context.Context) ([]string, error) {
	s.logger.Info("Retrieving list of Chocolatey sources")
	output, err := s.runChocoCommand(ctx, "source", "list")
	if err != nil {
		return nil, err
	}
	if output == "" {
		s.logger.Debug("No sources found")
		return []string{}, nil
	}

	lines := strings.Split(output, "\n")
	var sources []string
	// Skip the first entry and the Chocolatey header lines.
	for _, line := range lines[1:] {
		if line == "" || strings.HasPrefix(line, "Chocolatey") {
			continue
		}
		parts := strings.Split(line, "|")
		// Must have all three parts: name, URL, and priority.
		if len(parts) >= 3 {
			sources = append(sources, strings.TrimSpace(parts[0]))
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
	command := fmt.Sprintf("install -y %s", packageName)
	if version != "" {
		command += fmt.Sprintf(" --version=%s", version)
	}
	return s.runElevatedChocoCommand(ctx, command)
}

// UninstallPackage removes an installed package.
func (s *Service) UninstallPackage(ctx context.Context, packageName string) (bool, error) {
	if strings.TrimSpace(packageName) == "" {
		return false, NewCommandError("Package name cannot be empty")
	}

	s.logger.WithField("package", packageName).Info("Uninstalling package")
	return s.runElevatedChocoCommand(ctx, fmt.Sprintf("uninstall -y %s", packageName))
}

// UpgradePackage upgrades a package to the latest or a specific version.
func (s *Service) UpgradePackage(ctx context.Context, packageName, version string) (bool, error) {
	if strings.TrimSpace(packageName) == "" {
		return false, NewCommandError("Package name cannot be empty")
	}

	s.logger.WithFields(logrus.Fields{"package": packageName, "version": version}).Info("Upgrading package")
	command := fmt.Sprintf("upgrade -y %s", packageName)
	if version != "" {
		command += fmt.Sprintf(" --version=%s", version)
	}
	return s.runElevatedChocoCommand(ctx, command)
}

// ListAvailablePackages searches the configured sources and returns
// matches in "name (version)" format.
func (s *Service) ListAvailablePackages(ctx context.Context, searchTerm string) ([]string, error) {
	s.logger.WithField("term", searchTerm).Info("Searching for available packages")
	args := []string{"search", "--limit-output"}
	if searchTerm != "" {
		args = append(args, searchTerm)
	}

	output, err := s.runChocoCommand(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		s.logger.Debug("No packages found")
		return []string{}, nil
	}

	var packages []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Package info is returned as name|version.
		parts := strings.Split(line, "|")
		if len(parts) >= 2 {
			packages = append(packages, fmt.Sprintf("%s (%s)", parts[0], parts[1]))
		}
	}

	s.logger.WithField("count", len(packages)).Debug("Found available packages")
	return packages, nil
}

// AddSource registers a package source, optionally authenticated and
// prioritized.
func (s *Service) AddSource(ctx context.Context, sourceName, sourceURL, username, password string, priority *int) (bool, error) {
	if strings.TrimSpace(sourceName) == "" {
		return false, NewCommandError("Source name cannot be empty")
	}
	if strings.TrimSpace(sourceURL) == "" {
		return false, NewCommandError("Source URL cannot be empty")
	}

	s.logger.WithFields(logrus.Fields{"source": sourceName, "url": sourceURL}).Info("Adding source")
	command := fmt.Sprintf("source add --name=%s --source=%s", sourceName, sourceURL)
	if username != "" {
		command += fmt.Sprintf(" --user=%s", username)
	}
	if password != "" {
		command += fmt.Sprintf(" --password=%s", password)
	}
	if priority != nil {
		command += fmt.Sprintf(" --priority=%d", *priority)
	}
	return s.runElevatedChocoCommand(ctx, command)
}

// RemoveSource removes a configured package source.
func (s *Service) RemoveSource(ctx context.Context, sourceName string) (bool, error) {
	if strings.TrimSpace(sourceName) == "" {
		return false, NewCommandError("Source name cannot be empty")
	}

	s.logger.WithField("source", sourceName).Info("Removing source")
	return s.runElevatedChocoCommand(ctx, fmt.Sprintf("source remove --name=%s", sourceName))
}
