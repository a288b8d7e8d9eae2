package choco

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpkg/mcpkg"
)

// fakeRunner scripts command results by the joined command line and
// records every invocation.
type fakeRunner struct {
	lookPathErr error
	outputs     map[string]string
	outputErr   error
	status      int
	statusErr   error
	calls       []string
}

func (r *fakeRunner) LookPath(file string) (string, error) {
	if r.lookPathErr != nil {
		return "", r.lookPathErr
	}
	return "/fake/bin/" + file, nil
}

func (r *fakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	call := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, call)
	if r.outputErr != nil {
		return "", r.outputErr
	}
	return r.outputs[call], nil
}

func (r *fakeRunner) Status(_ context.Context, name string, args ...string) (int, error) {
	r.calls = append(r.calls, strings.Join(append([]string{name}, args...), " "))
	return r.status, r.statusErr
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(runner *fakeRunner) *Service {
	return NewServiceWithRunner(runner, testLogger())
}

func TestListInstalledPackages(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"choco list": "Chocolatey v2.2.2\ngit 2.44.0\n7zip.install 23.1.0\n\n2 packages installed.",
	}}
	service := newTestService(runner)

	packages, err := service.ListInstalledPackages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"git (2.44.0)", "7zip.install (23.1.0)"}, packages)
}

func TestListInstalledPackagesEmpty(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"choco list": "No packages found.",
	}}
	service := newTestService(runner)

	packages, err := service.ListInstalledPackages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, packages)
}

func TestListInstalledPackagesNotInstalled(t *testing.T) {
	runner := &fakeRunner{lookPathErr: errors.New("executable file not found")}
	service := newTestService(runner)

	_, err := service.ListInstalledPackages(context.Background())
	assert.ErrorIs(t, err, ErrNotInstalled)
	assert.True(t, mcpkg.IsDomainError(err))
}

func TestListInstalledPackagesCommandFailure(t *testing.T) {
	runner := &fakeRunner{outputErr: errors.New("choco exited with status 1: access denied")}
	service := newTestService(runner)

	_, err := service.ListInstalledPackages(context.Background())
	require.Error(t, err)
	assert.True(t, mcpkg.IsDomainError(err))
	assert.Contains(t, err.Error(), "Failed to run Chocolatey command")
}

func TestListSources(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"choco source list": strings.Join([]string{
			"Chocolatey v2.2.2",
			"chocolatey - https://community.chocolatey.org/api/v2/ | Priority 0|Bypass Proxy - False",
			"internal - https://nuget.corp.local/api/v2/ | Priority 1|Bypass Proxy - False",
			"Chocolatey Licensed feed disabled.",
		}, "\n"),
	}}
	service := newTestService(runner)

	sources, err := service.ListSources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"chocolatey - https://community.chocolatey.org/api/v2/", "internal - https://nuget.corp.local/api/v2/"}, sources)
}

func TestListAvailablePackages(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"choco search --limit-output git": "git|2.44.0\ngit.install|2.44.0\ngitea|1.21.0",
	}}
	service := newTestService(runner)

	packages, err := service.ListAvailablePackages(context.Background(), "git")
	require.NoError(t, err)
	assert.Equal(t, []string{"git (2.44.0)", "git.install (2.44.0)", "gitea (1.21.0)"}, packages)
}

func TestInstallPackage(t *testing.T) {
	runner := &fakeRunner{}
	service := newTestService(runner)

	ok, err := service.InstallPackage(context.Background(), "git", "")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "install -y git")
	assert.Contains(t, runner.calls[0], "-Verb RunAs")
}

func TestInstallPackageWithVersion(t *testing.T) {
	runner := &fakeRunner{}
	service := newTestService(runner)

	ok, err := service.InstallPackage(context.Background(), "git", "2.40.0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, runner.calls[0], "install -y git --version=2.40.0")
}

func TestInstallPackageEmptyName(t *testing.T) {
	service := newTestService(&fakeRunner{})

	ok, err := service.InstallPackage(context.Background(), "  ", "")
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, mcpkg.IsDomainError(err))
	assert.Contains(t, err.Error(), "Package name cannot be empty")
}

func TestInstallPackageElevationDeclined(t *testing.T) {
	runner := &fakeRunner{status: 1}
	service := newTestService(runner)

	ok, err := service.InstallPackage(context.Background(), "git", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUninstallPackage(t *testing.T) {
	runner := &fakeRunner{}
	service := newTestService(runner)

	ok, err := service.UninstallPackage(context.Background(), "git")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, runner.calls[0], "uninstall -y git")
}

func TestUpgradePackageWithVersion(t *testing.T) {
	runner := &fakeRunner{}
	service := newTestService(runner)

	ok, err := service.UpgradePackage(context.Background(), "git", "2.44.0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, runner.calls[0], "upgrade -y git --version=2.44.0")
}

func TestInstallChocolateyAlreadyInstalled(t *testing.T) {
	runner := &fakeRunner{}
	service := newTestService(runner)

	ok, err := service.InstallChocolatey(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, runner.calls, "no install command runs when choco is on PATH")
}

func TestInstallChocolatey(t *testing.T) {
	runner := &fakeRunner{lookPathErr: errors.New("executable file not found")}
	service := newTestService(runner)

	ok, err := service.InstallChocolatey(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "community.chocolatey.org/install.ps1")
	assert.Contains(t, runner.calls[0], "3072")
}

func TestInstallChocolateyFailure(t *testing.T) {
	runner := &fakeRunner{
		lookPathErr: errors.New("executable file not found"),
		status:      1,
	}
	service := newTestService(runner)

	ok, err := service.InstallChocolatey(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddSource(t *testing.T) {
	runner := &fakeRunner{}
	service := newTestService(runner)

	priority := 5
	ok, err := service.AddSource(context.Background(), "internal", "https://nuget.corp.local/api/v2/", "svc", "hunter2", &priority)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, runner.calls[0], "source add --name=internal --source=https://nuget.corp.local/api/v2/ --user=svc --password=hunter2 --priority=5")
}

func TestAddSourceMissingURL(t *testing.T) {
	service := newTestService(&fakeRunner{})

	ok, err := service.AddSource(context.Background(), "internal", "", "", "", nil)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Source URL cannot be empty")
}

func TestRemoveSource(t *testing.T) {
	runner := &fakeRunner{}
	service := newTestService(runner)

	ok, err := service.RemoveSource(context.Background(), "internal")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, runner.calls[0], "source remove --name=internal")
}
