package winget

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpkg/mcpkg"
)

func contentText(t *testing.T, content []mcp.Content) string {
	t.Helper()
	require.Len(t, content, 1)
	text, ok := content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestRegistryToolNames(t *testing.T) {
	registry := NewRegistry(newTestService(&fakeRunner{}))

	want := []string{
		"wg_list_installed_packages",
		"wg_list_sources",
		"wg_install_package",
		"wg_uninstall_package",
		"wg_list_available_packages",
		"wg_upgrade_package",
		"wg_add_source",
		"wg_remove_source",
	}

	controllers := registry.Controllers()
	require.Len(t, controllers, len(want))
	for i, controller := range controllers {
		assert.Equal(t, want[i], controller.Tool().Name)
		assert.True(t, controller.CanExecute(want[i]))
		assert.NotEmpty(t, controller.Tool().Description)
	}
}

func TestHandleErrorNotInstalled(t *testing.T) {
	registry := NewRegistry(newTestService(&fakeRunner{}))

	content, err := registry.HandleError(ErrNotInstalled, nil, "wg_list_sources", nil)
	require.NoError(t, err)
	assert.Equal(t, "Winget is not installed. Please run the 'install_winget' command first.", contentText(t, content))
}

func TestHandleErrorOtherDomainError(t *testing.T) {
	registry := NewRegistry(newTestService(&fakeRunner{}))

	cmdErr := NewCommandError("Failed to run Winget command: exit status 1")
	content, err := registry.HandleError(cmdErr, nil, "wg_list_sources", nil)
	assert.Nil(t, content)
	assert.Equal(t, error(cmdErr), err)
}

func TestInstallPackageController(t *testing.T) {
	controller := NewInstallPackageController(newTestService(&fakeRunner{}))

	content, err := controller.Execute(context.Background(), "wg_install_package", map[string]any{
		"package_name": "Git.Git",
		"version":      "2.44.0",
	})
	require.NoError(t, err)
	assert.Equal(t, "Git.Git version 2.44.0 installed", contentText(t, content))
}

func TestInstallPackageControllerMissingName(t *testing.T) {
	controller := NewInstallPackageController(newTestService(&fakeRunner{}))

	_, err := controller.Execute(context.Background(), "wg_install_package", map[string]any{})
	var validationErr *mcpkg.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Package name is required.", validationErr.Message)
}

func TestAddSourceControllerDefaultsType(t *testing.T) {
	runner := &fakeRunner{}
	controller := NewAddSourceController(newTestService(runner))

	content, err := controller.Execute(context.Background(), "wg_add_source", map[string]any{
		"source_name": "corp",
		"source_url":  "https://nuget.corp.local/api/v2/",
	})
	require.NoError(t, err)
	assert.Equal(t, "Source 'corp' added successfully", contentText(t, content))
	assert.Contains(t, runner.calls[0], "--type Microsoft.Rest")
}

func TestAddSourceControllerMissingURL(t *testing.T) {
	controller := NewAddSourceController(newTestService(&fakeRunner{}))

	_, err := controller.Execute(context.Background(), "wg_add_source", map[string]any{
		"source_name": "corp",
	})
	var validationErr *mcpkg.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Source URL is required.", validationErr.Message)
}

func TestDispatchThroughExecutor(t *testing.T) {
	runner := &fakeRunner{lookPathErr: errors.New("executable file not found")}
	registry := NewRegistry(newTestService(runner))

	cfg, err := mcpkg.NewConfig(
		mcpkg.WithServerName("Winget MCP Server"),
		mcpkg.WithRegistry(registry),
	)
	require.NoError(t, err)

	content, err := mcpkg.ExecuteTool(context.Background(), "wg_list_installed_packages", map[string]any{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Winget is not installed. Please run the 'install_winget' command first.", contentText(t, content))
}
