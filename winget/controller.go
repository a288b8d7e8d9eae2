package winget

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcpkg/mcpkg"
)

func stringArg(arguments map[string]any, key string) string {
	value, _ := arguments[key].(string)
	return value
}

// ListInstalledPackagesController lists all installed Winget packages.
type ListInstalledPackagesController struct {
	mcpkg.BaseController
	service *Service
}

func NewListInstalledPackagesController(service *Service) *ListInstalledPackagesController {
	return &ListInstalledPackagesController{
		BaseController: mcpkg.BaseController{
			Name:        "wg_list_installed_packages",
			Description: "Lists all installed Winget packages.",
			InputSchema: mcpkg.EmptyObjectSchema(),
		},
		service: service,
	}
}

func (c *ListInstalledPackagesController) Execute(ctx context.Context, _ string, _ map[string]any) ([]mcp.Content, error) {
	packages, err := c.service.ListInstalledPackages(ctx)
	if err != nil {
		return nil, err
	}
	return mcpkg.TextContent(strings.Join(packages, "\n")), nil
}

// ListSourcesController lists all Winget sources.
type ListSourcesController struct {
	mcpkg.BaseController
	service *Service
}

func NewListSourcesController(service *Service) *ListSourcesController {
	return &ListSourcesController{
		BaseController: mcpkg.BaseController{
			Name:        "wg_list_sources",
			Description: "Lists all Winget sources.",
			InputSchema: mcpkg.EmptyObjectSchema(),
		},
		service: service,
	}
}

func (c *ListSourcesController) Execute(ctx context.Context, _ string, _ map[string]any) ([]mcp.Content, error) {
	sources, err := c.service.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	return mcpkg.TextContent(strings.Join(sources, "\n")), nil
}

// InstallPackageController installs a Winget package.
type InstallPackageController struct {
	mcpkg.BaseController
	service *Service
}

func NewInstallPackageController(service *Service) *InstallPackageController {
	return &InstallPackageController{
		BaseController: mcpkg.BaseController{
			Name:        "wg_install_package",
			Description: "Installs a Winget package.",
			InputSchema: mcpkg.CreateObjectSchema(map[string]string{
				"package_name": "The name of the package to install.",
				"version":      "Optional specific version to install",
			}, []string{"package_name"}),
		},
		service: service,
	}
}

func (c *InstallPackageController) Execute(ctx context.Context, _ string, arguments map[string]any) ([]mcp.Content, error) {
	packageName := stringArg(arguments, "package_name")
	version := stringArg(arguments, "version")
	if packageName == "" {
		return nil, mcpkg.NewValidationError("Package name is required.")
	}

	ok, err := c.service.InstallPackage(ctx, packageName, version)
	if err != nil {
		return nil, err
	}
	versionText := ""
	if version != "" {
		versionText = fmt.Sprintf(" version %s", version)
	}
	status := "installation failed."
	if ok {
		status = "installed"
	}
	return mcpkg.TextContent(fmt.Sprintf("%s%s %s", packageName, versionText, status)), nil
}

// UninstallPackageController uninstalls a Winget package.
type UninstallPackageController struct {
	mcpkg.BaseController
	service *Service
}

func NewUninstallPackageController(service *Service) *UninstallPackageController {
	return &UninstallPackageController{
		BaseController: mcpkg.BaseController{
			Name:        "wg_uninstall_package",
			Description: "Uninstalls a Winget package.",
			InputSchema: mcpkg.CreateObjectSchema(map[string]string{
				"package_name": "The name of the package to uninstall.",
			}, []string{"package_name"}),
		},
		service: service,
	}
}

func (c *UninstallPackageController) Execute(ctx context.Context, _ string, arguments map[string]any) ([]mcp.Content, error) {
	packageName := stringArg(arguments, "package_name")
	if packageName == "" {
		return nil, mcpkg.NewValidationError("Package name is required.")
	}

	ok, err := c.service.UninstallPackage(ctx, packageName)
	if err != nil {
		return nil, err
	}
	if ok {
		return mcpkg.TextContent(fmt.Sprintf("%s uninstalled", packageName)), nil
	}
	return mcpkg.TextContent(fmt.Sprintf("Failed to uninstall %s.", packageName)), nil
}

// ListAvailablePackagesController searches available Winget packages.
type ListAvailablePackagesController struct {
	mcpkg.BaseController
	service *Service
}

func NewListAvailablePackagesController(service *Service) *ListAvailablePackagesController {
	return &ListAvailablePackagesController{
		BaseController: mcpkg.BaseController{
			Name:        "wg_list_available_packages",
			Description: "Lists available Winget packages filtered by search term.",
			InputSchema: mcpkg.CreateObjectSchema(map[string]string{
				"search_term": "Search term to filter packages",
			}, []string{"search_term"}),
		},
		service: service,
	}
}

func (c *ListAvailablePackagesController) Execute(ctx context.Context, _ string, arguments map[string]any) ([]mcp.Content, error) {
	searchTerm := stringArg(arguments, "search_term")
	if searchTerm == "" {
		return nil, mcpkg.NewValidationError("Search term is required.")
	}

	packages, err := c.service.ListAvailablePackages(ctx, searchTerm)
	if err != nil {
		return nil, err
	}
	return mcpkg.TextContent(strings.Join(packages, "\n")), nil
}

// UpgradePackageController upgrades a Winget package.
type UpgradePackageController struct {
	mcpkg.BaseController
	service *Service
}

func NewUpgradePackageController(service *Service) *UpgradePackageController {
	return &UpgradePackageController{
		BaseController: mcpkg.BaseController{
			Name:        "wg_upgrade_package",
			Description: "Upgrades a Winget package.",
			InputSchema: mcpkg.CreateObjectSchema(map[string]string{
				"package_name": "The name of the package to upgrade.",
				"version":      "Optional specific version to upgrade to",
			}, []string{"package_name"}),
		},
		service: service,
	}
}

func (c *UpgradePackageController) Execute(ctx context.Context, _ string, arguments map[string]any) ([]mcp.Content, error) {
	packageName := stringArg(arguments, "package_name")
	version := stringArg(arguments, "version")
	if packageName == "" {
		return nil, mcpkg.NewValidationError("Package name is required.")
	}

	ok, err := c.service.UpgradePackage(ctx, packageName, version)
	if err != nil {
		return nil, err
	}
	versionText := ""
	if version != "" {
		versionText = fmt.Sprintf(" version %s", version)
	}
	status := "upgrade failed."
	if ok {
		status = "upgraded successfully"
	}
	return mcpkg.TextContent(fmt.Sprintf("%s%s %s", packageName, versionText, status)), nil
}

// AddSourceController adds a Winget source repository.
type AddSourceController struct {
	mcpkg.BaseController
	service *Service
}

func NewAddSourceController(service *Service) *AddSourceController {
	return &AddSourceController{
		BaseController: mcpkg.BaseController{
			Name:        "wg_add_source",
			Description: "Adds a new Winget source repository.",
			InputSchema: mcpkg.CreateObjectSchema(map[string]string{
				"source_name": "The name of the source to add.",
				"source_url":  "URL of the package source.",
				"type":        "The type of the package source (optional).",
			}, []string{"source_name", "source_url"}),
		},
		service: service,
	}
}

func (c *AddSourceController) Execute(ctx context.Context, _ string, arguments map[string]any) ([]mcp.Content, error) {
	sourceName := stringArg(arguments, "source_name")
	sourceURL := stringArg(arguments, "source_url")
	sourceType := stringArg(arguments, "type")

	if sourceName == "" {
		return nil, mcpkg.NewValidationError("Source name is required.")
	}
	if sourceURL == "" {
		return nil, mcpkg.NewValidationError("Source URL is required.")
	}

	ok, err := c.service.AddSource(ctx, sourceName, sourceURL, sourceType)
	if err != nil {
		return nil, err
	}
	if ok {
		return mcpkg.TextContent(fmt.Sprintf("Source '%s' added successfully", sourceName)), nil
	}
	return mcpkg.TextContent(fmt.Sprintf("Failed to add source '%s'", sourceName)), nil
}

// RemoveSourceController removes a Winget source repository.
type RemoveSourceController struct {
	mcpkg.BaseController
	service *Service
}

func NewRemoveSourceController(service *Service) *RemoveSourceController {
	return &RemoveSourceController{
		BaseController: mcpkg.BaseController{
			Name:        "wg_remove_source",
			Description: "Removes a Winget source repository.",
			InputSchema: mcpkg.CreateObjectSchema(map[string]string{
				"source_name": "The name of the source to remove.",
			}, []string{"source_name"}),
		},
		service: service,
	}
}

func (c *RemoveSourceController) Execute(ctx context.Context, _ string, arguments map[string]any) ([]mcp.Content, error) {
	sourceName := stringArg(arguments, "source_name")
	if sourceName == "" {
		return nil, mcpkg.NewValidationError("Source name is required.")
	}

	ok, err := c.service.RemoveSource(ctx, sourceName)
	if err != nil {
		return nil, err
	}
	if ok {
		return mcpkg.TextContent(fmt.Sprintf("Source '%s' removed successfully", sourceName)), nil
	}
	return mcpkg.TextContent(fmt.Sprintf("Failed to remove source '%s'", sourceName)), nil
}

// Registry is the Winget deployment's controller set. A missing winget
// binary recovers into an install hint; every other domain error
// re-raises.
type Registry struct {
	controllers []mcpkg.Controller
}

// NewRegistry builds the registry in dispatch-priority order.
func NewRegistry(service *Service) *Registry {
	return &Registry{
		controllers: []mcpkg.Controller{
			NewListInstalledPackagesController(service),
			NewListSourcesController(service),
			NewInstallPackageController(service),
			NewUninstallPackageController(service),
			NewListAvailablePackagesController(service),
			NewUpgradePackageController(service),
			NewAddSourceController(service),
			NewRemoveSourceController(service),
		},
	}
}

func (r *Registry) Controllers() []mcpkg.Controller {
	return r.controllers
}

func (r *Registry) HandleError(err error, _ mcpkg.Controller, _ string, _ map[string]any) ([]mcp.Content, error) {
	if errors.Is(err, ErrNotInstalled) {
		return mcpkg.TextContent("Winget is not installed. Please run the 'install_winget' command first."), nil
	}
	return nil, err
}
