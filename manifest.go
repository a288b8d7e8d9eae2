package mcpkg

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Manifest is the project manifest shipped with each binary. It is the
// single source of the name/version strings advertised at startup.
type Manifest struct {
	Project ManifestProject `toml:"project"`
}

// ManifestProject holds the identifying fields of the manifest.
type ManifestProject struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// LoadManifest parses a TOML manifest. Name and version are mandatory;
// the manifest is read once at startup and never reloaded.
func LoadManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if manifest.Project.Name == "" {
		return nil, fmt.Errorf("manifest is missing project.name")
	}
	if manifest.Project.Version == "" {
		return nil, fmt.Errorf("manifest is missing project.version")
	}
	return &manifest, nil
}
