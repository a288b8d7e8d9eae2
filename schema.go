package mcpkg

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// FieldDef defines one property for schema construction.
type FieldDef struct {
	Name        string
	Type        string // "string", "integer", "number", "boolean"
	Description string
	Required    bool
}

// CreateSchema constructs an object schema from field definitions.
// Property order in the schema map is irrelevant to dispatch; required
// names are collected in definition order.
func CreateSchema(fields []FieldDef) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(fields))
	var required []string

	for _, field := range fields {
		properties[field.Name] = &jsonschema.Schema{
			Type:        field.Type,
			Description: field.Description,
		}
		if field.Required {
			required = append(required, field.Name)
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// CreateObjectSchema creates an object schema whose properties are all
// strings, the common case for the package-manager tools.
func CreateObjectSchema(properties map[string]string, required []string) *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(properties))
	for name, description := range properties {
		props[name] = &jsonschema.Schema{
			Type:        "string",
			Description: description,
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// EmptyObjectSchema creates the schema for a tool taking no arguments.
func EmptyObjectSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
		Required:   []string{},
	}
}
