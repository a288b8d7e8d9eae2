// Package mcpkg provides the tool-dispatch runtime shared by the
// mcpkg MCP servers: a controller contract, per-deployment controller
// registries, a dispatcher with a two-tier error-translation policy,
// and the stdio protocol server that binds them together.
package mcpkg

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Controller implements one named tool. Implementations are constructed
// once at registry-build time and must be safe for concurrent use; they
// hold no per-invocation state.
type Controller interface {
	// Tool returns the descriptor advertised through tools/list.
	Tool() *mcp.Tool

	// CanExecute reports whether this controller handles the named tool.
	// It is a pure predicate with no side effects.
	CanExecute(name string) bool

	// Execute runs the tool and returns its content items. It may
	// return a *DomainError (eligible for registry recovery), a
	// *ValidationError, or any other error, all of which the dispatcher
	// classifies.
	Execute(ctx context.Context, name string, arguments map[string]any) ([]mcp.Content, error)
}

// Registry is the fixed, ordered set of controllers for one server
// deployment, plus that deployment's domain-error recovery policy.
// Implementations are immutable after construction.
type Registry interface {
	// Controllers returns the controllers in registration order.
	// Registration order is dispatch priority: the first controller
	// whose CanExecute matches wins.
	Controllers() []Controller

	// HandleError is invoked by the dispatcher for errors classified as
	// *DomainError. Returning content items recovers the call: the
	// result looks like normal tool output to the caller. Returning a
	// non-nil error re-raises, promoting the failure to a protocol
	// error.
	HandleError(err error, controller Controller, name string, arguments map[string]any) ([]mcp.Content, error)
}

// BaseController carries the descriptor fields shared by every
// controller and supplies the Tool/CanExecute halves of the contract.
// Embed it and implement Execute.
type BaseController struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

func (c BaseController) Tool() *mcp.Tool {
	return &mcp.Tool{
		Name:        c.Name,
		Description: c.Description,
		InputSchema: c.InputSchema,
	}
}

func (c BaseController) CanExecute(name string) bool {
	return c.Name == name
}

// EmptyRegistry is the default registry: no controllers, and a recovery
// policy that renders the error message as a single text item.
type EmptyRegistry struct{}

func (EmptyRegistry) Controllers() []Controller { return nil }

func (EmptyRegistry) HandleError(err error, _ Controller, _ string, _ map[string]any) ([]mcp.Content, error) {
	return ErrorContent(err), nil
}

// ErrorContent wraps an error's message into a single text content
// item, the default domain-error rendering.
func ErrorContent(err error) []mcp.Content {
	return []mcp.Content{&mcp.TextContent{Text: err.Error()}}
}

// TextContent wraps plain text into a single-item content sequence.
func TextContent(text string) []mcp.Content {
	return []mcp.Content{&mcp.TextContent{Text: text}}
}

// ListTools returns the descriptors of every controller in the
// registry, preserving registration order. It never invokes a
// controller's Execute.
func ListTools(cfg *Config) []*mcp.Tool {
	controllers := cfg.Registry.Controllers()
	tools := make([]*mcp.Tool, 0, len(controllers))
	for _, controller := range controllers {
		tools = append(tools, controller.Tool())
	}
	return tools
}
