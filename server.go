package mcpkg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server binds a deployment's dispatcher to an MCP transport. Exactly
// two request kinds are answered: tools/list (descriptors in the
// registry, served by the SDK from the registered set) and tools/call
// (routed through ExecuteTool).
type Server struct {
	cfg       *Config
	mcpServer *mcp.Server
}

// NewServer creates a protocol server for the given config, registering
// every controller's descriptor in registration order. The registry is
// borrowed, never owned.
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}, nil)

	s := &Server{cfg: cfg, mcpServer: mcpServer}

	for _, tool := range ListTools(cfg) {
		mcpServer.AddTool(tool, s.callTool)
	}

	return s, nil
}

// MCPServer returns the underlying SDK server for advanced usage, such
// as connecting over a custom transport.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// callTool adapts a tools/call request to the dispatcher. Errors
// escaping the dispatcher are returned to the SDK, which surfaces them
// as JSON-RPC errors; a bad request never terminates the serve loop.
func (s *Server) callTool(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.Params.Name
	s.cfg.Logger.WithField("tool", name).Info("Executing tool")

	arguments, err := decodeArguments(req.Params.Arguments)
	if err != nil {
		return nil, NewProtocolError(fmt.Sprintf("An error occurred: %v", err), CodeInternalError)
	}

	result, err := ExecuteTool(ctx, name, arguments, s.cfg)
	if err != nil {
		return nil, err
	}

	s.cfg.Logger.WithField("tool", name).Debug("Tool execution successful")
	return &mcp.CallToolResult{Content: result}, nil
}

// decodeArguments normalizes the SDK's argument payload into the
// mapping the controllers consume. A round-trip through JSON covers
// both raw and pre-decoded argument representations.
func decodeArguments(raw any) (map[string]any, error) {
	if raw == nil {
		return map[string]any{}, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal arguments: %w", err)
	}

	var arguments map[string]any
	if err := json.Unmarshal(data, &arguments); err != nil {
		return nil, fmt.Errorf("failed to decode arguments: %w", err)
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	return arguments, nil
}

// Run serves the bound transport until the context is cancelled, the
// stream closes, or an unrecoverable transport error occurs. The
// shutdown log runs on every exit path.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	logger := s.cfg.Logger

	logger.WithFields(map[string]any{
		"name":    s.cfg.ServerName,
		"version": s.cfg.ServerVersion,
	}).Info("Server initialized, starting main loop")

	defer logger.Info("Server shutting down")

	if err := s.mcpServer.Run(ctx, transport); err != nil {
		logger.WithField("error", err).Error("Server error")
		return err
	}
	return nil
}

// ServeStdio runs the server over standard input/output, the
// conventional deployment transport.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}
