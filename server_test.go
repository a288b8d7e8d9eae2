package mcpkg

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectServer builds a server from cfg and an SDK client joined over
// in-memory transports, returning the client session for protocol
// calls. Both sessions close via t.Cleanup.
func connectServer(t *testing.T, cfg *Config) *mcp.ClientSession {
	t.Helper()

	server, err := NewServer(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientSession.Close() })

	return clientSession
}

func TestNewServerNilConfig(t *testing.T) {
	server, err := NewServer(nil)
	assert.Nil(t, server)
	assert.ErrorIs(t, err, ErrNilConfig)
}

func TestServerListTools(t *testing.T) {
	ping := newStubController("ping")
	echo := newStubController("echo")
	cfg := testConfig(t, &staticRegistry{controllers: []Controller{ping, echo}})
	session := connectServer(t, cfg)

	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"ping", "echo"}, names)

	for _, tool := range result.Tools {
		assert.NotEmpty(t, tool.Description)
		assert.NotNil(t, tool.InputSchema)
	}
}

func TestServerCallTool(t *testing.T) {
	ping := newStubController("ping")
	ping.result = TextContent("pong")
	cfg := testConfig(t, &staticRegistry{controllers: []Controller{ping}})
	session := connectServer(t, cfg)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "ping",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "pong", text.Text)
}

func TestServerCallToolDomainRecovery(t *testing.T) {
	broken := newStubController("list_things")
	broken.err = NewDomainError("backend is not installed")

	registry := &staticRegistry{
		controllers: []Controller{broken},
		onError: func(err error, _ string) ([]mcp.Content, error) {
			return TextContent("Please install the backend first."), nil
		},
	}
	session := connectServer(t, testConfig(t, registry))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "list_things",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "Please install the backend first.", text.Text)
}

func TestServerCallToolError(t *testing.T) {
	broken := newStubController("explode")
	broken.err = NewDomainError("backend exploded")
	session := connectServer(t, testConfig(t, &staticRegistry{controllers: []Controller{broken}}))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "explode",
		Arguments: map[string]any{},
	})
	if err == nil {
		// The SDK may surface handler errors as an error-flagged result
		// instead of a JSON-RPC failure.
		require.NotNil(t, result)
		assert.True(t, result.IsError)
		return
	}
	assert.Contains(t, err.Error(), "backend exploded")
}

func TestDecodeArguments(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want map[string]any
	}{
		{"nil", nil, map[string]any{}},
		{"map", map[string]any{"package_name": "git"}, map[string]any{"package_name": "git"}},
		{"raw json", json.RawMessage(`{"version":"1.0"}`), map[string]any{"version": "1.0"}},
		{"null json", json.RawMessage(`null`), map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeArguments(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
