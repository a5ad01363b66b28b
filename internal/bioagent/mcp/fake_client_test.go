package mcp

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mark3labs/mcp-go/client"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// fakeClient is an in-process stand-in for a transport-level MCP client.
// The embedded interface panics on anything not implemented here, which is
// exactly what we want from a test double.
type fakeClient struct {
	client.MCPClient

	mu      sync.Mutex
	tools   []mcpgo.Tool
	initErr error
	listErr error
	pingErr error
	callErr error

	// callDelay simulates a slow tool; CallTool honors ctx cancellation.
	callDelay time.Duration
	// callOutput computes the tool output; defaults to "ok:<name>".
	callOutput func(name string) string

	listCalls int32
	callCalls int32
	closed    bool
}

func (f *fakeClient) Initialize(ctx context.Context, req mcpgo.InitializeRequest) (*mcpgo.InitializeResult, error) {
	if f.initErr != nil {
		return nil, f.initErr
	}
	return &mcpgo.InitializeResult{}, nil
}

func (f *fakeClient) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeClient) ListTools(ctx context.Context, req mcpgo.ListToolsRequest) (*mcpgo.ListToolsResult, error) {
	atomic.AddInt32(&f.listCalls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	tools := make([]mcpgo.Tool, len(f.tools))
	copy(tools, f.tools)
	return &mcpgo.ListToolsResult{Tools: tools}, nil
}

func (f *fakeClient) CallTool(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	atomic.AddInt32(&f.callCalls, 1)

	if f.callDelay > 0 {
		select {
		case <-time.After(f.callDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.callErr != nil {
		return nil, f.callErr
	}

	output := "ok:" + req.Params.Name
	if f.callOutput != nil {
		output = f.callOutput(req.Params.Name)
	}
	return mcpgo.NewToolResultText(output), nil
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeClient) setTools(tools []mcpgo.Tool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tools = tools
	f.listErr = nil
}

func (f *fakeClient) setListErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

// fakeFactory hands out per-server fake clients, creating default ones on
// demand. It keeps the clients addressable so tests can tweak them later.
type fakeFactory struct {
	mu      sync.Mutex
	clients map[string]*fakeClient
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{clients: make(map[string]*fakeClient)}
}

// client returns (creating if needed) the fake client for a server id.
func (ff *fakeFactory) client(id string) *fakeClient {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	c, ok := ff.clients[id]
	if !ok {
		c = &fakeClient{}
		ff.clients[id] = c
	}
	return c
}

// factory adapts the fakeFactory to the ClientFactory signature. Server
// configs carry their id in the Name field for routing.
func (ff *fakeFactory) factory(cfg *ServerConfig) (client.MCPClient, error) {
	return ff.client(cfg.Name), nil
}

// testConfig builds an MCPConfig with stdio servers named by the given ids.
// Name doubles as the routing key for the fake factory.
func testConfig(ids ...string) *MCPConfig {
	cfg := NewMCPConfig()
	for _, id := range ids {
		cfg.MCPServers[id] = &ServerConfig{
			Transport: "stdio",
			Command:   "true",
			Name:      id,
		}
	}
	return cfg
}

func textTool(name, desc string) mcpgo.Tool {
	return mcpgo.Tool{
		Name:        name,
		Description: desc,
		InputSchema: mcpgo.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{"type": "string", "description": "search query"},
			},
			Required: []string{"query"},
		},
	}
}
