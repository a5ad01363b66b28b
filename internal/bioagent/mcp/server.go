package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kiosk404/bioagent/pkg/logger"
	"github.com/mark3labs/mcp-go/client"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// ClientFactory builds the transport-level MCP client for a server config.
// Swappable so tests can substitute an in-process fake.
type ClientFactory func(cfg *ServerConfig) (client.MCPClient, error)

// DefaultClientFactory creates a transport-specific MCP client.
func DefaultClientFactory(cfg *ServerConfig) (client.MCPClient, error) {
	switch cfg.Transport {
	case "stdio":
		return client.NewStdioMCPClient(cfg.Command, cfg.Env, cfg.Args...)
	case "sse":
		return client.NewSSEMCPClient(cfg.URL)
	default:
		return nil, fmt.Errorf("unknown transport: %s", cfg.Transport)
	}
}

// ServerHandle is the live connection bound to one ServerDescriptor.
// Exclusively owned by the Manager; the invoker borrows it only for the
// duration of a call. Each handle carries its own lock so independent
// servers proceed in parallel.
type ServerHandle struct {
	desc    ServerDescriptor
	config  *ServerConfig
	factory ClientFactory

	mu     sync.RWMutex
	client client.MCPClient
	status ServerStatus
	err    error
}

// NewServerHandle creates a disconnected handle for the given server.
func NewServerHandle(id string, cfg *ServerConfig, factory ClientFactory) *ServerHandle {
	if factory == nil {
		factory = DefaultClientFactory
	}
	return &ServerHandle{
		desc:    cfg.Descriptor(id),
		config:  cfg,
		factory: factory,
		status:  ServerStatusDisconnected,
	}
}

// ID returns the server id.
func (s *ServerHandle) ID() string {
	return s.desc.ID
}

// Descriptor returns the immutable server descriptor.
func (s *ServerHandle) Descriptor() ServerDescriptor {
	return s.desc
}

// Status returns the current connection status.
func (s *ServerHandle) Status() ServerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// LastError returns the error recorded by the most recent failed transition.
func (s *ServerHandle) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Connect establishes a connection and performs the MCP handshake.
// One attempt only; retry is caller-initiated via Reconnect.
func (s *ServerHandle) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == ServerStatusConnected {
		return nil
	}

	s.status = ServerStatusConnecting
	s.err = nil

	cli, err := s.factory(s.config)
	if err != nil {
		s.status = ServerStatusFailed
		s.err = err
		return fmt.Errorf("server %q: failed to create client: %w", s.desc.ID, err)
	}

	initReq := mcpgo.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcpgo.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcpgo.Implementation{
		Name:    "bioagent",
		Version: "0.1.0",
	}

	if _, err := cli.Initialize(ctx, initReq); err != nil {
		_ = cli.Close()
		s.status = ServerStatusFailed
		s.err = err
		return fmt.Errorf("server %q: failed to initialize: %w", s.desc.ID, err)
	}

	s.client = cli
	s.status = ServerStatusConnected

	return nil
}

// Reconnect closes the current connection and establishes a new one.
func (s *ServerHandle) Reconnect(ctx context.Context) error {
	s.Close()
	return s.Connect(ctx)
}

// Close releases the underlying connection. Idempotent.
func (s *ServerHandle) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		if err := s.client.Close(); err != nil {
			logger.Warn("[MCP] server %q: failed to close client: %v", s.desc.ID, err)
		}
		s.client = nil
	}

	s.status = ServerStatusDisconnected
	s.err = nil
}

// Ping probes the server for liveness. On failure the handle drops to
// Disconnected so the caller sees the dead connection.
func (s *ServerHandle) Ping(ctx context.Context) error {
	s.mu.RLock()
	cli := s.client
	status := s.status
	s.mu.RUnlock()

	if status != ServerStatusConnected || cli == nil {
		return fmt.Errorf("server %q is %s", s.desc.ID, status)
	}

	if err := cli.Ping(ctx); err != nil {
		s.mu.Lock()
		s.status = ServerStatusDisconnected
		s.err = err
		s.mu.Unlock()
		return fmt.Errorf("server %q: ping failed: %w", s.desc.ID, err)
	}
	return nil
}

// ListTools queries the server for its current tool list, applying the
// configured tool filter.
func (s *ServerHandle) ListTools(ctx context.Context) ([]ToolDescriptor, error) {
	s.mu.RLock()
	cli := s.client
	status := s.status
	s.mu.RUnlock()

	if status != ServerStatusConnected || cli == nil {
		return nil, fmt.Errorf("server %q is %s", s.desc.ID, status)
	}

	res, err := cli.ListTools(ctx, mcpgo.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("server %q: failed to list tools: %w", s.desc.ID, err)
	}

	filter := make(map[string]struct{}, len(s.config.ToolFilter))
	for _, name := range s.config.ToolFilter {
		filter[name] = struct{}{}
	}

	tools := make([]ToolDescriptor, 0, len(res.Tools))
	for _, t := range res.Tools {
		if len(filter) > 0 {
			if _, ok := filter[t.Name]; !ok {
				continue
			}
		}
		tools = append(tools, ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: toolInputSchemaMap(t.InputSchema),
			ServerID:    s.desc.ID,
		})
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })

	return tools, nil
}

// CallTool dispatches one tool invocation on the live connection.
// A tool-level error result (IsError) is returned as a Go error carrying the
// flattened content.
func (s *ServerHandle) CallTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	s.mu.RLock()
	cli := s.client
	status := s.status
	s.mu.RUnlock()

	if status != ServerStatusConnected || cli == nil {
		return "", fmt.Errorf("server %q is %s", s.desc.ID, status)
	}

	req := mcpgo.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := cli.CallTool(ctx, req)
	if err != nil {
		return "", err
	}

	output := flattenContent(res.Content)
	if res.IsError {
		return "", fmt.Errorf("tool %q reported an error: %s", name, output)
	}
	return output, nil
}

// flattenContent joins the textual parts of a tool result.
func flattenContent(content []mcpgo.Content) string {
	var parts []string
	for _, c := range content {
		if tc, ok := c.(mcpgo.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// toolInputSchemaMap converts the protocol schema into a plain JSON-schema map.
func toolInputSchemaMap(schema mcpgo.ToolInputSchema) map[string]interface{} {
	out := map[string]interface{}{
		"type": schema.Type,
	}
	if len(schema.Properties) > 0 {
		out["properties"] = schema.Properties
	}
	if len(schema.Required) > 0 {
		out["required"] = schema.Required
	}
	return out
}
