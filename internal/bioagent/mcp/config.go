package mcp

import (
	"fmt"
	"os"
	"strings"

	"github.com/kiosk404/bioagent/pkg/utils/json"
)

// MCPConfig holds the top-level MCP configuration.
// Compatible with Claude Desktop / VS Code MCP config format.
//
// File format (mcp.json):
//
//	{
//	  "mcpServers": {
//	    "pubmed": {
//	      "transport": "stdio",
//	      "command": "uvx",
//	      "args": ["mcp-pubmed-server"],
//	      "description": "PubMed literature search"
//	    }
//	  }
//	}
type MCPConfig struct {
	// MCPServers maps server id -> server configuration.
	// Uses "mcpServers" key for Claude Desktop compatibility.
	MCPServers map[string]*ServerConfig `json:"mcpServers"`
}

// ServerConfig defines the configuration for a single MCP server.
// Supports two transport types: "stdio" (subprocess) and "sse" (HTTP SSE).
type ServerConfig struct {
	// Transport is the MCP transport protocol: "stdio" or "sse".
	// Default: "stdio".
	Transport string `json:"transport,omitempty"`

	// --- stdio transport fields ---

	// Command is the executable to launch (stdio only).
	Command string `json:"command,omitempty"`

	// Args are the command-line arguments (stdio only).
	Args []string `json:"args,omitempty"`

	// Env is the environment variables for the subprocess (stdio only).
	// Format: ["KEY=VALUE", ...].
	Env []string `json:"env,omitempty"`

	// --- sse transport fields ---

	// URL is the SSE endpoint URL (sse only).
	URL string `json:"url,omitempty"`

	// --- common fields ---

	// Name is a human-readable label; defaults to the server id.
	Name string `json:"name,omitempty"`

	// Description explains what the server offers.
	Description string `json:"description,omitempty"`

	// ToolFilter is an optional list of tool names to expose.
	// If empty, all tools from the MCP server are exposed.
	ToolFilter []string `json:"toolFilter,omitempty"`
}

// Descriptor derives the immutable server descriptor for this config.
func (c *ServerConfig) Descriptor(id string) ServerDescriptor {
	name := c.Name
	if name == "" {
		name = id
	}
	endpoint := c.URL
	if c.Transport != "sse" {
		endpoint = strings.TrimSpace(c.Command + " " + strings.Join(c.Args, " "))
	}
	return ServerDescriptor{
		ID:          id,
		Name:        name,
		Endpoint:    endpoint,
		Description: c.Description,
	}
}

// LoadMCPConfig loads the MCP configuration from a JSON file.
// If the file does not exist, returns an empty config (no error).
func LoadMCPConfig(path string) (*MCPConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewMCPConfig(), nil
		}
		return nil, fmt.Errorf("failed to read MCP config file %q: %w", path, err)
	}

	cfg := &MCPConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse MCP config file %q: %w", path, err)
	}

	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]*ServerConfig)
	}

	return cfg, nil
}

// NewMCPConfig creates a default (empty) MCP configuration.
func NewMCPConfig() *MCPConfig {
	return &MCPConfig{
		MCPServers: make(map[string]*ServerConfig),
	}
}

// Filter returns a copy of the config restricted to the given server ids.
// An empty enabled list keeps every server.
func (c *MCPConfig) Filter(enabled []string) *MCPConfig {
	if len(enabled) == 0 {
		return c
	}
	out := NewMCPConfig()
	for _, id := range enabled {
		if srv, ok := c.MCPServers[id]; ok {
			out.MCPServers[id] = srv
		}
	}
	return out
}

// Validate checks the MCP configuration for obvious errors.
func (c *MCPConfig) Validate() []error {
	var errs []error
	for id, srv := range c.MCPServers {
		if srv.Transport == "" {
			srv.Transport = "stdio"
		}
		switch srv.Transport {
		case "stdio":
			if srv.Command == "" {
				errs = append(errs, fmt.Errorf("mcpServers.%s: command is required for stdio transport", id))
			}
		case "sse":
			if srv.URL == "" {
				errs = append(errs, fmt.Errorf("mcpServers.%s: url is required for sse transport", id))
			}
		default:
			errs = append(errs, fmt.Errorf("mcpServers.%s: unsupported transport %q (must be 'stdio' or 'sse')", id, srv.Transport))
		}
	}
	return errs
}
