package mcp

// ServerStatus represents the connection state of an MCP server.
type ServerStatus int

const (
	ServerStatusDisconnected ServerStatus = iota
	ServerStatusConnecting
	ServerStatusConnected
	ServerStatusFailed
)

func (s ServerStatus) String() string {
	switch s {
	case ServerStatusDisconnected:
		return "Disconnected"
	case ServerStatusConnecting:
		return "Connecting"
	case ServerStatusConnected:
		return "Connected"
	case ServerStatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ServerDescriptor identifies one configured MCP server. Immutable after
// registration.
type ServerDescriptor struct {
	// ID is the unique server key (the mcpServers map key).
	ID string `json:"id"`

	// Name is a human-readable label; defaults to ID.
	Name string `json:"name"`

	// Endpoint is the address the server is reached at: the command line
	// for stdio transports, the URL for sse transports.
	Endpoint string `json:"endpoint"`

	// Description explains what the server offers.
	Description string `json:"description,omitempty"`
}

// ToolDescriptor describes one callable tool discovered from a server.
// Rebuilt whenever the owning server is refreshed.
type ToolDescriptor struct {
	// Name is the tool's protocol-level name.
	Name string `json:"name"`

	// Description explains the tool's purpose, shown to the model.
	Description string `json:"description,omitempty"`

	// InputSchema is the JSON-schema object describing the arguments.
	InputSchema map[string]interface{} `json:"input_schema,omitempty"`

	// ServerID is the id of the server that owns this tool.
	ServerID string `json:"server_id"`
}
