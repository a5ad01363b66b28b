package mcp

import (
	"context"
)

// Manager owns the set of live MCP server connections. All lifecycle
// transitions go through it; per-server failures never leak across servers.
type Manager interface {
	// Connect attempts one connection to the given server.
	Connect(ctx context.Context, serverID string) error

	// ConnectAll attempts every configured server concurrently and returns
	// a per-server outcome map (nil entry means connected). The returned
	// error is non-nil only when servers exist and every one failed.
	ConnectAll(ctx context.Context) (map[string]error, error)

	// Reconnect closes and re-establishes one server's connection.
	// This is the manual retry path out of the Failed state.
	Reconnect(ctx context.Context, serverID string) error

	// Disconnect releases one server's connection resources. Idempotent.
	Disconnect(serverID string)

	// DisconnectAll releases every server's connection resources.
	DisconnectAll()

	// HealthCheck probes one server; a failed probe drops the server to
	// Disconnected.
	HealthCheck(ctx context.Context, serverID string) error

	// Handle returns the live handle for a server.
	Handle(serverID string) (*ServerHandle, bool)

	// Status returns the connection status of a server; unknown ids report
	// Disconnected.
	Status(serverID string) ServerStatus

	// ServerIDs returns all configured server ids in config order.
	ServerIDs() []string

	// Descriptors returns the descriptors of all configured servers in
	// config order.
	Descriptors() []ServerDescriptor

	// Close shuts down all connections.
	Close() error
}
