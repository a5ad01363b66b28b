package mcp

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kiosk404/bioagent/internal/bioagent/errno"
	"github.com/kiosk404/bioagent/pkg/logger"
	"github.com/kiosk404/bioagent/pkg/utils/safego"
)

// managerImpl is the default implementation of Manager.
type managerImpl struct {
	mu      sync.RWMutex
	servers map[string]*ServerHandle
	order   []string // preserves config order
}

var _ Manager = (*managerImpl)(nil)

// NewManager builds a manager from the given config using the default
// transport client factory.
func NewManager(cfg *MCPConfig) Manager {
	return NewManagerWithFactory(cfg, nil)
}

// NewManagerWithFactory builds a manager with a custom client factory.
func NewManagerWithFactory(cfg *MCPConfig, factory ClientFactory) Manager {
	m := &managerImpl{
		servers: make(map[string]*ServerHandle, len(cfg.MCPServers)),
		order:   make([]string, 0, len(cfg.MCPServers)),
	}

	for id, srvCfg := range cfg.MCPServers {
		m.servers[id] = NewServerHandle(id, srvCfg, factory)
		m.order = append(m.order, id)
	}
	// Map iteration order is random; keep a stable config order.
	sort.Strings(m.order)

	return m
}

func (m *managerImpl) handle(serverID string) (*ServerHandle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	srv, ok := m.servers[serverID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errno.ErrServerNotFound, serverID)
	}
	return srv, nil
}

// Connect attempts one connection. Failure is recorded on the handle and
// wrapped with the server id; other servers are untouched.
func (m *managerImpl) Connect(ctx context.Context, serverID string) error {
	srv, err := m.handle(serverID)
	if err != nil {
		return err
	}

	if err := srv.Connect(ctx); err != nil {
		return fmt.Errorf("%w: %v", errno.ErrConnection, err)
	}
	logger.InfoX("mcp", "server %q connected", serverID)
	return nil
}

// ConnectAll fans out one Connect per server. One bad endpoint never blocks
// or poisons the others.
func (m *managerImpl) ConnectAll(ctx context.Context) (map[string]error, error) {
	m.mu.RLock()
	handles := make([]*ServerHandle, 0, len(m.order))
	for _, id := range m.order {
		handles = append(handles, m.servers[id])
	}
	m.mu.RUnlock()

	outcomes := make(map[string]error, len(handles))
	if len(handles) == 0 {
		logger.Info("[MCP] no MCP servers configured, skipping initialization")
		return outcomes, nil
	}

	logger.Info("[MCP] connecting %d MCP servers...", len(handles))

	var wg sync.WaitGroup
	var outMu sync.Mutex

	for _, srv := range handles {
		srv := srv
		wg.Add(1)
		safego.Go(ctx, func() {
			defer wg.Done()
			err := srv.Connect(ctx)
			if err != nil {
				logger.Warn("[MCP] server %q failed to connect: %v", srv.ID(), err)
				err = fmt.Errorf("%w: %v", errno.ErrConnection, err)
			}
			outMu.Lock()
			outcomes[srv.ID()] = err
			outMu.Unlock()
		})
	}

	wg.Wait()

	connected := 0
	for _, err := range outcomes {
		if err == nil {
			connected++
		}
	}

	logger.Info("[MCP] connect complete: %d/%d servers connected", connected, len(handles))

	if connected == 0 {
		return outcomes, fmt.Errorf("%w: all %d servers failed to connect", errno.ErrConnection, len(handles))
	}
	return outcomes, nil
}

// Reconnect re-establishes the connection to a specific server.
func (m *managerImpl) Reconnect(ctx context.Context, serverID string) error {
	srv, err := m.handle(serverID)
	if err != nil {
		return err
	}

	if err := srv.Reconnect(ctx); err != nil {
		return fmt.Errorf("%w: %v", errno.ErrConnection, err)
	}
	return nil
}

// Disconnect releases one server's resources. Unknown ids are a no-op.
func (m *managerImpl) Disconnect(serverID string) {
	if srv, err := m.handle(serverID); err == nil {
		srv.Close()
	}
}

// DisconnectAll releases every server's resources.
func (m *managerImpl) DisconnectAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, srv := range m.servers {
		srv.Close()
	}
}

// HealthCheck probes one server for liveness.
func (m *managerImpl) HealthCheck(ctx context.Context, serverID string) error {
	srv, err := m.handle(serverID)
	if err != nil {
		return err
	}
	return srv.Ping(ctx)
}

// Handle returns the live handle for a server.
func (m *managerImpl) Handle(serverID string) (*ServerHandle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	srv, ok := m.servers[serverID]
	return srv, ok
}

// Status returns the status of a specific server.
func (m *managerImpl) Status(serverID string) ServerStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	srv, ok := m.servers[serverID]
	if !ok {
		return ServerStatusDisconnected
	}
	return srv.Status()
}

// ServerIDs returns the ids of all configured servers in config order.
func (m *managerImpl) ServerIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]string, len(m.order))
	copy(result, m.order)
	return result
}

// Descriptors returns the descriptors of all configured servers.
func (m *managerImpl) Descriptors() []ServerDescriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ServerDescriptor, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.servers[id].Descriptor())
	}
	return result
}

// Close closes all MCP server connections.
func (m *managerImpl) Close() error {
	m.DisconnectAll()
	logger.Info("[MCP] all servers closed")
	return nil
}
