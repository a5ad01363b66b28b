package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kiosk404/bioagent/internal/bioagent/errno"
	"github.com/kiosk404/bioagent/pkg/logger"
	"github.com/kiosk404/bioagent/pkg/utils/safego"
)

// ConflictPolicy decides what Register does when a server id is already
// present.
type ConflictPolicy int

const (
	// ConflictOverwrite replaces the existing descriptor in place.
	ConflictOverwrite ConflictPolicy = iota
	// ConflictReject refuses the registration.
	ConflictReject
)

// Registry is the process-wide catalog mapping tool name to owning server.
// It is rebuilt per server whenever that server is refreshed.
//
// When two servers expose the same tool name, the server registered last
// wins the lookup. This is deliberate and relied upon by callers; use
// ToolsByServer to see a shadowed server's tools.
type Registry struct {
	manager Manager
	policy  ConflictPolicy

	mu            sync.RWMutex
	order         []string // server registration order
	servers       map[string]ServerDescriptor
	toolsByServer map[string][]ToolDescriptor // sorted by tool name per server
	lookup        map[string]ToolDescriptor   // rebuilt atomically on refresh
	stale         map[string]bool

	refreshMu sync.Mutex
	refreshes map[string]*sync.Mutex // serializes Refresh per server id
}

// NewRegistry creates an empty registry backed by the given manager.
func NewRegistry(manager Manager, policy ConflictPolicy) *Registry {
	return &Registry{
		manager:       manager,
		policy:        policy,
		servers:       make(map[string]ServerDescriptor),
		toolsByServer: make(map[string][]ToolDescriptor),
		lookup:        make(map[string]ToolDescriptor),
		stale:         make(map[string]bool),
		refreshes:     make(map[string]*sync.Mutex),
	}
}

// Register adds a server descriptor to the catalog. With ConflictReject an
// existing id fails with ErrDuplicateServer; with ConflictOverwrite the
// descriptor is replaced and its registration position kept.
func (r *Registry) Register(desc ServerDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.servers[desc.ID]; exists {
		if r.policy == ConflictReject {
			return fmt.Errorf("%w: %s", errno.ErrDuplicateServer, desc.ID)
		}
		r.servers[desc.ID] = desc
		return nil
	}

	r.servers[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	return nil
}

// RegisterAll registers every descriptor known to the manager.
func (r *Registry) RegisterAll() error {
	for _, desc := range r.manager.Descriptors() {
		if err := r.Register(desc); err != nil {
			return err
		}
	}
	return nil
}

// Refresh queries the server's live connection for its tool list and
// atomically replaces the tools owned by that server. A failed query leaves
// the prior tool set intact and marks the server stale. Refreshes of the
// same server are serialized; different servers refresh in parallel.
func (r *Registry) Refresh(ctx context.Context, serverID string) error {
	r.serverRefreshMu(serverID).Lock()
	defer r.serverRefreshMu(serverID).Unlock()

	r.mu.RLock()
	_, registered := r.servers[serverID]
	r.mu.RUnlock()
	if !registered {
		return fmt.Errorf("%w: %s", errno.ErrServerNotFound, serverID)
	}

	handle, ok := r.manager.Handle(serverID)
	if !ok {
		r.markStale(serverID)
		return fmt.Errorf("%w: %s", errno.ErrServerNotFound, serverID)
	}

	tools, err := handle.ListTools(ctx)
	if err != nil {
		r.markStale(serverID)
		return fmt.Errorf("refresh server %q: %w", serverID, err)
	}

	r.mu.Lock()
	r.toolsByServer[serverID] = tools
	r.stale[serverID] = false
	r.rebuildLookupLocked()
	r.mu.Unlock()

	logger.InfoX("mcp", "registry refreshed server %q: %d tools", serverID, len(tools))
	return nil
}

// RefreshAll refreshes every connected server concurrently and returns a
// per-server outcome map. Servers that are not Connected are skipped.
func (r *Registry) RefreshAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	r.mu.RUnlock()

	outcomes := make(map[string]error, len(ids))
	var wg sync.WaitGroup
	var outMu sync.Mutex

	for _, id := range ids {
		id := id
		if r.manager.Status(id) != ServerStatusConnected {
			continue
		}
		wg.Add(1)
		safego.Go(ctx, func() {
			defer wg.Done()
			err := r.Refresh(ctx, id)
			outMu.Lock()
			outcomes[id] = err
			outMu.Unlock()
		})
	}
	wg.Wait()

	return outcomes
}

// Lookup resolves a tool name to its descriptor. On duplicate names across
// servers the last-registered server's tool is returned.
func (r *Registry) Lookup(toolName string) (ToolDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	td, ok := r.lookup[toolName]
	return td, ok
}

// Search returns the tools whose name or description contains the query,
// case-insensitive. Order is server registration order, then tool name.
// An empty query matches everything.
func (r *Registry) Search(query string) []ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var out []ToolDescriptor
	for _, id := range r.order {
		for _, td := range r.toolsByServer[id] {
			if q == "" ||
				strings.Contains(strings.ToLower(td.Name), q) ||
				strings.Contains(strings.ToLower(td.Description), q) {
				out = append(out, td)
			}
		}
	}
	return out
}

// Tools returns every registered tool in server registration order, then
// tool name.
func (r *Registry) Tools() []ToolDescriptor {
	return r.Search("")
}

// ToolsByServer returns the tools owned by one server.
func (r *Registry) ToolsByServer(serverID string) []ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := r.toolsByServer[serverID]
	out := make([]ToolDescriptor, len(tools))
	copy(out, tools)
	return out
}

// Server returns the registered descriptor for a server id.
func (r *Registry) Server(serverID string) (ServerDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.servers[serverID]
	return desc, ok
}

// ServerIDs returns registered server ids in registration order.
func (r *Registry) ServerIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Stale reports whether the server's tool set may be out of date because
// its last refresh failed.
func (r *Registry) Stale(serverID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stale[serverID]
}

func (r *Registry) markStale(serverID string) {
	r.mu.Lock()
	r.stale[serverID] = true
	r.mu.Unlock()
}

// rebuildLookupLocked rebuilds the name lookup from scratch in registration
// order so later servers shadow earlier ones. Must hold r.mu for writing.
func (r *Registry) rebuildLookupLocked() {
	lookup := make(map[string]ToolDescriptor, len(r.lookup))
	for _, id := range r.order {
		for _, td := range r.toolsByServer[id] {
			lookup[td.Name] = td
		}
	}
	r.lookup = lookup
}

// serverRefreshMu returns the per-server refresh mutex, creating it on
// first use.
func (r *Registry) serverRefreshMu(serverID string) *sync.Mutex {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	mu, ok := r.refreshes[serverID]
	if !ok {
		mu = &sync.Mutex{}
		r.refreshes[serverID] = mu
	}
	return mu
}
