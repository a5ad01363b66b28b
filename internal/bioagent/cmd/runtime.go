package cmd

import (
	"context"
	"fmt"

	"github.com/kiosk404/bioagent/internal/bioagent/agent"
	"github.com/kiosk404/bioagent/internal/bioagent/config"
	"github.com/kiosk404/bioagent/internal/bioagent/errno"
	"github.com/kiosk404/bioagent/internal/bioagent/llm"
	"github.com/kiosk404/bioagent/internal/bioagent/mcp"
	"github.com/kiosk404/bioagent/internal/bioagent/store"
	"github.com/kiosk404/bioagent/internal/bioagent/store/boltdb"
	"github.com/kiosk404/bioagent/internal/bioagent/store/inmemory"
	"github.com/kiosk404/bioagent/pkg/logger"
)

// runtime holds the wired service objects shared by the subcommands.
type runtime struct {
	manager  mcp.Manager
	registry *mcp.Registry
	invoker  *mcp.Invoker
	store    store.SessionStore
	cfg      *config.Config
}

// newRuntime wires the MCP stack and the session store from the config.
func newRuntime(cfg *config.Config) (*runtime, error) {
	mcpCfg, err := mcp.LoadMCPConfig(cfg.MCPOptions.ConfigFile)
	if err != nil {
		return nil, err
	}
	if errs := mcpCfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", errno.ErrConfiguration, errs[0])
	}
	mcpCfg = mcpCfg.Filter(cfg.MCPOptions.EnabledServers)

	manager := mcp.NewManager(mcpCfg)
	registry := mcp.NewRegistry(manager, mcp.ConflictOverwrite)
	invoker := mcp.NewInvoker(registry, manager, cfg.MCPOptions.CallTimeout)

	var st store.SessionStore
	if cfg.SessionOptions.InMemory {
		st = inmemory.NewSessionStore()
	} else {
		st, err = boltdb.Open(cfg.SessionOptions.StorePath)
		if err != nil {
			return nil, err
		}
	}

	return &runtime{
		manager:  manager,
		registry: registry,
		invoker:  invoker,
		store:    st,
		cfg:      cfg,
	}, nil
}

// newAgent builds the model provider and the research agent on top of the
// runtime's MCP stack.
func (rt *runtime) newAgent(ctx context.Context) (*agent.ResearchAgent, error) {
	provider, err := llm.New(ctx, rt.cfg.ModelOptions.ModelConfig())
	if err != nil {
		return nil, err
	}
	return agent.NewResearchAgent(provider, rt.manager, rt.registry, rt.invoker, agent.Options{
		MaxToolRounds: rt.cfg.SessionOptions.MaxToolRounds,
	}), nil
}

// connect brings up server connections and populates the registry.
func (rt *runtime) connect(ctx context.Context) error {
	if _, err := rt.manager.ConnectAll(ctx); err != nil {
		return err
	}
	if err := rt.registry.RegisterAll(); err != nil {
		return err
	}
	for id, err := range rt.registry.RefreshAll(ctx) {
		if err != nil {
			logger.WarnX("cmd", "tool discovery failed for server %q: %v", id, err)
		}
	}
	return nil
}

// close releases connections and the store.
func (rt *runtime) close() {
	_ = rt.manager.Close()
	_ = rt.store.Close()
}
