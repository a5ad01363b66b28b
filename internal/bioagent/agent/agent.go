// Package agent drives the research session loop: it feeds history, context
// and the registry's tool set to the model, executes requested tool calls
// through the invoker, and folds the results back into the session.
package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/kiosk404/bioagent/internal/bioagent/entity"
	"github.com/kiosk404/bioagent/internal/bioagent/errno"
	"github.com/kiosk404/bioagent/internal/bioagent/llm"
	"github.com/kiosk404/bioagent/internal/bioagent/mcp"
	"github.com/kiosk404/bioagent/pkg/logger"
	"github.com/kiosk404/bioagent/pkg/utils/json"
)

// DefaultMaxToolRounds bounds the tool-call rounds within one user turn.
const DefaultMaxToolRounds = 5

// Options configures a ResearchAgent.
type Options struct {
	// MaxToolRounds bounds tool-call rounds per user turn. Zero means
	// DefaultMaxToolRounds.
	MaxToolRounds int

	// Session resumes an existing session instead of starting fresh.
	Session *entity.Session
}

// ResearchAgent owns one research session and orchestrates its turn-cycles.
// All mutation goes through the agent; the session is never shared out for
// writing.
type ResearchAgent struct {
	provider llm.Provider
	manager  mcp.Manager
	registry *mcp.Registry
	invoker  *mcp.Invoker

	mu            sync.Mutex
	session       *entity.Session
	maxToolRounds int
}

// NewResearchAgent wires the agent from its collaborators.
func NewResearchAgent(provider llm.Provider, manager mcp.Manager, registry *mcp.Registry, invoker *mcp.Invoker, opts Options) *ResearchAgent {
	maxRounds := opts.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}
	sess := opts.Session
	if sess == nil {
		sess = entity.NewSession()
	}
	return &ResearchAgent{
		provider:      provider,
		manager:       manager,
		registry:      registry,
		invoker:       invoker,
		session:       sess,
		maxToolRounds: maxRounds,
	}
}

// Bootstrap connects every configured server and populates the registry.
// Per-server failures are isolated; the returned error is non-nil only when
// every server failed to connect.
func (a *ResearchAgent) Bootstrap(ctx context.Context) error {
	outcomes, connErr := a.manager.ConnectAll(ctx)

	if err := a.registry.RegisterAll(); err != nil {
		return err
	}

	for id, err := range a.registry.RefreshAll(ctx) {
		if err != nil {
			logger.WarnX("agent", "tool discovery failed for server %q: %v", id, err)
		}
	}

	if connErr != nil && len(outcomes) > 0 {
		return connErr
	}
	return nil
}

// ProcessMessage runs one full turn-cycle for a user message and returns the
// final assistant turn.
//
// Tool failures inside the cycle become structured tool results the model
// can react to; only a model provider failure surfaces as an error, and the
// session stays usable for the next user turn.
func (a *ResearchAgent) ProcessMessage(ctx context.Context, text string) (*entity.Turn, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cycle := newTurnCycle(a.session.ID)
	a.session.AppendTurn(entity.NewUserTurn(text))

	for {
		cycle.transition(CycleGenerating)

		messages := a.buildMessages()
		tools := llm.ToolInfos(a.registry.Tools())

		msg, err := a.provider.Generate(ctx, messages, tools)
		if err != nil {
			cycle.transition(CycleFailed)
			turn := entity.NewAssistantTurn("", nil)
			turn.Warning = fmt.Sprintf("model provider failed: %v", err)
			a.session.AppendTurn(turn)
			return turn, fmt.Errorf("%w: %v", errno.ErrModelProvider, err)
		}

		toolCalls := fromSchemaToolCalls(msg.ToolCalls)
		if len(toolCalls) == 0 {
			turn := entity.NewAssistantTurn(msg.Content, nil)
			a.session.AppendTurn(turn)
			cycle.transition(CycleComplete)
			return turn, nil
		}

		if round := cycle.beginRound(); round > a.maxToolRounds {
			// The model still wants tools after the allowed rounds. End
			// the cycle with whatever partial answer it produced instead
			// of looping forever; the bound is not an error to the caller.
			logger.WarnX("agent", "session %s: %v (%d), returning partial answer",
				a.session.ID, errno.ErrMaxToolRounds, a.maxToolRounds)
			turn := entity.NewAssistantTurn(msg.Content, nil)
			turn.Warning = fmt.Sprintf("%v: stopped after %d tool rounds; answer may be incomplete",
				errno.ErrMaxToolRounds, a.maxToolRounds)
			a.session.AppendTurn(turn)
			cycle.transition(CycleComplete)
			return turn, nil
		}

		cycle.transition(CycleToolCallsPending)
		a.session.AppendTurn(entity.NewAssistantTurn(msg.Content, toolCalls))

		cycle.transition(CycleToolsExecuting)
		results := a.invoker.InvokeMany(ctx, buildRequests(toolCalls))
		a.session.AppendTurn(entity.NewToolTurn(results))
	}
}

// UpdateContext replaces the research context wholesale. Past turns are
// untouched; the next model invocation sees the new context.
func (a *ResearchAgent) UpdateContext(rc *entity.ResearchContext) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.UpdateContext(rc)
}

// Context returns a snapshot of the current research context.
func (a *ResearchAgent) Context() *entity.ResearchContext {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Context.Clone()
}

// Session returns the owned session. Callers must treat it as read-only;
// mutation goes through the agent.
func (a *ResearchAgent) Session() *entity.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Close releases all server connections.
func (a *ResearchAgent) Close() error {
	return a.manager.Close()
}

func (a *ResearchAgent) buildMessages() []*schema.Message {
	messages := make([]*schema.Message, 0, len(a.session.Turns)+1)
	messages = append(messages, &schema.Message{
		Role:    schema.System,
		Content: systemPrompt(a.session.Context),
	})
	return append(messages, toSchemaMessages(a.session.Turns)...)
}

// buildRequests decodes the model's raw tool calls into dispatchable
// requests. Undecodable arguments still produce a request so the failure
// shows up as a structured result instead of vanishing.
func buildRequests(calls []*entity.ToolCall) []*entity.ToolCallRequest {
	reqs := make([]*entity.ToolCallRequest, 0, len(calls))
	for _, tc := range calls {
		callID := tc.ID
		if callID == "" {
			callID = uuid.NewString()
			tc.ID = callID
		}

		args := make(map[string]interface{})
		if tc.Arguments != "" && tc.Arguments != "{}" {
			if err := json.UnmarshalString(tc.Arguments, &args); err != nil {
				logger.WarnX("agent", "tool call %s (%s): undecodable arguments: %v", tc.Name, callID, err)
			}
		}

		reqs = append(reqs, &entity.ToolCallRequest{
			CallID:    callID,
			ToolName:  tc.Name,
			Arguments: args,
		})
	}
	return reqs
}
