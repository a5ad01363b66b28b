package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/mark3labs/mcp-go/client"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosk404/bioagent/internal/bioagent/entity"
	"github.com/kiosk404/bioagent/internal/bioagent/errno"
	"github.com/kiosk404/bioagent/internal/bioagent/mcp"
)

// scriptedProvider replays a fixed sequence of model responses and records
// what it was shown.
type scriptedProvider struct {
	responses []*schema.Message
	errs      []error
	calls     int

	seenSystem []string
	seenTools  [][]*schema.ToolInfo
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Generate(_ context.Context, messages []*schema.Message, tools []*schema.ToolInfo) (*schema.Message, error) {
	idx := p.calls
	p.calls++

	if len(messages) > 0 && messages[0].Role == schema.System {
		p.seenSystem = append(p.seenSystem, messages[0].Content)
	}
	p.seenTools = append(p.seenTools, tools)

	if idx < len(p.errs) && p.errs[idx] != nil {
		return nil, p.errs[idx]
	}
	if idx < len(p.responses) {
		return p.responses[idx], nil
	}
	// Past the script, keep replaying the last response.
	return p.responses[len(p.responses)-1], nil
}

func assistantText(content string) *schema.Message {
	return &schema.Message{Role: schema.Assistant, Content: content}
}

func assistantToolCall(id, name, args string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{ID: id, Function: schema.FunctionCall{Name: name, Arguments: args}},
		},
	}
}

// stubClient backs the MCP stack with one always-succeeding tool server.
type stubClient struct {
	client.MCPClient
	tools []mcpgo.Tool
}

func (s *stubClient) Initialize(context.Context, mcpgo.InitializeRequest) (*mcpgo.InitializeResult, error) {
	return &mcpgo.InitializeResult{}, nil
}

func (s *stubClient) ListTools(context.Context, mcpgo.ListToolsRequest) (*mcpgo.ListToolsResult, error) {
	return &mcpgo.ListToolsResult{Tools: s.tools}, nil
}

func (s *stubClient) CallTool(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return mcpgo.NewToolResultText("result:" + req.Params.Name), nil
}

func (s *stubClient) Ping(context.Context) error { return nil }
func (s *stubClient) Close() error               { return nil }

// newTestAgent wires an agent over one stub server exposing the given tools.
func newTestAgent(t *testing.T, provider *scriptedProvider, maxRounds int, tools ...mcpgo.Tool) *ResearchAgent {
	t.Helper()

	cfg := mcp.NewMCPConfig()
	cfg.MCPServers["stub"] = &mcp.ServerConfig{Transport: "stdio", Command: "true"}

	manager := mcp.NewManagerWithFactory(cfg, func(*mcp.ServerConfig) (client.MCPClient, error) {
		return &stubClient{tools: tools}, nil
	})
	registry := mcp.NewRegistry(manager, mcp.ConflictOverwrite)
	invoker := mcp.NewInvoker(registry, manager, time.Second)

	ag := NewResearchAgent(provider, manager, registry, invoker, Options{MaxToolRounds: maxRounds})
	require.NoError(t, ag.Bootstrap(context.Background()))
	return ag
}

func searchTool() mcpgo.Tool {
	return mcpgo.Tool{
		Name:        "search_literature",
		Description: "Search the literature",
		InputSchema: mcpgo.ToolInputSchema{Type: "object"},
	}
}

func TestProcessMessagePlainAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []*schema.Message{assistantText("BRCA1 is a tumor suppressor gene.")}}
	ag := newTestAgent(t, provider, 3, searchTool())

	turn, err := ag.ProcessMessage(context.Background(), "What is BRCA1?")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAssistant, turn.Role)
	assert.Equal(t, "BRCA1 is a tumor suppressor gene.", turn.Content)
	assert.Empty(t, turn.Warning)

	turns := ag.Session().Turns
	require.Len(t, turns, 2)
	assert.Equal(t, entity.RoleUser, turns[0].Role)
	assert.Equal(t, entity.RoleAssistant, turns[1].Role)

	// The model saw the registry's tools.
	require.NotEmpty(t, provider.seenTools[0])
	assert.Equal(t, "search_literature", provider.seenTools[0][0].Name)
}

func TestProcessMessageToolRound(t *testing.T) {
	provider := &scriptedProvider{responses: []*schema.Message{
		assistantToolCall("tc-1", "search_literature", `{"query":"BRCA1"}`),
		assistantText("Found 3 relevant studies."),
	}}
	ag := newTestAgent(t, provider, 3, searchTool())

	turn, err := ag.ProcessMessage(context.Background(), "Find BRCA1 studies")
	require.NoError(t, err)
	assert.Equal(t, "Found 3 relevant studies.", turn.Content)

	turns := ag.Session().Turns
	require.Len(t, turns, 4) // user, assistant(tool calls), tool, assistant

	assert.Equal(t, entity.RoleAssistant, turns[1].Role)
	require.Len(t, turns[1].ToolCalls, 1)
	assert.Equal(t, "tc-1", turns[1].ToolCalls[0].ID)

	assert.Equal(t, entity.RoleTool, turns[2].Role)
	require.Len(t, turns[2].ToolResults, 1)
	res := turns[2].ToolResults[0]
	assert.Equal(t, "tc-1", res.CallID, "result correlates to the preceding assistant turn's call")
	assert.Equal(t, entity.CallSuccess, res.Status)
	assert.Equal(t, "result:search_literature", res.Output)
}

func TestProcessMessageUnknownToolBecomesStructuredResult(t *testing.T) {
	provider := &scriptedProvider{responses: []*schema.Message{
		assistantToolCall("tc-1", "no_such_tool", `{}`),
		assistantText("That tool is unavailable; answering from context."),
	}}
	ag := newTestAgent(t, provider, 3, searchTool())

	turn, err := ag.ProcessMessage(context.Background(), "use the magic tool")
	require.NoError(t, err, "tool failures stay below the session boundary")
	assert.Equal(t, "That tool is unavailable; answering from context.", turn.Content)

	turns := ag.Session().Turns
	require.Len(t, turns, 4)
	res := turns[2].ToolResults[0]
	assert.Equal(t, entity.CallError, res.Status)
	assert.Contains(t, res.ErrorMessage, "unknown tool")
}

func TestMaxToolRoundsYieldsPartialAnswer(t *testing.T) {
	// The model never stops asking for tools.
	provider := &scriptedProvider{responses: []*schema.Message{
		assistantToolCall("tc", "search_literature", `{"query":"loop"}`),
	}}
	ag := newTestAgent(t, provider, 2, searchTool())

	turn, err := ag.ProcessMessage(context.Background(), "loop forever")
	require.NoError(t, err, "hitting the bound is not an error to the caller")
	assert.NotEmpty(t, turn.Warning)
	assert.Contains(t, turn.Warning, "max tool rounds")

	toolTurns := 0
	for _, tr := range ag.Session().Turns {
		if tr.Role == entity.RoleTool {
			toolTurns++
		}
	}
	assert.Equal(t, 2, toolTurns, "exactly the configured number of rounds ran")
	assert.Equal(t, 3, provider.calls)
}

func TestProviderErrorKeepsSessionUsable(t *testing.T) {
	provider := &scriptedProvider{
		responses: []*schema.Message{nil, assistantText("recovered")},
		errs:      []error{errors.New("rate limited")},
	}
	ag := newTestAgent(t, provider, 3, searchTool())
	ctx := context.Background()

	_, err := ag.ProcessMessage(ctx, "first try")
	require.ErrorIs(t, err, errno.ErrModelProvider)

	// The failed cycle is visible in history and the session still works.
	failed := ag.Session().LastTurn()
	assert.NotEmpty(t, failed.Warning)

	turn, err := ag.ProcessMessage(ctx, "second try")
	require.NoError(t, err)
	assert.Equal(t, "recovered", turn.Content)
}

func TestUpdateContextIsNotRetroactive(t *testing.T) {
	provider := &scriptedProvider{responses: []*schema.Message{
		assistantText("first answer"),
		assistantText("second answer"),
	}}
	ag := newTestAgent(t, provider, 3, searchTool())
	ctx := context.Background()

	_, err := ag.ProcessMessage(ctx, "before context")
	require.NoError(t, err)

	recorded := ag.Session().Turns[1].Content

	ag.UpdateContext(&entity.ResearchContext{
		Domain:   "oncology",
		Organism: "Homo sapiens",
		Keywords: []string{"BRCA1"},
	})

	_, err = ag.ProcessMessage(ctx, "after context")
	require.NoError(t, err)

	require.Len(t, provider.seenSystem, 2)
	assert.NotContains(t, provider.seenSystem[0], "oncology")
	assert.Contains(t, provider.seenSystem[1], "oncology")
	assert.Contains(t, provider.seenSystem[1], "Homo sapiens")

	// Past turns are untouched.
	assert.Equal(t, recorded, ag.Session().Turns[1].Content)
}

func TestBuildRequestsAssignsMissingCallIDs(t *testing.T) {
	calls := []*entity.ToolCall{
		{Name: "a", Arguments: `{"x":1}`},
		{ID: "given", Name: "b", Arguments: "not json"},
	}
	reqs := buildRequests(calls)
	require.Len(t, reqs, 2)

	assert.NotEmpty(t, reqs[0].CallID)
	assert.Equal(t, reqs[0].CallID, calls[0].ID, "generated id is written back for correlation")
	assert.Equal(t, float64(1), reqs[0].Arguments["x"])

	assert.Equal(t, "given", reqs[1].CallID)
	assert.Empty(t, reqs[1].Arguments, "bad arguments still dispatch with an empty map")
}

func TestSystemPromptIncludesContext(t *testing.T) {
	assert.Equal(t, basePrompt, systemPrompt(nil))

	got := systemPrompt(&entity.ResearchContext{
		ResearchQuestion: "How do BRCA1 variants affect DNA repair?",
		Metadata:         map[string]string{"cohort": "TCGA-BRCA"},
	})
	assert.Contains(t, got, "How do BRCA1 variants affect DNA repair?")
	assert.Contains(t, got, fmt.Sprintf("- %s: %s", "cohort", "TCGA-BRCA"))
}
