package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosk404/bioagent/internal/bioagent/entity"
)

func sampleSession() *entity.Session {
	s := entity.NewSession()
	s.UpdateContext(&entity.ResearchContext{
		Domain:           "oncology",
		Organism:         "Homo sapiens",
		ResearchQuestion: "Role of BRCA1 variants in DNA repair",
		Keywords:         []string{"BRCA1", "homologous recombination"},
	})

	s.AppendTurn(entity.NewUserTurn("Find recent BRCA1 studies"))
	s.AppendTurn(entity.NewAssistantTurn("Searching the literature.", []*entity.ToolCall{
		{ID: "tc-1", Name: "search_literature", Arguments: `{"query":"BRCA1"}`},
	}))
	s.AppendTurn(entity.NewToolTurn([]*entity.ToolCallResult{
		{CallID: "tc-1", ToolName: "search_literature", Status: entity.CallSuccess, Output: "PMID:12345", DurationMs: 42},
		{CallID: "tc-2", ToolName: "fetch_abstract", Status: entity.CallTimeout, ErrorMessage: "tool call timed out after 30s"},
	}))
	s.AppendTurn(entity.NewAssistantTurn("Found one relevant study (PMID:12345).", nil))
	return s
}

func TestExportImportJSONRoundTrip(t *testing.T) {
	orig := sampleSession()

	data, err := ExportJSON(orig)
	require.NoError(t, err)

	got, err := ImportJSON(data)
	require.NoError(t, err)

	assert.Equal(t, orig.ID, got.ID)
	assert.True(t, orig.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.Turns, len(orig.Turns))

	// Turn order, correlation ids and statuses all survive the round trip.
	for i, turn := range orig.Turns {
		assert.Equal(t, turn.Role, got.Turns[i].Role)
		assert.Equal(t, turn.Content, got.Turns[i].Content)
	}
	require.Len(t, got.Turns[1].ToolCalls, 1)
	assert.Equal(t, "tc-1", got.Turns[1].ToolCalls[0].ID)
	require.Len(t, got.Turns[2].ToolResults, 2)
	assert.Equal(t, "tc-1", got.Turns[2].ToolResults[0].CallID)
	assert.Equal(t, entity.CallTimeout, got.Turns[2].ToolResults[1].Status)
	assert.Equal(t, int64(42), got.Turns[2].ToolResults[0].DurationMs)

	require.NotNil(t, got.Context)
	assert.Equal(t, orig.Context.ResearchQuestion, got.Context.ResearchQuestion)
	assert.Equal(t, orig.Context.Keywords, got.Context.Keywords)
}

func TestImportJSONEmptyTurns(t *testing.T) {
	s := entity.NewSession()
	data, err := ExportJSON(s)
	require.NoError(t, err)

	got, err := ImportJSON(data)
	require.NoError(t, err)
	assert.NotNil(t, got.Turns)
	assert.Empty(t, got.Turns)
}

func TestImportJSONRejectsGarbage(t *testing.T) {
	_, err := ImportJSON([]byte("{broken"))
	assert.Error(t, err)
}

func TestExportMarkdown(t *testing.T) {
	s := sampleSession()
	md := ExportMarkdown(s)

	assert.Contains(t, md, "# Research Session "+s.ID)
	assert.Contains(t, md, "## Research Context")
	assert.Contains(t, md, "- Organism: Homo sapiens")
	assert.Contains(t, md, "### User\n\nFind recent BRCA1 studies")
	assert.Contains(t, md, "- requested tool `search_literature` (tc-1)")
	assert.Contains(t, md, "**search_literature** (success, 42ms)")
	assert.Contains(t, md, "PMID:12345")
	assert.Contains(t, md, "> tool call timed out after 30s")
}

func TestExportMarkdownWarningAndEmptyContext(t *testing.T) {
	s := entity.NewSession()
	turn := entity.NewAssistantTurn("partial", nil)
	turn.Warning = "stopped after 5 tool rounds"
	s.AppendTurn(turn)

	md := ExportMarkdown(s)
	assert.NotContains(t, md, "## Research Context")
	assert.Contains(t, md, "> Warning: stopped after 5 tool rounds")
}
