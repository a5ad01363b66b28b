package mcp

import (
	"context"
	"errors"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosk404/bioagent/internal/bioagent/errno"
)

// newConnectedRegistry builds a manager+registry with the given servers
// connected and registered.
func newConnectedRegistry(t *testing.T, ff *fakeFactory, ids ...string) (Manager, *Registry) {
	t.Helper()
	m := NewManagerWithFactory(testConfig(ids...), ff.factory)
	_, err := m.ConnectAll(context.Background())
	require.NoError(t, err)

	r := NewRegistry(m, ConflictOverwrite)
	require.NoError(t, r.RegisterAll())
	return m, r
}

func TestRegisterConflictPolicies(t *testing.T) {
	m := NewManagerWithFactory(testConfig("a"), newFakeFactory().factory)

	overwrite := NewRegistry(m, ConflictOverwrite)
	require.NoError(t, overwrite.Register(ServerDescriptor{ID: "a", Name: "one"}))
	require.NoError(t, overwrite.Register(ServerDescriptor{ID: "a", Name: "two"}))
	desc, ok := overwrite.Server("a")
	require.True(t, ok)
	assert.Equal(t, "two", desc.Name)
	assert.Equal(t, []string{"a"}, overwrite.ServerIDs())

	reject := NewRegistry(m, ConflictReject)
	require.NoError(t, reject.Register(ServerDescriptor{ID: "a"}))
	assert.ErrorIs(t, reject.Register(ServerDescriptor{ID: "a"}), errno.ErrDuplicateServer)
}

func TestRefreshPopulatesLookup(t *testing.T) {
	ff := newFakeFactory()
	ff.client("pubmed").setTools([]mcpgo.Tool{
		textTool("search_literature", "Search PubMed abstracts"),
		textTool("fetch_abstract", "Fetch one abstract by PMID"),
	})

	_, r := newConnectedRegistry(t, ff, "pubmed")
	require.NoError(t, r.Refresh(context.Background(), "pubmed"))

	td, ok := r.Lookup("search_literature")
	require.True(t, ok)
	assert.Equal(t, "pubmed", td.ServerID)
	assert.Equal(t, "Search PubMed abstracts", td.Description)
	require.NotNil(t, td.InputSchema)
	assert.Equal(t, "object", td.InputSchema["type"])

	_, ok = r.Lookup("does_not_exist")
	assert.False(t, ok)
}

func TestRefreshReplacesToolSetAtomically(t *testing.T) {
	ff := newFakeFactory()
	cli := ff.client("genes")
	cli.setTools([]mcpgo.Tool{textTool("x", ""), textTool("y", "")})

	_, r := newConnectedRegistry(t, ff, "genes")
	ctx := context.Background()
	require.NoError(t, r.Refresh(ctx, "genes"))

	cli.setTools([]mcpgo.Tool{textTool("y", ""), textTool("z", "")})
	require.NoError(t, r.Refresh(ctx, "genes"))

	_, ok := r.Lookup("x")
	assert.False(t, ok, "removed tool must not survive a refresh")
	_, ok = r.Lookup("z")
	assert.True(t, ok)
}

func TestFailedRefreshKeepsPriorToolsAndMarksStale(t *testing.T) {
	ff := newFakeFactory()
	cli := ff.client("genes")
	cli.setTools([]mcpgo.Tool{textTool("x", ""), textTool("y", "")})

	_, r := newConnectedRegistry(t, ff, "genes")
	ctx := context.Background()
	require.NoError(t, r.Refresh(ctx, "genes"))
	require.False(t, r.Stale("genes"))

	cli.setListErr(errors.New("server crashed"))
	require.Error(t, r.Refresh(ctx, "genes"))

	_, ok := r.Lookup("x")
	assert.True(t, ok, "failed refresh must leave the prior tool set intact")
	_, ok = r.Lookup("y")
	assert.True(t, ok)
	assert.True(t, r.Stale("genes"))

	// Recovery clears the stale mark.
	cli.setTools([]mcpgo.Tool{textTool("x", "")})
	require.NoError(t, r.Refresh(ctx, "genes"))
	assert.False(t, r.Stale("genes"))
}

func TestRefreshUnregisteredServer(t *testing.T) {
	m := NewManagerWithFactory(testConfig("a"), newFakeFactory().factory)
	r := NewRegistry(m, ConflictOverwrite)

	err := r.Refresh(context.Background(), "a")
	assert.ErrorIs(t, err, errno.ErrServerNotFound)
}

func TestDuplicateToolNameLastRegisteredWins(t *testing.T) {
	ff := newFakeFactory()
	ff.client("alpha").setTools([]mcpgo.Tool{textTool("search", "alpha search")})
	ff.client("beta").setTools([]mcpgo.Tool{textTool("search", "beta search")})

	_, r := newConnectedRegistry(t, ff, "alpha", "beta")
	for _, err := range r.RefreshAll(context.Background()) {
		require.NoError(t, err)
	}

	td, ok := r.Lookup("search")
	require.True(t, ok)
	assert.Equal(t, "beta", td.ServerID, "later-registered server shadows the earlier one")

	// The shadowed tool is still visible through its server.
	alphaTools := r.ToolsByServer("alpha")
	require.Len(t, alphaTools, 1)
	assert.Equal(t, "alpha search", alphaTools[0].Description)
}

func TestSearchOrderAndMatching(t *testing.T) {
	ff := newFakeFactory()
	ff.client("a").setTools([]mcpgo.Tool{
		textTool("zeta_blast", "Sequence alignment"),
		textTool("align_reads", "Aligns sequencing reads"),
	})
	ff.client("b").setTools([]mcpgo.Tool{
		textTool("annotate", "Gene ALIGNment annotator"),
	})

	_, r := newConnectedRegistry(t, ff, "a", "b")
	for _, err := range r.RefreshAll(context.Background()) {
		require.NoError(t, err)
	}

	got := r.Search("align")
	names := make([]string, 0, len(got))
	for _, td := range got {
		names = append(names, td.Name)
	}
	// Server registration order first, tool name order within a server.
	assert.Equal(t, []string{"align_reads", "zeta_blast", "annotate"}, names)

	// Restartable: a second identical query sees the same sequence.
	assert.Equal(t, got, r.Search("align"))

	assert.Len(t, r.Tools(), 3)
	assert.Empty(t, r.Search("no such tool"))
}
