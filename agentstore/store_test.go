package agentstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/tool"
)

func newTestStore(t *testing.T) (*FileStore, *tool.Registry) {
	t.Helper()
	reg := tool.NewRegistry()
	require.NoError(t, reg.Register(tool.NewFunc(
		tool.Info{Name: "search", Description: "search the web", InputSchema: json.RawMessage(`{}`)},
		func(ctx context.Context, args map[string]any) (tool.Result, error) { return tool.Result{}, nil },
	)))

	store, err := NewFileStore(t.TempDir(), reg)
	require.NoError(t, err)
	return store, reg
}

func sampleDef(name, owner string) Definition {
	return Definition{
		OwnerID:   owner,
		AgentName: name,
		NickName:  "Researcher",
		LLMType:   "basic",
		Tools:     []ToolRef{{Name: "search"}},
		Prompt:    "<<CURRENT_TIME>> help the user",
	}
}

func TestFileStore_CreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, sampleDef("researcher", "u1"))
	require.NoError(t, err)
	assert.Equal(t, "search the web", created.Tools[0].Description)
	assert.False(t, created.CreatedAt.IsZero())

	got, ok, err := store.Get(ctx, "researcher")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "u1", got.OwnerID)
}

func TestFileStore_CreateRejectsDuplicate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, sampleDef("researcher", "u1"))
	require.NoError(t, err)

	_, err = store.Create(ctx, sampleDef("researcher", "u2"))
	require.Error(t, err)
	assert.Equal(t, coorerr.AlreadyExists, coorerr.KindOf(err))
}

func TestFileStore_CreateRejectsUnknownTool(t *testing.T) {
	store, _ := newTestStore(t)
	def := sampleDef("researcher", "u1")
	def.Tools = []ToolRef{{Name: "does-not-exist"}}

	_, err := store.Create(context.Background(), def)
	require.Error(t, err)
	assert.Equal(t, coorerr.NotFound, coorerr.KindOf(err))
}

func TestFileStore_ListFiltersByVisibility(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, sampleDef("researcher", "u1"))
	require.NoError(t, err)
	_, err = store.Create(ctx, sampleDef("coder", "u2"))
	require.NoError(t, err)
	_, err = store.Create(ctx, sampleDef("reporter", Shared))
	require.NoError(t, err)

	defs, err := store.List(ctx, "u1", "")
	require.NoError(t, err)

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.AgentName)
	}
	assert.ElementsMatch(t, []string{"researcher", "reporter"}, names)
}

func TestFileStore_ListMatchesPattern(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, sampleDef("stock_analyzer", "u2"))
	require.NoError(t, err)
	_, err = store.Create(ctx, sampleDef("weather_bot", "u2"))
	require.NoError(t, err)

	defs, err := store.List(ctx, "u2", "stock")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "stock_analyzer", defs[0].AgentName)
}

func TestFileStore_EditPreservesToolsWhenNoneSupplied(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, sampleDef("researcher", "u1"))
	require.NoError(t, err)

	edit := created
	edit.Tools = nil
	edit.Description = "updated description"

	updated, err := store.Edit(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, "updated description", updated.Description)
	require.Len(t, updated.Tools, 1)
	assert.Equal(t, "search", updated.Tools[0].Name)
	assert.Equal(t, created.OwnerID, updated.OwnerID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestFileStore_EditUnknownAgentFails(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Edit(context.Background(), sampleDef("ghost", "u1"))
	require.Error(t, err)
	assert.Equal(t, coorerr.NotFound, coorerr.KindOf(err))
}

func TestFileStore_RemoveSharedRequiresAdmin(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, sampleDef("reporter", Shared))
	require.NoError(t, err)

	err = store.Remove(ctx, "u1", "reporter", false)
	require.Error(t, err)

	err = store.Remove(ctx, "u1", "reporter", true)
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, "reporter")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_RemoveRejectsNonOwner(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, sampleDef("researcher", "u1"))
	require.NoError(t, err)

	err = store.Remove(ctx, "u2", "researcher", false)
	require.Error(t, err)
}

func TestFileStore_LoadAllPreservesInsertionOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := store.Create(ctx, sampleDef(name, "u1"))
		require.NoError(t, err)
	}

	defs, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{defs[0].AgentName, defs[1].AgentName, defs[2].AgentName})
}
