package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/services"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+s.Addr(), services.TreeStateFromRoots)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, s
}

func sampleTree() *domain.TreeState {
	return services.NewTreeState("SRC", "1", []domain.Page{
		{ID: "1", Title: "Root"},
		{ID: "2", Title: "Child", Ancestors: []domain.PageRef{{ID: "1"}}},
		{ID: "3", Title: "Grandchild", Ancestors: []domain.PageRef{{ID: "1"}, {ID: "2"}}},
	})
}

func TestNewRedisStore(t *testing.T) {
	store, _ := setupTestRedis(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore("not-a-url", services.TreeStateFromRoots)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	_, err := NewRedisStore("redis://"+addr, services.TreeStateFromRoots)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
}

func TestRedisStore_SaveAndGetTree(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()
	tree := sampleTree()

	require.NoError(t, store.SaveTree(ctx, "sess-1", tree))

	got, err := store.GetTree(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "SRC", got.SpaceKey)
	assert.Equal(t, "1", got.RootPageID)
	assert.Equal(t, 3, got.PageCount)
	assert.True(t, tree.LoadedAt.Equal(got.LoadedAt))

	require.Len(t, got.Roots, 1)
	assert.Equal(t, "Child", got.Roots[0].Children[0].Title)

	node, ok := got.Node("3")
	require.True(t, ok, "index is rebuilt on read")
	assert.Equal(t, "2", node.ParentID)

	require.Len(t, got.Selectable, 1)
	assert.Equal(t, "1", got.Selectable[0].Value)
}

func TestRedisStore_SaveTree_SetsTTL(t *testing.T) {
	store, s := setupTestRedis(t)
	require.NoError(t, store.SaveTree(context.Background(), "sess-1", sampleTree()))

	assert.Equal(t, DefaultTTL, s.TTL("confclone:tree:sess-1"))
}

func TestRedisStore_GetTree_Expired(t *testing.T) {
	store, s := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, store.SaveTree(ctx, "sess-1", sampleTree()))

	s.FastForward(DefaultTTL + time.Second)

	_, err := store.GetTree(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisStore_GetTree_Corrupt(t *testing.T) {
	store, s := setupTestRedis(t)
	require.NoError(t, s.Set("confclone:tree:sess-1", "{not json"))

	_, err := store.GetTree(context.Background(), "sess-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal tree")
}

func TestRedisStore_SaveTree_Invalid(t *testing.T) {
	store, _ := setupTestRedis(t)
	assert.ErrorIs(t, store.SaveTree(context.Background(), "", sampleTree()), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SaveTree(context.Background(), "sess-1", nil), domain.ErrInvalidInput)
}

func TestRedisStore_Delete(t *testing.T) {
	store, s := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, store.SaveTree(ctx, "sess-1", sampleTree()))

	require.NoError(t, store.Delete(ctx, "sess-1"))

	assert.False(t, s.Exists("confclone:tree:sess-1"))
	_, err := store.GetTree(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
