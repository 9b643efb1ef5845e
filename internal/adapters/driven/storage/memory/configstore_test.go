package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("confluence.base_url", "https://a.example"))
	require.NoError(t, store.Set("confluence.base_url", "https://b.example"))

	val, ok := store.Get("confluence.base_url")
	assert.True(t, ok)
	assert.Equal(t, "https://b.example", val)
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := NewConfigStore()

	val, ok := store.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_GetString(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("str", "value"))
	require.NoError(t, store.Set("num", 42))

	assert.Equal(t, "value", store.GetString("str"))
	assert.Equal(t, "", store.GetString("num"), "non-string values read as empty")
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("f64", 2.5))
	require.NoError(t, store.Set("int", 3))
	require.NoError(t, store.Set("i64", int64(4)))
	require.NoError(t, store.Set("str", "5"))

	assert.InDelta(t, 2.5, store.GetFloat("f64"), 0.0001)
	assert.InDelta(t, 3.0, store.GetFloat("int"), 0.0001)
	assert.InDelta(t, 4.0, store.GetFloat("i64"), 0.0001)
	assert.Zero(t, store.GetFloat("str"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_LoadAndPath(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Watch_ReturnsOnCancel(t *testing.T) {
	store := NewConfigStore()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx, func() {}) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("key", "value")
		}()
		go func() {
			defer wg.Done()
			_ = store.GetString("key")
		}()
	}
	wg.Wait()

	assert.Equal(t, "value", store.GetString("key"))
}
