package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestDefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".confclone"), dir)
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "deep")

	store, err := NewConfigStore(nestedPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nestedPath, "config.toml"), store.Path())

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestConfigStore_GetString(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("confluence.base_url", "https://example.atlassian.net/wiki"))
	assert.Equal(t, "https://example.atlassian.net/wiki", store.GetString("confluence.base_url"))
	assert.Equal(t, "", store.GetString("nonexistent"))

	require.NoError(t, store.Set("confluence.requests_per_second", 2.0))
	assert.Equal(t, "", store.GetString("confluence.requests_per_second"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("rps", 2.5))
	assert.InDelta(t, 2.5, store.GetFloat("rps"), 0.0001)

	// Simulate a TOML integer
	store.mu.Lock()
	store.data["int64_key"] = int64(3)
	store.mu.Unlock()
	assert.InDelta(t, 3.0, store.GetFloat("int64_key"), 0.0001)

	require.NoError(t, store.Set("text", "fast"))
	assert.Zero(t, store.GetFloat("text"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_Persistence_NestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("confluence.email", "dev@example.com"))
	require.NoError(t, store1.Set("confluence.requests_per_second", 4.0))
	require.NoError(t, store1.Set("target.parent_page_id", "12345"))

	raw, err := os.ReadFile(store1.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[confluence]")
	assert.Contains(t, string(raw), "[target]")

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", store2.GetString("confluence.email"))
	assert.InDelta(t, 4.0, store2.GetFloat("confluence.requests_per_second"), 0.0001)
	assert.Equal(t, "12345", store2.GetString("target.parent_page_id"))
}

func TestConfigStore_Load_HandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte(`
[confluence]
base_url = "https://wiki.example.com"
auth_method = "bearer"

[substitution]
pattern = '(.*)-Draft'
replacement = '\1-Final'
`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "bearer", store.GetString("confluence.auth_method"))
	assert.Equal(t, `(.*)-Draft`, store.GetString("substitution.pattern"))
	assert.Equal(t, `\1-Final`, store.GetString("substitution.replacement"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Load_CommentOnlyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# Just a comment\n\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("any_key")
	assert.False(t, ok)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("confluence.api_token", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	// Channels cannot be marshaled to TOML
	err = store.Set("channel", make(chan int))
	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("source.space_key", "SRC")
		}()
		go func() {
			defer wg.Done()
			_ = store.GetString("source.space_key")
		}()
	}
	wg.Wait()

	assert.Equal(t, "SRC", store.GetString("source.space_key"))
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a.b":   1,
		"a.c":   2,
		"top":   "x",
		"top.y": "collides",
	})

	assert.Equal(t, map[string]any{"b": 1, "c": 2}, nested["a"])
	assert.Equal(t, "x", nested["top"])
	assert.Equal(t, "collides", nested["top.y"])
}

func TestConfigStore_IsConfigEvent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	other := filepath.Join(filepath.Dir(store.Path()), "other.toml")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: store.Path(), Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: store.Path(), Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: store.Path(), Op: fsnotify.Rename}, true},
		{"write and chmod", fsnotify.Event{Name: store.Path(), Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"chmod only", fsnotify.Event{Name: store.Path(), Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: other, Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.isConfigEvent(tt.event))
		})
	}
}

func TestConfigStore_Watch_ReloadsOnWrite(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	content := []byte("[target]\nspace_key = \"DST\"\n")
	require.NoError(t, os.WriteFile(store.Path(), content, 0600))

	// A truncating write may be seen as several events, so wait for the final content.
	assert.Eventually(t, func() bool {
		return store.GetString("target.space_key") == "DST"
	}, 5*time.Second, 20*time.Millisecond)
	assert.Eventually(t, func() bool { return len(changed) > 0 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
