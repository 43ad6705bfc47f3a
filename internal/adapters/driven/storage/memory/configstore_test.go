package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("pdfjs-reader.default.zoom", "page-fit"))
	require.NoError(t, store.Set("pdfjs-reader.default.zoom", 1.5))

	val, ok := store.Get("pdfjs-reader.default.zoom")
	assert.True(t, ok)
	assert.Equal(t, 1.5, val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_GetString(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("cursor", "hand"))
	require.NoError(t, store.Set("zoom", 2.0))

	assert.Equal(t, "hand", store.GetString("cursor"))
	assert.Equal(t, "", store.GetString("zoom"), "non-string values read as empty")
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_DeleteAndKeys(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("b", "2"))
	require.NoError(t, store.Set("a", "1"))
	require.NoError(t, store.Set("c", "3"))

	assert.Equal(t, []string{"a", "b", "c"}, store.Keys())

	require.NoError(t, store.Delete("b"))
	require.NoError(t, store.Delete("missing"))
	assert.Equal(t, []string{"a", "c"}, store.Keys())
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "v"))
	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	assert.Equal(t, "v", store.GetString("k"), "load does not clear memory values")
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n)
			_ = store.Set(key, n)
			_, _ = store.Get(key)
			_ = store.Keys()
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 50)
}

func TestNewConfigStoreFrom_CopiesValues(t *testing.T) {
	seed := map[string]any{"pdfjs-reader.default.cursor": "hand"}
	store := NewConfigStoreFrom(seed)

	seed["pdfjs-reader.default.cursor"] = "select"
	require.NoError(t, store.Set("pdfjs-reader.default.zoom", "auto"))

	assert.Equal(t, "hand", store.GetString("pdfjs-reader.default.cursor"))
	assert.NotContains(t, seed, "pdfjs-reader.default.zoom")
	assert.Equal(t, []string{"pdfjs-reader.default.cursor", "pdfjs-reader.default.zoom"}, store.Keys())
}
