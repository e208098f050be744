package internal

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnoswap-labs/tregex/internal/types"
)

func sampleMatches(filename string) []tt.Match {
	return []tt.Match{{
		Pattern:   "noun-child",
		Filename:  filename,
		TreeIndex: 2,
		Node:      "(NP (NN dog))",
		Named:     map[string]string{"noun": "(NN dog)"},
		Variables: map[string]string{"i": "1"},
	}}
}

func TestCache(t *testing.T) {
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "cache")

	cache, err := NewCache(cacheDir, "v1")
	require.NoError(t, err)

	t.Run("SaveAndLoad", func(t *testing.T) {
		filename := writeTreebank(t, "saved.mrg", testTreebank)
		matches := sampleMatches(filename)
		require.NoError(t, cache.Set(filename, matches))

		loaded, found := cache.Get(filename)
		assert.True(t, found)
		assert.Equal(t, matches, loaded)

		reopened, err := NewCache(cacheDir, "v1")
		require.NoError(t, err)
		loaded, found = reopened.Get(filename)
		assert.True(t, found)
		assert.Equal(t, matches, loaded)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Get("nonexistent.mrg")
		assert.False(t, found)
	})

	t.Run("FileModified", func(t *testing.T) {
		filename := writeTreebank(t, "modified.mrg", testTreebank)
		require.NoError(t, cache.Set(filename, sampleMatches(filename)))

		require.NoError(t, os.WriteFile(filename, []byte("(S (VP (VB run)))"), 0o644))
		_, found := cache.Get(filename)
		assert.False(t, found)
	})

	t.Run("FingerprintChanged", func(t *testing.T) {
		filename := writeTreebank(t, "patterns.mrg", testTreebank)
		other, err := NewCache(filepath.Join(tmpDir, "other"), "v1")
		require.NoError(t, err)
		require.NoError(t, other.Set(filename, sampleMatches(filename)))

		other.SetFingerprint("v2")
		_, found := other.Get(filename)
		assert.False(t, found)
	})

	t.Run("MaxAge", func(t *testing.T) {
		filename := writeTreebank(t, "aged.mrg", testTreebank)
		aged, err := NewCache(filepath.Join(tmpDir, "aged"), "v1")
		require.NoError(t, err)
		require.NoError(t, aged.Set(filename, sampleMatches(filename)))

		_, found := aged.Get(filename)
		assert.True(t, found, "zero max age never expires")

		aged.SetMaxAge(time.Nanosecond)
		time.Sleep(time.Millisecond)
		_, found = aged.Get(filename)
		assert.False(t, found)
	})

	t.Run("InvalidateAll", func(t *testing.T) {
		filename := writeTreebank(t, "all.mrg", testTreebank)
		require.NoError(t, cache.Set(filename, sampleMatches(filename)))
		cache.InvalidateAll()
		_, found := cache.Get(filename)
		assert.False(t, found)
	})
}

func TestCacheWithEngine(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	engine, err := NewEngine(testPatterns, Options{CacheDir: cacheDir})
	require.NoError(t, err)
	require.NotNil(t, engine.cache)

	filename := writeTreebank(t, "engine.mrg", testTreebank)

	matches, err := engine.Run(filename)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	cached, found := engine.cache.Get(filename)
	require.True(t, found)
	assert.Equal(t, matches, cached)

	again, err := engine.Run(filename)
	require.NoError(t, err)
	assert.Equal(t, matches, again)

	require.NoError(t, os.WriteFile(filename, []byte("(S (NP (NN cats)) (VP (VB run)))"), 0o644))
	changed, err := engine.Run(filename)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, "noun-child", changed[0].Pattern)

	engine.IgnorePattern("noun-child")
	_, found = engine.cache.Get(filename)
	assert.False(t, found, "ignoring a pattern drops cached results")
}

func TestCacheConcurrency(t *testing.T) {
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache"), "v1")
	require.NoError(t, err)

	filename := writeTreebank(t, "concurrent.mrg", testTreebank)
	matches := sampleMatches(filename)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Set(filename, matches))
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get(filename)
		}()
	}
	wg.Wait()

	got, found := cache.Get(filename)
	assert.True(t, found)
	assert.Equal(t, matches, got)
}
