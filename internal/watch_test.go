package internal

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedEngine(t *testing.T) (*Engine, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	engine, err := NewEngine(testPatterns, Options{Logger: zap.New(core)})
	require.NoError(t, err)
	return engine, logs
}

func TestHandleFileEvent(t *testing.T) {
	t.Parallel()

	t.Run("treebank write", func(t *testing.T) {
		t.Parallel()
		engine, logs := observedEngine(t)
		path := writeTreebank(t, "watched.mrg", testTreebank)

		engine.handleFileEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})

		searched := logs.FilterMessage("file searched").All()
		require.Len(t, searched, 1)
		assert.Equal(t, int64(3), searched[0].ContextMap()["matches"])
		assert.Equal(t, 3, logs.FilterMessage("match").Len())
	})

	t.Run("other files are skipped", func(t *testing.T) {
		t.Parallel()
		engine, logs := observedEngine(t)
		path := writeTreebank(t, "notes.txt", testTreebank)

		engine.handleFileEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
		assert.Zero(t, logs.Len())
	})

	t.Run("removal is skipped", func(t *testing.T) {
		t.Parallel()
		engine, logs := observedEngine(t)
		path := writeTreebank(t, "gone.mrg", testTreebank)

		engine.handleFileEvent(fsnotify.Event{Name: path, Op: fsnotify.Remove})
		assert.Zero(t, logs.Len())
	})

	t.Run("unreadable file is logged", func(t *testing.T) {
		t.Parallel()
		engine, logs := observedEngine(t)
		path := writeTreebank(t, "broken.mrg", "(S (NP x)")

		engine.handleFileEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
		assert.Equal(t, 1, logs.FilterMessage("error processing file").Len())
	})
}

func TestStartStopWatching(t *testing.T) {
	t.Parallel()
	engine, _ := observedEngine(t)
	dir := t.TempDir()

	require.NoError(t, engine.StartWatching(dir))
	assert.Error(t, engine.StartWatching(dir))
	require.NoError(t, engine.StopWatching())
	assert.NoError(t, engine.StopWatching())

	assert.Error(t, engine.StartWatching(dir+"/missing"))
}
