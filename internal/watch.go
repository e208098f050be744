package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnoswap-labs/tregex/internal/types"
	"github.com/gnoswap-labs/tregex/scanner"
)

// settleDelay lets a burst of writes to one file land before it is re-run.
const settleDelay = 100 * time.Millisecond

// StartWatching re-runs the patterns on every treebank file written under
// dirs until StopWatching is called.
func (e *Engine) StartWatching(dirs ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isWatching {
		return errors.New("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = watcher
	e.isWatching = true
	e.done = make(chan struct{})
	go e.watchLoop(watcher, e.done)
	e.logger.Info("watching", zap.Strings("dirs", dirs))
	return nil
}

func (e *Engine) StopWatching() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isWatching {
		e.logger.Warn("not watching")
		return nil
	}

	e.isWatching = false
	close(e.done)
	return e.watcher.Close()
}

func (e *Engine) watchLoop(watcher *fsnotify.Watcher, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !scanner.IsTreebank(event.Name) {
		return
	}

	time.Sleep(settleDelay)
	matches, err := e.Run(event.Name)
	if err != nil {
		e.logger.Error("error processing file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	e.reportMatches(event.Name, matches)
}

func (e *Engine) reportMatches(filename string, matches []tt.Match) {
	e.logger.Info("file searched", zap.String("file", filename), zap.Int("matches", len(matches)))
	for _, m := range matches {
		e.logger.Info("match",
			zap.String("pattern", m.Pattern),
			zap.Int("tree", m.TreeIndex),
			zap.String("node", m.Node),
		)
	}
}
