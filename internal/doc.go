// Package internal runs named tree patterns over treebank files.
//
// Key components:
//
// Engine: compiles the configured patterns once and applies them to every
// tree of a file, one goroutine per pattern. Results are ordered by tree
// index and pattern name so repeated runs agree.
//
// Cache: remembers the results of a file on disk and hands them back while
// the file content, the pattern set and the entry age allow it.
//
// Watching: StartWatching follows directories with fsnotify and logs the
// results of treebank files as they are written.
//
// Usage:
//
//	engine, err := internal.NewEngine(map[string]types.ConfigPattern{
//	    "noun-child": {Pattern: "NP < NN=noun"},
//	}, internal.Options{Unique: true})
//	if err != nil {
//	    // handle error
//	}
//
//	matches, err := engine.Run("wsj_0001.mrg")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, m := range matches {
//	    fmt.Printf("%s matched tree %d: %s\n", m.Pattern, m.TreeIndex, m.Node)
//	}
//
// This package is intended for internal use within the tregex tool and should
// not be imported by external packages.
package internal
