package internal

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnoswap-labs/tregex/internal/types"
	"github.com/gnoswap-labs/tregex/tree"
	"github.com/gnoswap-labs/tregex/tregex"
)

// Options tunes how an Engine compiles and runs its patterns.
type Options struct {
	HeadFinder    tree.HeadFinder
	BasicCategory func(string) string
	RegexTimeout  time.Duration
	// Unique reports one result per matching node instead of one per
	// distinct way the node matches.
	Unique   bool
	CacheDir string
	Logger   *zap.Logger
}

// Engine runs a set of named patterns over treebank files.
type Engine struct {
	compiler *tregex.Compiler
	patterns map[string]*tregex.Pattern
	ignored  map[string]bool
	unique   bool
	cache    *Cache
	logger   *zap.Logger

	mu         sync.Mutex
	watcher    *fsnotify.Watcher
	isWatching bool
	done       chan struct{}
}

// NewEngine compiles every pattern that is not switched off.
func NewEngine(patterns map[string]tt.ConfigPattern, opts Options) (*Engine, error) {
	var copts []tregex.CompilerOption
	if opts.HeadFinder != nil {
		copts = append(copts, tregex.WithHeadFinder(opts.HeadFinder))
	}
	if opts.BasicCategory != nil {
		copts = append(copts, tregex.WithBasicCategory(opts.BasicCategory))
	}
	if opts.RegexTimeout > 0 {
		copts = append(copts, tregex.WithRegexTimeout(opts.RegexTimeout))
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := &Engine{
		compiler: tregex.NewCompiler(copts...),
		patterns: make(map[string]*tregex.Pattern),
		ignored:  make(map[string]bool),
		unique:   opts.Unique,
		logger:   logger,
	}

	for name, p := range patterns {
		if p.Off {
			continue
		}
		if err := engine.AddPattern(name, p.Pattern); err != nil {
			return nil, err
		}
	}

	if opts.CacheDir != "" {
		cache, err := NewCache(opts.CacheDir, engine.fingerprint())
		if err != nil {
			return nil, err
		}
		engine.cache = cache
	}

	return engine, nil
}

// AddPattern compiles text and registers it under name, replacing any
// pattern already registered there.
func (e *Engine) AddPattern(name, text string) error {
	p, err := e.compiler.Compile(text)
	if err != nil {
		return fmt.Errorf("pattern %q: %w", name, err)
	}
	e.patterns[name] = p
	if e.cache != nil {
		e.cache.SetFingerprint(e.fingerprint())
	}
	return nil
}

// Patterns returns the registered pattern names in sorted order.
func (e *Engine) Patterns() []string {
	names := make([]string, 0, len(e.patterns))
	for name := range e.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pattern returns the compiled pattern registered under name.
func (e *Engine) Pattern(name string) (*tregex.Pattern, bool) {
	p, ok := e.patterns[name]
	return p, ok
}

func (e *Engine) IgnorePattern(name string) {
	if e.ignored == nil {
		e.ignored = make(map[string]bool)
	}
	e.ignored[name] = true
	if e.cache != nil {
		e.cache.SetFingerprint(e.fingerprint())
	}
}

// Run applies every active pattern to each tree of the named file. Matches
// come back ordered by tree index, then pattern name, then search order.
func (e *Engine) Run(filename string) ([]tt.Match, error) {
	if e.cache != nil {
		if matches, ok := e.cache.Get(filename); ok {
			e.logger.Debug("cache hit", zap.String("file", filename))
			return matches, nil
		}
	}

	trees, err := tree.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	matches := e.runTrees(filename, trees)

	if e.cache != nil {
		if err := e.cache.Set(filename, matches); err != nil {
			e.logger.Warn("failed to cache results", zap.String("file", filename), zap.Error(err))
		}
	}
	return matches, nil
}

// RunSource applies every active pattern to the trees read from source.
func (e *Engine) RunSource(source []byte) ([]tt.Match, error) {
	r, err := tree.NewReader(bytes.NewReader(source))
	if err != nil {
		return nil, err
	}
	trees, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing content: %w", err)
	}
	return e.runTrees("", trees), nil
}

func (e *Engine) runTrees(filename string, trees []*tree.Tree) []tt.Match {
	var wg sync.WaitGroup
	var mu sync.Mutex

	var allMatches []tt.Match
	for name, pattern := range e.patterns {
		if e.ignored[name] {
			continue
		}
		wg.Add(1)
		go func(name string, p *tregex.Pattern) {
			defer wg.Done()
			matches := e.search(filename, name, p, trees)

			mu.Lock()
			allMatches = append(allMatches, matches...)
			mu.Unlock()
		}(name, pattern)
	}
	wg.Wait()

	sort.SliceStable(allMatches, func(i, j int) bool {
		if allMatches[i].TreeIndex != allMatches[j].TreeIndex {
			return allMatches[i].TreeIndex < allMatches[j].TreeIndex
		}
		return allMatches[i].Pattern < allMatches[j].Pattern
	})
	return allMatches
}

// search runs one pattern over the trees with a fresh matcher per tree.
func (e *Engine) search(filename, name string, p *tregex.Pattern, trees []*tree.Tree) []tt.Match {
	var matches []tt.Match
	for i, t := range trees {
		m := p.Matcher(t)
		next := m.Find
		if e.unique {
			next = m.FindNextMatchingNode
		}
		for next() {
			matches = append(matches, newMatch(filename, name, i, m))
		}
	}
	return matches
}

func newMatch(filename, pattern string, index int, m *tregex.Matcher) tt.Match {
	match := tt.Match{
		Pattern:   pattern,
		Filename:  filename,
		TreeIndex: index,
	}
	if n := m.Match(); n != nil {
		match.Node = n.String()
	}
	if names := m.NodeNames(); len(names) > 0 {
		match.Named = make(map[string]string, len(names))
		for _, name := range names {
			match.Named[name] = m.Node(name).String()
		}
	}
	if vars := m.Variables(); len(vars.Names()) > 0 {
		match.Variables = make(map[string]string)
		for _, name := range vars.Names() {
			match.Variables[name], _ = vars.Get(name)
		}
	}
	return match
}

// fingerprint identifies the active pattern set so cached results are
// dropped when it changes.
func (e *Engine) fingerprint() string {
	hash := md5.New()
	fmt.Fprintf(hash, "unique=%t\n", e.unique)
	for _, name := range e.Patterns() {
		if e.ignored[name] {
			continue
		}
		fmt.Fprintf(hash, "%s\x00%s\n", name, e.patterns[name])
	}
	return fmt.Sprintf("%x", hash.Sum(nil))
}
