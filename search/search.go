package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnoswap-labs/tregex/internal"
	tt "github.com/gnoswap-labs/tregex/internal/types"
	"github.com/gnoswap-labs/tregex/scanner"
)

type SearchEngine interface {
	Run(filePath string) ([]tt.Match, error)
	RunSource(source []byte) ([]tt.Match, error)
	IgnorePattern(name string)
}

// New builds an engine from the configuration file at configurationPath.
// An empty path uses DefaultConfig.
func New(configurationPath string, logger *zap.Logger, cacheDir string) (*internal.Engine, error) {
	config := DefaultConfig()
	if configurationPath != "" {
		var err error
		config, err = LoadConfig(configurationPath)
		if err != nil {
			return nil, err
		}
	}
	return NewFromConfig(config, logger, cacheDir)
}

// NewFromConfig builds an engine from an already parsed configuration.
func NewFromConfig(config Config, logger *zap.Logger, cacheDir string) (*internal.Engine, error) {
	hf, err := config.headFinder()
	if err != nil {
		return nil, err
	}
	return internal.NewEngine(config.Patterns, internal.Options{
		HeadFinder:    hf,
		BasicCategory: config.basicCategory(),
		RegexTimeout:  config.RegexTimeout,
		Unique:        config.Unique,
		CacheDir:      cacheDir,
		Logger:        logger,
	})
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine SearchEngine,
	sources [][]byte,
	processor func(SearchEngine, []byte) ([]tt.Match, error),
) ([]tt.Match, error) {
	var allMatches []tt.Match
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allMatches, err
		}
		matches, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allMatches = append(allMatches, matches...)
	}

	return allMatches, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine SearchEngine,
	paths []string,
	processor func(SearchEngine, string) ([]tt.Match, error),
) ([]tt.Match, error) {
	var allMatches []tt.Match
	for _, path := range paths {
		matches, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allMatches = append(allMatches, matches...)
	}

	return allMatches, nil
}

// ProcessPath searches a single file, or every treebank file below a
// directory. Files of a directory run concurrently, one worker per CPU, and
// their results are returned in path order. A failing file does not stop
// the others; its error is returned alongside the matches of the rest.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine SearchEngine,
	path string,
	processor func(SearchEngine, string) ([]tt.Match, error),
) ([]tt.Match, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		matches, err := processor(engine, path)
		if err != nil {
			return []tt.Match{}, err
		}
		return matches, nil
	}

	files, err := scanner.New(path).Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(path),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	results := make([][]tt.Match, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i, file := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			defer bar.Add(1)
			if ctx.Err() != nil {
				return nil
			}
			matches, err := processor(engine, file.Path)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", file.Path), zap.Error(err))
				}
				errs[i] = err
				return nil
			}
			results[i] = matches
			return nil
		})
	}
	_ = g.Wait()
	_ = bar.Finish()

	matches := []tt.Match{}
	for _, r := range results {
		matches = append(matches, r...)
	}

	if err := ctx.Err(); err != nil {
		return matches, err
	}
	return matches, errors.Join(errs...)
}

func ProcessFile(engine SearchEngine, filePath string) ([]tt.Match, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine SearchEngine, source []byte) ([]tt.Match, error) {
	return engine.RunSource(source)
}
