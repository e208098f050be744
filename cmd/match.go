package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/tregex/formatter"
	tt "github.com/gnoswap-labs/tregex/internal/types"
	"github.com/gnoswap-labs/tregex/search"
)

var (
	adhocPatterns   []string
	ignorePatterns  string
	allSolutions    bool
	matchJsonOutput bool
	outPath         string
)

// stdin is read when "-" is given as a path.
var stdin io.Reader = os.Stdin

var matchCmd = &cobra.Command{
	Use:   "match [paths...]",
	Short: "Search treebank files for pattern matches",
	Long: `Runs the configured patterns, plus any given with -p, over every tree of the
given files and directories. Use "-" to read trees from standard input.
Example) tregex match -p 'NP < NN=noun' wsj/`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		config, err := loadConfig(cfgFile, adhocPatterns)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		if allSolutions {
			config.Unique = false
		}

		engine, err := search.NewFromConfig(config, logger, cacheDir)
		if err != nil {
			logger.Fatal("Failed to initialize search engine", zap.Error(err))
		}

		if ignorePatterns != "" {
			for _, name := range strings.Split(ignorePatterns, ",") {
				engine.IgnorePattern(strings.TrimSpace(name))
			}
		}

		found, err := runMatchProcess(ctx, logger, engine, args, os.Stdout, matchJsonOutput, outPath)
		if err != nil || found > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	matchCmd.Flags().StringArrayVarP(&adhocPatterns, "pattern", "p", nil, "Pattern to search for (repeatable)")
	matchCmd.Flags().StringVar(&ignorePatterns, "ignore", "", "Comma-separated list of patterns to ignore")
	matchCmd.Flags().BoolVar(&allSolutions, "all", false, "Report every way a node matches, not just the first")
	matchCmd.Flags().BoolVar(&matchJsonOutput, "json", false, "Output matches in JSON format")
	matchCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
}

// loadConfig reads the configuration file, falling back to .tregex.yaml in
// the working directory and then to the defaults. Default patterns are
// dropped when ad-hoc ones are given.
func loadConfig(path string, adhoc []string) (search.Config, error) {
	if path == "" {
		if _, err := os.Stat(search.DefaultConfigFile); err == nil {
			path = search.DefaultConfigFile
		}
	}

	var config search.Config
	if path != "" {
		var err error
		if config, err = search.LoadConfig(path); err != nil {
			return config, err
		}
	} else {
		config = search.DefaultConfig()
		if len(adhoc) > 0 {
			config.Patterns = nil
		}
	}

	if config.Patterns == nil {
		config.Patterns = make(map[string]tt.ConfigPattern)
	}
	for i, p := range adhoc {
		config.Patterns[fmt.Sprintf("pattern-%d", i+1)] = tt.ConfigPattern{Pattern: p}
	}
	return config, nil
}

// runMatchProcess searches paths and prints the results to w, returning the
// number of matches.
func runMatchProcess(
	ctx context.Context,
	logger *zap.Logger,
	engine search.SearchEngine,
	paths []string,
	w io.Writer,
	isJson bool,
	jsonOutput string,
) (int, error) {
	var matches []tt.Match
	var err error
	if len(paths) == 1 && paths[0] == "-" {
		var source []byte
		if source, err = io.ReadAll(stdin); err == nil {
			matches, err = search.ProcessSources(ctx, logger, engine, [][]byte{source}, search.ProcessSource)
		}
	} else {
		matches, err = search.ProcessFiles(ctx, logger, engine, paths, search.ProcessFile)
	}
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		return 0, err
	}

	if err := printMatches(w, matches, isJson, jsonOutput); err != nil {
		logger.Error("Error printing matches", zap.Error(err))
		return len(matches), err
	}
	return len(matches), nil
}

func printMatches(w io.Writer, matches []tt.Match, isJson bool, jsonOutput string) error {
	if !isJson {
		fmt.Fprint(w, formatter.FormatMatches(matches))
		fmt.Fprintln(w, formatter.Summary(matches))
		return nil
	}

	if matches == nil {
		matches = []tt.Match{}
	}
	d, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling matches to JSON: %w", err)
	}
	if jsonOutput == "" {
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	return os.WriteFile(jsonOutput, d, 0o644)
}
