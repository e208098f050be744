package search

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	tt "github.com/gnoswap-labs/tregex/internal/types"
	"github.com/gnoswap-labs/tregex/tree"
)

// DefaultConfigFile is the configuration file looked up when none is given.
const DefaultConfigFile = ".tregex.yaml"

// Config is the content of a .tregex.yaml file.
type Config struct {
	Name string `yaml:"name"`
	// HeadFinder is "penn", "left", "right" or the path of a yaml head
	// rules file.
	HeadFinder    string                      `yaml:"head_finder"`
	BasicCategory *bool                       `yaml:"basic_category,omitempty"`
	RegexTimeout  time.Duration               `yaml:"regex_timeout,omitempty"`
	Unique        bool                        `yaml:"unique"`
	Patterns      map[string]tt.ConfigPattern `yaml:"patterns"`
}

// DefaultConfig is the configuration written by "tregex init".
func DefaultConfig() Config {
	basic := true
	return Config{
		Name:          "tregex",
		HeadFinder:    "penn",
		BasicCategory: &basic,
		Unique:        true,
		Patterns: map[string]tt.ConfigPattern{
			"noun-child": {
				Pattern:     "NP < NN=noun",
				Description: "noun phrases with a noun child",
			},
			"no-vp": {
				Pattern:     "S !< VP",
				Description: "clauses without a verb phrase",
			},
		},
	}
}

// LoadConfig parses the configuration file at path.
func LoadConfig(path string) (Config, error) {
	var config Config

	f, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return config, fmt.Errorf("error parsing %s: %w", path, err)
	}

	return config, nil
}

// WriteConfig stores config at path in yaml form.
func WriteConfig(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}

// headFinder resolves the head_finder setting.
func (c Config) headFinder() (tree.HeadFinder, error) {
	switch c.HeadFinder {
	case "", "penn":
		return tree.DefaultHeadFinder(), nil
	case "left":
		return tree.FirstChildHeadFinder, nil
	case "right":
		return tree.LastChildHeadFinder, nil
	}
	rules, err := tree.LoadHeadRules(c.HeadFinder)
	if err != nil {
		return nil, err
	}
	return tree.NewRuleHeadFinder(rules), nil
}

// basicCategory returns nil for the default basic category function.
func (c Config) basicCategory() func(string) string {
	if c.BasicCategory == nil || *c.BasicCategory {
		return nil
	}
	return func(label string) string { return label }
}
