package types

// Match is one result of running a named pattern over a treebank file.
// Node holds the matched subtree in bracket form, Named the subtrees bound
// to named nodes and Variables the variable strings of the match.
type Match struct {
	Pattern   string            `json:"pattern"`
	Filename  string            `json:"filename,omitempty"`
	TreeIndex int               `json:"tree"`
	Node      string            `json:"node"`
	Named     map[string]string `json:"named,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

// ConfigPattern is a pattern entry of the configuration file.
type ConfigPattern struct {
	Pattern     string `yaml:"pattern"`
	Description string `yaml:"description,omitempty"`
	Off         bool   `yaml:"off,omitempty"`
}
