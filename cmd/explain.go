package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/tregex/tregex"
)

var explainCmd = &cobra.Command{
	Use:   "explain <pattern>",
	Short: "Show how a pattern is compiled",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, err := tregex.Compile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(explainPattern(p))
	},
}

// explainPattern renders the node tree of p, one node per line.
func explainPattern(p *tregex.Pattern) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "pattern: %s\n", p)
	explainNode(&sb, p.Root(), 0)
	return sb.String()
}

func explainNode(sb *strings.Builder, n tregex.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := n.(type) {
	case *tregex.Coordination:
		op := "or"
		if n.Conj() {
			op = "and"
		}
		fmt.Fprintf(sb, "%s%s%s\n", indent, modifiers(n), op)
		for _, c := range n.Children() {
			explainNode(sb, c, depth+1)
		}
	case *tregex.Description:
		rel := n.Relation()
		fmt.Fprintf(sb, "%s%s%s %s [%s]: %s\n", indent, modifiers(n), rel, label(n), n.Mode(), rel.Describe())
		if n.Child() != nil {
			explainNode(sb, n.Child(), depth+1)
		}
	}
}

func modifiers(n tregex.Node) string {
	switch {
	case n.Negated():
		return "not "
	case n.Optional():
		return "maybe "
	}
	return ""
}

func label(d *tregex.Description) string {
	if d.Mode() == tregex.ModeBackreference {
		return "=" + d.Name()
	}

	var sb strings.Builder
	if d.Mode() == tregex.ModeLink {
		sb.WriteString("~" + d.Link())
	} else {
		if d.NegatedDesc() {
			sb.WriteString("!")
		}
		if d.BasicCategory() {
			sb.WriteString("@")
		}
		sb.WriteString(d.Desc())
	}
	if d.Name() != "" {
		sb.WriteString("=" + d.Name())
	}
	return sb.String()
}
