package formatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"

	tt "github.com/gnoswap-labs/tregex/internal/types"
)

var (
	matchStyle   = color.New(color.FgGreen, color.Bold)
	patternStyle = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	nameStyle    = color.New(color.FgMagenta)
	noStyle      = color.New(color.FgWhite)
)

const matchTemplate = `{{header .Pattern .Filename .TreeIndex}}
{{subtree .Node}}
{{- bindings .Named}}
{{- bindings .Variables}}
`

var tmpl = template.Must(template.New("match").Funcs(template.FuncMap{
	"header":   header,
	"subtree":  subtree,
	"bindings": bindings,
}).Parse(matchTemplate))

// FormatMatches renders matches in a human-readable form, one block per
// match separated by blank lines.
func FormatMatches(matches []tt.Match) string {
	var builder strings.Builder
	for _, m := range matches {
		builder.WriteString(FormatMatch(m))
		builder.WriteString("\n")
	}
	return builder.String()
}

func FormatMatch(m tt.Match) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, m); err != nil {
		return fmt.Sprintf("Error formatting match: %v", err)
	}
	return buf.String()
}

// Summary reports how many matches were found across how many files.
func Summary(matches []tt.Match) string {
	files := make(map[string]struct{})
	for _, m := range matches {
		files[m.Filename] = struct{}{}
	}
	return fmt.Sprintf("found %s %s in %s %s",
		humanize.Comma(int64(len(matches))), english.PluralWord(len(matches), "match", "matches"),
		humanize.Comma(int64(len(files))), english.PluralWord(len(files), "file", ""),
	)
}

// utils functions used in the text template

func header(pattern, filename string, index int) string {
	location := filename
	if location == "" {
		location = "<input>"
	}
	return matchStyle.Sprint("match: ") + patternStyle.Sprint(pattern) + "\n" +
		lineStyle.Sprint(" --> ") + fileStyle.Sprintf("%s:tree %d", location, index)
}

func subtree(node string) string {
	return lineStyle.Sprint("  |\n  | ") + noStyle.Sprint(node)
}

func bindings(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString("\n")
		sb.WriteString(lineStyle.Sprint("  = "))
		sb.WriteString(nameStyle.Sprint(name))
		sb.WriteString(": ")
		sb.WriteString(values[name])
	}
	return sb.String()
}
