package tregex

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// word is a literal label inside a regex: word characters, '-' and "\$".
const word = `(?:[\w-]|\\\$)+`

var (
	anythingRe   = regexp2.MustCompile(`^(?:__|/\.\*/|/\^\.\*\$/)$`, regexp2.None)
	exactWordRe  = regexp2.MustCompile(`^/\^(`+word+`)\$/$`, regexp2.None)
	exactCharRe  = regexp2.MustCompile(`^/\^(?:\[([^\\\]^])\]|([^\\^$.|?*+()\[\]{}/]))\$/$`, regexp2.None)
	exactSetRe   = regexp2.MustCompile(`^/\^\(\?:(`+word+`(?:\|`+word+`)*)\)\$/$`, regexp2.None)
	foldSetRe    = regexp2.MustCompile(`^/\^\(\?i:(`+word+`(?:\|`+word+`)*)\)\$/$`, regexp2.None)
	prefixWordRe = regexp2.MustCompile(`^/\^(`+word+`)/$`, regexp2.None)
	prefixSetRe  = regexp2.MustCompile(`^/\^\(\?:(`+word+`(?:\|`+word+`)*)\)/$`, regexp2.None)
)

var unescapeDollar = strings.NewReplacer(`\$`, `$`)

// classifyDescription picks the cheapest mode that matches the same labels
// as desc. For ModePattern it returns the regex source to compile.
func classifyDescription(desc string) (mode DescriptionMode, exact string, set *stringSet, body string) {
	if ok, _ := anythingRe.MatchString(desc); ok {
		return ModeAnything, "", nil, ""
	}

	if src, isRegex := regexBody(desc); isRegex {
		if g, ok := firstGroup(exactWordRe, desc); ok {
			return ModeExact, unescapeDollar.Replace(g), nil, ""
		}
		if g, ok := firstGroup(exactCharRe, desc); ok {
			return ModeExact, g, nil, ""
		}
		if words, ok := setWords(exactSetRe, desc); ok {
			return ModeStringSet, "", newStringSet(words, setExact), ""
		}
		if words, ok := setWords(foldSetRe, desc); ok {
			return ModeStringSet, "", newStringSet(words, setFold), ""
		}
		if g, ok := firstGroup(prefixWordRe, desc); ok {
			return ModeStringSet, "", newStringSet([]string{unescapeDollar.Replace(g)}, setPrefix), ""
		}
		if words, ok := setWords(prefixSetRe, desc); ok {
			return ModeStringSet, "", newStringSet(words, setPrefix), ""
		}
		return ModePattern, "", nil, src
	}

	if strings.Contains(desc, "|") {
		words := strings.Split(desc, "|")
		if len(words) <= maxSetWords {
			return ModeStringSet, "", newStringSet(words, setExact), ""
		}
		escaped := make([]string, len(words))
		for i, w := range words {
			escaped[i] = regexp2.Escape(w)
		}
		return ModePattern, "", nil, "^(?:" + strings.Join(escaped, "|") + ")$"
	}
	return ModeExact, desc, nil, ""
}

// regexBody strips the slashes of a "/regex/" description.
func regexBody(desc string) (string, bool) {
	if len(desc) < 2 || desc[0] != '/' || desc[len(desc)-1] != '/' {
		return "", false
	}
	return desc[1 : len(desc)-1], true
}

// firstGroup returns the first non-empty capture of re on s.
func firstGroup(re *regexp2.Regexp, s string) (string, bool) {
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return "", false
	}
	for _, g := range m.Groups()[1:] {
		if g.Length > 0 {
			return g.String(), true
		}
	}
	return "", false
}

func setWords(re *regexp2.Regexp, s string) ([]string, bool) {
	g, ok := firstGroup(re, s)
	if !ok {
		return nil, false
	}
	words := strings.Split(g, "|")
	if len(words) > maxSetWords {
		return nil, false
	}
	for i, w := range words {
		words[i] = unescapeDollar.Replace(w)
	}
	return words, true
}

type setKind int

const (
	setExact setKind = iota
	setPrefix
	setFold
)

// stringSet tests a label against a few literal words.
type stringSet struct {
	kind  setKind
	words []string
}

func newStringSet(words []string, kind setKind) *stringSet {
	return &stringSet{kind: kind, words: words}
}

func (s *stringSet) contains(label string) bool {
	for _, w := range s.words {
		switch s.kind {
		case setExact:
			if label == w {
				return true
			}
		case setPrefix:
			if strings.HasPrefix(label, w) {
				return true
			}
		case setFold:
			if strings.EqualFold(label, w) {
				return true
			}
		}
	}
	return false
}
