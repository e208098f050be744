package tree

import "strings"

// annotationChars introduce functional tags or indices in treebank labels,
// as in "NP-SBJ-1" or "NP=2".
const annotationChars = "-=|#^~_"

// BasicCategory strips functional annotations from a label: "NP-SBJ-1"
// becomes "NP". A label that starts with an annotation character keeps the
// span up to the matching closing character, so "-NONE-" and "-LRB-" are
// returned unchanged.
func BasicCategory(label string) string {
	return label[:basicCategoryEnd(label)]
}

func basicCategoryEnd(label string) int {
	var opener byte
	for i := 0; i < len(label); i++ {
		ch := label[i]
		if !strings.ContainsRune(annotationChars, rune(ch)) {
			continue
		}
		switch {
		case i == 0:
			opener = ch
		case opener != 0 && ch == opener:
			opener = 0
		default:
			return i
		}
	}
	return len(label)
}
