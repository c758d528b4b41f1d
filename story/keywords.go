package story

import (
	"strings"
	"unicode/utf8"
)

const (
	maxKeywords = 3
	minTokenLen = 4
)

// Keywords extracts up to three lowercase keywords from transcript text.
// The text is split on whitespace; tokens shorter than four characters and
// stop words are discarded; the survivors keep their input order. Identical
// input always yields the identical sequence.
func Keywords(text string, stop map[string]bool) []string {
	var keywords []string
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(tok) < minTokenLen || stop[tok] {
			continue
		}
		keywords = append(keywords, tok)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
