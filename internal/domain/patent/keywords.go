package patent

import (
	"strings"
	"unicode/utf8"
)

// stopWords are dropped from the source abstract before matching.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "in": {}, "on": {}, "of": {}, "for": {},
	"to": {}, "with": {}, "is": {}, "was": {}, "and": {}, "or": {},
}

// punctuation is stripped before splitting.  Other punctuation stays attached
// to its token.
var punctuation = strings.NewReplacer(".", "", ",", "")

// IsStopWord reports whether w (already lowercased) is a stop word.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// tokens lowercases text, removes periods and commas and splits on runs of
// whitespace.
func tokens(text string) []string {
	return strings.Fields(punctuation.Replace(strings.ToLower(text)))
}

// Keywords extracts the distinct significant words of a source abstract:
// tokens longer than minLength characters that are not stop words, in first
// occurrence order.
func Keywords(text string, minLength int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range tokens(text) {
		if utf8.RuneCountInString(tok) <= minLength || IsStopWord(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// TokenSet returns the distinct tokens of a candidate abstract with no length
// or stop-word filtering.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokens(text) {
		set[tok] = struct{}{}
	}
	return set
}

// KeywordSet is Keywords as a set, used when candidates are filtered the same
// way as the source.
func KeywordSet(text string, minLength int) map[string]struct{} {
	kws := Keywords(text, minLength)
	set := make(map[string]struct{}, len(kws))
	for _, k := range kws {
		set[k] = struct{}{}
	}
	return set
}

// Overlap counts the keywords present in set.
func Overlap(keywords []string, set map[string]struct{}) int {
	n := 0
	for _, k := range keywords {
		if _, ok := set[k]; ok {
			n++
		}
	}
	return n
}

//Personal.AI order the ending
