// Package bm25 implements Unicode tokenization, postings maintenance,
// and Okapi BM25 scoring over items stored in the graph (spec §4.6).
package bm25

import (
	"strings"
	"unicode"

	"github.com/helixdb/helix-core/pkg/value"
)

// minTokenLength filters out tokens of length <= 2, a compile-time flag
// in the source this engine was distilled from (spec §4.6).
const minTokenLength = 3

// Tokenize lowercases text, splits on non-alphanumeric runes, and drops
// tokens shorter than minTokenLength.
func Tokenize(text string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tok := cur.String()
			if len([]rune(tok)) >= minTokenLength {
				out = append(out, tok)
			}
			cur.Reset()
		}
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			cur.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return out
}

// Flatten concatenates an item's label and every property key/value into
// one token source (spec glossary "Flatten").
func Flatten(label string, props *value.Object) string {
	var b strings.Builder
	b.WriteString(label)
	if props != nil {
		for _, k := range props.Keys() {
			b.WriteByte(' ')
			b.WriteString(k)
			b.WriteByte(' ')
			v, _ := props.Get(k)
			b.WriteString(v.String())
		}
	}
	return b.String()
}

// termFrequencies counts occurrences of each token, preserving nothing
// about order (postings only need the count).
func termFrequencies(tokens []string) map[string]uint32 {
	tf := make(map[string]uint32, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
