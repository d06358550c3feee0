package utils

import (
	"strings"
)

// WordSet filters repeated words, keeping the first occurrence
type WordSet struct {
	seen map[string]bool
}

// NewWordSet creates an empty filter
func NewWordSet() *WordSet {
	return &WordSet{seen: make(map[string]bool)}
}

// ShouldInclude reports whether word is new and not blank, and records it
func (s *WordSet) ShouldInclude(word string) bool {
	word = strings.TrimSpace(word)
	if word == "" || s.seen[word] {
		return false
	}
	s.seen[word] = true
	return true
}

// DedupeWords trims words and drops blanks and repeats, keeping input order
func DedupeWords(words []string) []string {
	set := NewWordSet()
	out := make([]string, 0, len(words))
	for _, w := range words {
		if set.ShouldInclude(w) {
			out = append(out, strings.TrimSpace(w))
		}
	}
	return out
}
