package lexicon

import (
	"strings"
)

func isTerminator(r rune) bool {
	switch r {
	case '。', '！', '？', '!', '?', '…', '；', ';':
		return true
	}
	return false
}

// isCloser reports runes that stay with the sentence they close.
func isCloser(r rune) bool {
	switch r {
	case '”', '’', '"', '\'', '」', '』', '）', ')', '】', '》', '〉', ']':
		return true
	}
	return false
}

// splitSentences cuts text after each run of terminators, keeping trailing closers with
// the sentence. Newlines always end a sentence. Blank pieces are dropped.
func splitSentences(text string) []string {
	runes := []rune(text)
	out := []string{}
	start := 0
	emit := func(end int) {
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
	}
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' || r == '\r' {
			emit(i)
			start = i + 1
			continue
		}
		if !isTerminator(r) {
			continue
		}
		j := i + 1
		for j < len(runes) && isTerminator(runes[j]) {
			j++
		}
		for j < len(runes) && isCloser(runes[j]) {
			j++
		}
		emit(j)
		i = j - 1
	}
	emit(len(runes))
	return out
}
