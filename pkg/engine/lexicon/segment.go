package lexicon

import (
	"unicode"

	"github.com/bastiangx/nlpserve/internal/utils"
	"github.com/bastiangx/nlpserve/pkg/dictionary"
)

// segment splits text into words by forward maximum matching against the dictionary.
// Runs of latin letters and digits, Chinese numerals and repeated punctuation are kept
// together when the dictionary has nothing longer. Whitespace separates words and is
// never emitted.
func segment(v dictionary.View, text string) []string {
	runes := []rune(text)
	words := []string{}
	for i := 0; i < len(runes); {
		r := runes[i]
		if unicode.IsSpace(r) {
			i++
			continue
		}
		n := 0
		switch {
		case utils.IsLatinOrDigit(r):
			n = latinRun(runes, i)
		case utils.IsPunct(r):
			n = sameRun(runes, i)
		default:
			n = v.LongestMatch(runes, i)
			if n <= 1 && utils.IsOnlyNumbers(string(r)) {
				if m := numeralRun(runes, i); m > n {
					n = m
				}
			}
		}
		if n <= 0 {
			n = 1
		}
		words = append(words, string(runes[i:i+n]))
		i += n
	}
	return words
}

// latinRun returns the length of the latin/digit run at i. A '.' between two digits
// stays inside the run.
func latinRun(runes []rune, i int) int {
	j := i
	for j < len(runes) {
		r := runes[j]
		if utils.IsLatinOrDigit(r) {
			j++
			continue
		}
		if r == '.' && j > i && j+1 < len(runes) && unicode.IsDigit(runes[j-1]) && unicode.IsDigit(runes[j+1]) {
			j++
			continue
		}
		break
	}
	return j - i
}

func sameRun(runes []rune, i int) int {
	j := i + 1
	for j < len(runes) && runes[j] == runes[i] {
		j++
	}
	return j - i
}

func numeralRun(runes []rune, i int) int {
	j := i
	for j < len(runes) && !utils.IsLatinOrDigit(runes[j]) && utils.IsOnlyNumbers(string(runes[j])) {
		j++
	}
	return j - i
}
