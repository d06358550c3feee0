package lexicon

import (
	"strings"

	"github.com/bastiangx/nlpserve/internal/utils"
	"github.com/bastiangx/nlpserve/pkg/dictionary"
	"github.com/bastiangx/nlpserve/pkg/pipeline"
)

// tagWords assigns the dictionary tag of every word, guessing from its characters when
// the word is unknown or untagged.
func tagWords(v dictionary.View, words []string) []string {
	tags := make([]string, len(words))
	for i, w := range words {
		if e, ok := v.Lookup(w); ok && e.Tag != "" {
			tags[i] = e.Tag
			continue
		}
		tags[i] = guessTag(w)
	}
	return tags
}

func guessTag(w string) string {
	switch {
	case utils.IsOnlyNumbers(w):
		return "m"
	case utils.IsOnlyPunct(w):
		return "wp"
	case utils.ContainsLatin(w):
		return "ws"
	}
	return "n"
}

var entityTags = map[string]string{
	"nh": "Nh",
	"ns": "Ns",
	"ni": "Ni",
}

// recognize groups maximal runs of person, place and organization words into entities.
func recognize(words, tags []string) []pipeline.Entity {
	out := []pipeline.Entity{}
	for i := 0; i < len(words); {
		label, ok := entityTags[tags[i]]
		if !ok {
			i++
			continue
		}
		j := i + 1
		for j < len(words) && tags[j] == tags[i] {
			j++
		}
		out = append(out, pipeline.Entity{
			Tag:   label,
			Text:  strings.Join(words[i:j], ""),
			Start: i,
			End:   j - 1,
		})
		i = j
	}
	return out
}
