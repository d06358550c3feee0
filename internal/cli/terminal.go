package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/nlpserve/pkg/pipeline"
	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(6)
	wordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func line(w io.Writer, label, body string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label), body)
}

// renderResults prints the results for text i, one line per task (several for trees).
func renderResults(w io.Writer, res *pipeline.Results, i int, tasks pipeline.TaskSet) {
	if res == nil || i >= res.Len() {
		return
	}
	words := res.CWS[i]
	styled := make([]string, len(words))
	for j, word := range words {
		styled[j] = wordStyle.Render(word)
	}
	line(w, "cws", strings.Join(styled, " | "))

	for _, t := range tasks.Tasks() {
		switch t {
		case pipeline.TaskPOS:
			line(w, "pos", tagged(words, res.POS[i]))
		case pipeline.TaskNER:
			if len(res.NER[i]) == 0 {
				line(w, "ner", "-")
			}
			for _, e := range res.NER[i] {
				line(w, "ner", fmt.Sprintf("%s %s [%d,%d]", tagStyle.Render(e.Tag), e.Text, e.Start, e.End))
			}
		case pipeline.TaskSRL:
			if len(res.SRL[i]) == 0 {
				line(w, "srl", "-")
			}
			for _, f := range res.SRL[i] {
				args := make([]string, len(f.Arguments))
				for k, a := range f.Arguments {
					args[k] = tagStyle.Render(a.Role) + "=" + a.Text
				}
				line(w, "srl", fmt.Sprintf("%s: %s", wordStyle.Render(f.Predicate), strings.Join(args, " ")))
			}
		case pipeline.TaskDEP:
			renderTree(w, "dep", words, res.DEP[i])
		case pipeline.TaskSDP:
			renderTree(w, "sdp", words, res.SDP[i])
		case pipeline.TaskSDPG:
			for _, e := range res.SDPG[i] {
				line(w, "sdpg", arc(words, e.Dependent, e.Head, e.Label))
			}
		}
	}
}

func tagged(words, tags []string) string {
	parts := make([]string, len(words))
	for j, word := range words {
		tag := "?"
		if j < len(tags) {
			tag = tags[j]
		}
		parts[j] = tagStyle.Render(word + "/" + tag)
	}
	return strings.Join(parts, " ")
}

func renderTree(w io.Writer, label string, words []string, tree pipeline.Tree) {
	for j := range tree.Head {
		line(w, label, arc(words, j+1, tree.Head[j], tree.Label[j]))
	}
}

// arc formats one 1-based arc as "dependent <-LABEL- head".
func arc(words []string, dep, head int, label string) string {
	return fmt.Sprintf("%s <-%s- %s", node(words, dep), tagStyle.Render(label), node(words, head))
}

func node(words []string, i int) string {
	if i <= 0 || i > len(words) {
		return "ROOT"
	}
	return fmt.Sprintf("%d:%s", i, words[i-1])
}

func renderSentences(w io.Writer, sentences []string) {
	for i, s := range sentences {
		line(w, fmt.Sprintf("%d", i+1), s)
	}
}
