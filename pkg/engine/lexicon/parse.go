package lexicon

import (
	"sort"
	"strings"

	"github.com/bastiangx/nlpserve/pkg/pipeline"
)

// Dependency labels.
const (
	depHED = "HED"
	depSBV = "SBV"
	depVOB = "VOB"
	depATT = "ATT"
	depADV = "ADV"
	depCMP = "CMP"
	depCOO = "COO"
	depPOB = "POB"
	depLAD = "LAD"
	depRAD = "RAD"
	depWP  = "WP"
)

// parse is a dependency tree over one sentence. head is 0-based with -1 for the root.
type parse struct {
	words []string
	tags  []string
	head  []int
	label []string
	root  int
}

func isVerb(tag string) bool {
	return tag == "v"
}

func isNominal(tag string) bool {
	switch tag {
	case "r", "j", "i", "ws", "x", "g":
		return true
	case "nt":
		return false
	}
	return strings.HasPrefix(tag, "n")
}

func isModifier(tag string) bool {
	switch tag {
	case "a", "m", "q", "b":
		return true
	}
	return false
}

// locative prepositions introduce a place or direction.
var locative = map[string]bool{"在": true, "于": true, "从": true, "向": true, "到": true}

// parseDependencies builds a projective-leaning dependency tree with a few attachment
// rules. The head is the first verb, or the last non-punctuation word. Words left of the
// head attach rightwards and words right of it leftwards, so only a handful of
// exceptions can form a cycle; those are reattached to the root.
func parseDependencies(words, tags []string) *parse {
	n := len(words)
	p := &parse{
		words: words,
		tags:  tags,
		head:  make([]int, n),
		label: make([]string, n),
		root:  -1,
	}
	if n == 0 {
		return p
	}
	p.root = p.findRoot()
	for i := 0; i < n; i++ {
		if i == p.root {
			p.head[i], p.label[i] = -1, depHED
			continue
		}
		p.head[i], p.label[i] = p.attach(i)
	}
	p.breakCycles()
	return p
}

func (p *parse) findRoot() int {
	for i, t := range p.tags {
		if isVerb(t) {
			return i
		}
	}
	for i := len(p.tags) - 1; i >= 0; i-- {
		if p.tags[i] != "wp" {
			return i
		}
	}
	return len(p.tags) - 1
}

func (p *parse) attach(i int) (int, string) {
	left := i < p.root
	t := p.tags[i]
	switch {
	case t == "wp":
		return p.root, depWP
	case t == "u":
		if i > 0 {
			return i - 1, depRAD
		}
		return p.root, depRAD
	case t == "c":
		if i+1 < len(p.words) && p.tags[i+1] != "wp" {
			return i + 1, depLAD
		}
		return p.root, depLAD
	case t == "p":
		if left {
			return p.root, depADV
		}
		return p.prevVerb(i), depADV
	case t == "d" || t == "nt":
		if left {
			return p.root, depADV
		}
		if k := p.nextVerb(i); k >= 0 {
			return k, depADV
		}
		return p.prevVerb(i), depADV
	case isModifier(t):
		if k := p.nextNominal(i); k >= 0 {
			return k, depATT
		}
		if left {
			return p.root, depADV
		}
		return p.prevVerb(i), depCMP
	case isVerb(t):
		j := p.prevVerb(i)
		for k := j + 1; k < i; k++ {
			if isNominal(p.tags[k]) {
				return j, depVOB
			}
		}
		return j, depCOO
	case isNominal(t):
		if i > 0 && p.tags[i-1] == "p" {
			return i - 1, depPOB
		}
		if k := p.nextNominal(i); k >= 0 {
			return k, depATT
		}
		if left {
			return p.root, depSBV
		}
		return p.prevVerb(i), depVOB
	}
	if left {
		return p.root, depADV
	}
	return p.prevVerb(i), depADV
}

// prevVerb returns the nearest verb left of i that is not left of the root.
func (p *parse) prevVerb(i int) int {
	for j := i - 1; j > p.root; j-- {
		if isVerb(p.tags[j]) {
			return j
		}
	}
	return p.root
}

func (p *parse) nextVerb(i int) int {
	for j := i + 1; j < len(p.tags); j++ {
		if isVerb(p.tags[j]) {
			return j
		}
	}
	return -1
}

// nextNominal returns the nominal word that i modifies, skipping particles and other
// modifiers in between, or -1.
func (p *parse) nextNominal(i int) int {
	k := i + 1
	for k < len(p.tags) && (p.tags[k] == "u" || isModifier(p.tags[k])) {
		k++
	}
	if k < len(p.tags) && isNominal(p.tags[k]) {
		return k
	}
	return -1
}

func (p *parse) breakCycles() {
	n := len(p.head)
	for i := 0; i < n; i++ {
		j, steps := i, 0
		for j != p.root && steps <= n {
			j = p.head[j]
			steps++
		}
		if steps > n {
			p.head[i], p.label[i] = p.root, depADV
		}
	}
}

// tree returns the head/label form with 1-based heads.
func (p *parse) tree(labels []string) pipeline.Tree {
	t := pipeline.Tree{Head: make([]int, len(p.head)), Label: make([]string, len(p.head))}
	for i, h := range p.head {
		t.Head[i] = h + 1
		t.Label[i] = labels[i]
	}
	return t
}

func (p *parse) children() [][]int {
	kids := make([][]int, len(p.head))
	for i, h := range p.head {
		if h >= 0 {
			kids[h] = append(kids[h], i)
		}
	}
	return kids
}

// span returns the inclusive bounds of the subtree rooted at i.
func (p *parse) span(kids [][]int, i int) (int, int) {
	lo, hi := i, i
	stack := []int{i}
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if j < lo {
			lo = j
		}
		if j > hi {
			hi = j
		}
		stack = append(stack, kids[j]...)
	}
	return lo, hi
}

// semanticLabels relabels the dependency tree with semantic roles.
func (p *parse) semanticLabels() []string {
	out := make([]string, len(p.label))
	for i, l := range p.label {
		switch l {
		case depHED:
			out[i] = "Root"
		case depSBV:
			out[i] = "AGT"
		case depVOB:
			out[i] = "PAT"
		case depATT:
			out[i] = "FEAT"
		case depCOO:
			out[i] = "eCOO"
		case depLAD:
			out[i] = "mRELA"
		case depRAD:
			out[i] = "mDEPD"
		case depWP:
			out[i] = "mPUNC"
		case depCMP:
			out[i] = "MANN"
		case depPOB:
			if locative[p.words[p.head[i]]] {
				out[i] = "LOC"
			} else {
				out[i] = "CONT"
			}
		case depADV:
			switch p.tags[i] {
			case "p":
				out[i] = "mRELA"
			case "nt":
				out[i] = "TIME"
			case "a":
				out[i] = "MANN"
			default:
				out[i] = "mDEPD"
			}
		default:
			out[i] = "mDEPD"
		}
	}
	return out
}

// semanticGraph returns the semantic tree arcs plus an agent arc from every coordinated
// verb to the agents of the verb it is coordinated with.
func (p *parse) semanticGraph(labels []string) []pipeline.Edge {
	edges := make([]pipeline.Edge, 0, len(p.head))
	for i, h := range p.head {
		edges = append(edges, pipeline.Edge{Dependent: i + 1, Head: h + 1, Label: labels[i]})
	}
	for i, h := range p.head {
		if p.label[i] != depCOO || !isVerb(p.tags[i]) {
			continue
		}
		for a, ah := range p.head {
			if ah == h && p.label[a] == depSBV {
				edges = append(edges, pipeline.Edge{Dependent: a + 1, Head: i + 1, Label: "AGT"})
			}
		}
	}
	sort.SliceStable(edges, func(x, y int) bool {
		if edges[x].Dependent != edges[y].Dependent {
			return edges[x].Dependent < edges[y].Dependent
		}
		return edges[x].Head < edges[y].Head
	})
	return edges
}

// roles returns one frame per verb. Coordinated verbs without their own agent share the
// agent of the verb they are coordinated with.
func (p *parse) roles() []pipeline.Frame {
	kids := p.children()
	frames := []pipeline.Frame{}
	for v, t := range p.tags {
		if !isVerb(t) {
			continue
		}
		args := []pipeline.Argument{}
		hasAgent := false
		for _, d := range kids[v] {
			role := p.role(d)
			if role == "" {
				continue
			}
			if role == "A0" {
				hasAgent = true
			}
			args = append(args, p.argument(kids, d, role))
		}
		if !hasAgent && p.label[v] == depCOO && p.head[v] >= 0 {
			for _, d := range kids[p.head[v]] {
				if p.label[d] == depSBV {
					args = append(args, p.argument(kids, d, "A0"))
				}
			}
		}
		sort.SliceStable(args, func(x, y int) bool { return args[x].Start < args[y].Start })
		frames = append(frames, pipeline.Frame{Index: v, Predicate: p.words[v], Arguments: args})
	}
	return frames
}

func (p *parse) role(d int) string {
	switch p.label[d] {
	case depSBV:
		return "A0"
	case depVOB:
		return "A1"
	case depCMP:
		return "ARGM-MNR"
	case depADV:
		switch {
		case p.tags[d] == "nt":
			return "ARGM-TMP"
		case p.tags[d] == "p" && locative[p.words[d]]:
			return "ARGM-LOC"
		}
		return "ARGM-ADV"
	}
	return ""
}

func (p *parse) argument(kids [][]int, d int, role string) pipeline.Argument {
	lo, hi := p.span(kids, d)
	return pipeline.Argument{
		Role:  role,
		Text:  strings.Join(p.words[lo:hi+1], ""),
		Start: lo,
		End:   hi,
	}
}
