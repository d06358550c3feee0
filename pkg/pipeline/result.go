package pipeline

// Entity is a named entity over an inclusive token span.
type Entity struct {
	Tag   string `json:"tag"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Argument is one semantic role of a predicate over an inclusive token span.
type Argument struct {
	Role  string `json:"role"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Frame is the semantic role frame of one predicate. Index is the 0-based token index.
type Frame struct {
	Index     int        `json:"index"`
	Predicate string     `json:"predicate"`
	Arguments []Argument `json:"arguments"`
}

// Tree is a dependency tree in head/label form. Heads are 1-based, 0 marks the root.
type Tree struct {
	Head  []int    `json:"head"`
	Label []string `json:"label"`
}

// Edge is one arc of a semantic dependency graph, 1-based with 0 as root.
type Edge struct {
	Dependent int    `json:"dependent"`
	Head      int    `json:"head"`
	Label     string `json:"label"`
}

// Results holds one entry per input text for every computed task. Tasks that were not
// requested are left nil.
type Results struct {
	CWS  [][]string `json:"cws"`
	POS  [][]string `json:"pos"`
	NER  [][]Entity `json:"ner"`
	SRL  [][]Frame  `json:"srl"`
	DEP  []Tree     `json:"dep"`
	SDP  []Tree     `json:"sdp"`
	SDPG [][]Edge   `json:"sdpg"`
}

// NewResults allocates empty, non-nil result lists for every task in set.
func NewResults(set TaskSet, n int) *Results {
	r := &Results{CWS: make([][]string, 0, n)}
	if set.Has(TaskPOS) {
		r.POS = make([][]string, 0, n)
	}
	if set.Has(TaskNER) {
		r.NER = make([][]Entity, 0, n)
	}
	if set.Has(TaskSRL) {
		r.SRL = make([][]Frame, 0, n)
	}
	if set.Has(TaskDEP) {
		r.DEP = make([]Tree, 0, n)
	}
	if set.Has(TaskSDP) {
		r.SDP = make([]Tree, 0, n)
	}
	if set.Has(TaskSDPG) {
		r.SDPG = make([][]Edge, 0, n)
	}
	return r
}

// Get returns the result list of task t, or nil.
func (r *Results) Get(t Task) any {
	switch t {
	case TaskCWS:
		return r.CWS
	case TaskPOS:
		return r.POS
	case TaskNER:
		return r.NER
	case TaskSRL:
		return r.SRL
	case TaskDEP:
		return r.DEP
	case TaskSDP:
		return r.SDP
	case TaskSDPG:
		return r.SDPG
	}
	return nil
}

// Len returns the number of texts covered by the run.
func (r *Results) Len() int {
	return len(r.CWS)
}

// Restrict drops every task that is not part of set. Lists for tasks in set that are
// missing are reported by Complete.
func (r *Results) Restrict(set TaskSet) *Results {
	out := &Results{CWS: r.CWS}
	if set.Has(TaskPOS) {
		out.POS = r.POS
	}
	if set.Has(TaskNER) {
		out.NER = r.NER
	}
	if set.Has(TaskSRL) {
		out.SRL = r.SRL
	}
	if set.Has(TaskDEP) {
		out.DEP = r.DEP
	}
	if set.Has(TaskSDP) {
		out.SDP = r.SDP
	}
	if set.Has(TaskSDPG) {
		out.SDPG = r.SDPG
	}
	return out
}

// Complete reports whether every task in set has exactly n entries.
func (r *Results) Complete(set TaskSet, n int) bool {
	for _, t := range set.Tasks() {
		if resultLen(r.Get(t)) != n {
			return false
		}
	}
	return true
}

func resultLen(v any) int {
	switch x := v.(type) {
	case [][]string:
		if x == nil {
			return -1
		}
		return len(x)
	case [][]Entity:
		if x == nil {
			return -1
		}
		return len(x)
	case [][]Frame:
		if x == nil {
			return -1
		}
		return len(x)
	case []Tree:
		if x == nil {
			return -1
		}
		return len(x)
	case [][]Edge:
		if x == nil {
			return -1
		}
		return len(x)
	}
	return -1
}
