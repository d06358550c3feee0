// Package pipelinetest provides an in-memory pipeline.Adapter for tests.
package pipelinetest

import (
	"context"
	"strings"
	"sync"

	"github.com/bastiangx/nlpserve/pkg/pipeline"
)

// Fake segments on whitespace and fills every other task with placeholder values.
// Setting one of the error fields makes the matching operation fail.
type Fake struct {
	SplitErr error
	AddErr   error
	RunErr   error

	mu      sync.Mutex
	added   []string
	windows []int
	runs    []pipeline.TaskSet
}

var _ pipeline.Adapter = (*Fake)(nil)

// SplitSentences returns every text as a single sentence.
func (f *Fake) SplitSentences(_ context.Context, texts []string) ([][]string, error) {
	if f.SplitErr != nil {
		return nil, pipeline.Wrap("split", f.SplitErr)
	}
	out := make([][]string, len(texts))
	for i, t := range texts {
		out[i] = []string{t}
	}
	return out, nil
}

// AddWords records the words.
func (f *Fake) AddWords(_ context.Context, words []string, maxWindow int) error {
	if maxWindow <= 0 {
		return pipeline.Errorf("add_words", "%w: got %d", pipeline.ErrInvalidWindow, maxWindow)
	}
	if f.AddErr != nil {
		return pipeline.Wrap("add_words", f.AddErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, words...)
	f.windows = append(f.windows, maxWindow)
	return nil
}

// RunTasks splits on whitespace and fills the requested tasks.
func (f *Fake) RunTasks(_ context.Context, texts []string, tasks pipeline.TaskSet) (*pipeline.Results, error) {
	if f.RunErr != nil {
		return nil, pipeline.Wrap("run", f.RunErr)
	}
	f.mu.Lock()
	f.runs = append(f.runs, tasks)
	f.mu.Unlock()

	res := pipeline.NewResults(tasks, len(texts))
	for _, text := range texts {
		words := strings.Fields(text)
		if words == nil {
			words = []string{}
		}
		res.CWS = append(res.CWS, words)
		tags := make([]string, len(words))
		heads := make([]int, len(words))
		labels := make([]string, len(words))
		for i := range words {
			tags[i] = "n"
			labels[i] = "ATT"
			heads[i] = 0
		}
		if tasks.Has(pipeline.TaskPOS) {
			res.POS = append(res.POS, tags)
		}
		if tasks.Has(pipeline.TaskNER) {
			res.NER = append(res.NER, []pipeline.Entity{})
		}
		if tasks.Has(pipeline.TaskSRL) {
			res.SRL = append(res.SRL, []pipeline.Frame{})
		}
		if tasks.Has(pipeline.TaskDEP) {
			res.DEP = append(res.DEP, pipeline.Tree{Head: heads, Label: labels})
		}
		if tasks.Has(pipeline.TaskSDP) {
			res.SDP = append(res.SDP, pipeline.Tree{Head: heads, Label: labels})
		}
		if tasks.Has(pipeline.TaskSDPG) {
			res.SDPG = append(res.SDPG, []pipeline.Edge{})
		}
	}
	return res, nil
}

// Added returns every word passed to AddWords so far.
func (f *Fake) Added() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.added...)
}

// Windows returns the max window of every successful AddWords call so far.
func (f *Fake) Windows() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.windows...)
}

// Runs returns the task sets of every RunTasks call so far.
func (f *Fake) Runs() []pipeline.TaskSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pipeline.TaskSet(nil), f.runs...)
}
