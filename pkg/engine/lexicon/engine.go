/*
Package lexicon implements pipeline.Adapter on top of a dictionary.

Segmentation is forward maximum matching bounded by the dictionary window, tagging reads the
dictionary tag, and the remaining tasks are rule based and derived from the tags. Every
analysis of a RunTasks call runs under one dictionary read lock.
*/
package lexicon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/bastiangx/nlpserve/internal/utils"
	"github.com/bastiangx/nlpserve/pkg/dictionary"
	"github.com/bastiangx/nlpserve/pkg/pipeline"
	"github.com/charmbracelet/log"
	"golang.org/x/text/unicode/norm"
)

// Engine is safe for concurrent use.
type Engine struct {
	dict *dictionary.Dictionary
}

var _ pipeline.Adapter = (*Engine)(nil)

// New wraps an existing dictionary.
func New(dict *dictionary.Dictionary) *Engine {
	return &Engine{dict: dict}
}

// NewBuiltin creates an engine over the embedded lexicon with the given window.
func NewBuiltin(window int) (*Engine, error) {
	if window <= 0 {
		return nil, pipeline.Errorf("init", "%w: got %d", pipeline.ErrInvalidWindow, window)
	}
	dict, err := dictionary.Builtin(window)
	if err != nil {
		return nil, pipeline.Errorf("init", "%w: builtin lexicon: %v", pipeline.ErrEngine, err)
	}
	return New(dict), nil
}

// Dictionary returns the underlying dictionary.
func (e *Engine) Dictionary() *dictionary.Dictionary {
	return e.dict
}

// LoadDictionary merges a dictionary file into the engine.
func (e *Engine) LoadDictionary(path string) (int, error) {
	n, err := e.dict.LoadFile(path)
	if err != nil {
		return n, pipeline.Wrap("load_dict", err)
	}
	return n, nil
}

// SplitSentences splits every text into sentences.
func (e *Engine) SplitSentences(ctx context.Context, texts []string) (out [][]string, err error) {
	defer func() {
		if err != nil {
			out = nil
		}
	}()
	defer recoverFault("split", &err)
	out = make([][]string, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, pipeline.Wrap("split", err)
		}
		out = append(out, splitSentences(norm.NFC.String(text)))
	}
	return out, nil
}

// AddWords adds words to the dictionary and widens its window to maxWindow.
func (e *Engine) AddWords(ctx context.Context, words []string, maxWindow int) (err error) {
	defer recoverFault("add_words", &err)
	if maxWindow <= 0 {
		return pipeline.Errorf("add_words", "%w: got %d", pipeline.ErrInvalidWindow, maxWindow)
	}
	if err := ctx.Err(); err != nil {
		return pipeline.Wrap("add_words", err)
	}
	clean := make([]string, 0, len(words))
	for _, w := range utils.DedupeWords(words) {
		w = norm.NFC.String(w)
		if strings.IndexFunc(w, unicode.IsSpace) >= 0 {
			return pipeline.Errorf("add_words", "%w: word %q contains whitespace", pipeline.ErrInvalidInput, w)
		}
		clean = append(clean, w)
	}
	added, err := e.dict.Add(clean, "", maxWindow)
	if err != nil {
		if errors.Is(err, dictionary.ErrInvalidWindow) {
			return pipeline.Errorf("add_words", "%w: got %d", pipeline.ErrInvalidWindow, maxWindow)
		}
		return pipeline.Wrap("add_words", err)
	}
	log.Debugf("Added %d new words (window %d)", added, e.dict.Window())
	return nil
}

// RunTasks analyzes every text under one dictionary snapshot.
func (e *Engine) RunTasks(ctx context.Context, texts []string, tasks pipeline.TaskSet) (res *pipeline.Results, err error) {
	defer func() {
		if err != nil {
			res = nil
		}
	}()
	defer recoverFault("run", &err)
	res = pipeline.NewResults(tasks, len(texts))
	err = e.dict.View(func(v dictionary.View) error {
		for _, text := range texts {
			if err := ctx.Err(); err != nil {
				return err
			}
			analyze(v, norm.NFC.String(text), tasks, res)
		}
		return nil
	})
	if err != nil {
		return nil, pipeline.Wrap("run", err)
	}
	if !res.Complete(tasks, len(texts)) {
		return nil, pipeline.Errorf("run", "%w: incomplete results for %s", pipeline.ErrEngine, tasks)
	}
	return res, nil
}

// analyze appends the results of one text to res, computing only what tasks need.
func analyze(v dictionary.View, text string, tasks pipeline.TaskSet, res *pipeline.Results) {
	words := segment(v, text)
	res.CWS = append(res.CWS, words)
	if !tasks.Needs(pipeline.TaskPOS) {
		return
	}
	tags := tagWords(v, words)
	if tasks.Has(pipeline.TaskPOS) {
		res.POS = append(res.POS, tags)
	}
	if tasks.Has(pipeline.TaskNER) {
		res.NER = append(res.NER, recognize(words, tags))
	}
	if !tasks.Needs(pipeline.TaskDEP) {
		return
	}
	p := parseDependencies(words, tags)
	if tasks.Has(pipeline.TaskDEP) {
		res.DEP = append(res.DEP, p.tree(p.label))
	}
	if tasks.Has(pipeline.TaskSRL) {
		res.SRL = append(res.SRL, p.roles())
	}
	if tasks.Needs(pipeline.TaskSDP) {
		labels := p.semanticLabels()
		if tasks.Has(pipeline.TaskSDP) {
			res.SDP = append(res.SDP, p.tree(labels))
		}
		if tasks.Has(pipeline.TaskSDPG) {
			res.SDPG = append(res.SDPG, p.semanticGraph(labels))
		}
	}
}

// recoverFault turns a panic inside an engine operation into a PipelineError.
func recoverFault(op string, err *error) {
	if r := recover(); r != nil {
		log.Errorf("Engine panic in %s: %v", op, r)
		*err = pipeline.Errorf(op, "%w: %v", pipeline.ErrEngine, fmt.Sprint(r))
	}
}
