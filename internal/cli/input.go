// Package cli runs the pipeline on lines typed at the terminal, for debugging the engine
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/nlpserve/internal/logger"
	"github.com/bastiangx/nlpserve/pkg/pipeline"
	"github.com/charmbracelet/log"
)

// InputHandler reads text from stdin and prints the result of the selected tasks.
//
// Lines starting with ':' are commands:
//
//	:add 词语 [词语...] [window]   add words to the dictionary
//	:split 文本                    split text into sentences
//	:tasks pos,ner                 change the tasks that run
//	:q                             quit
type InputHandler struct {
	adapter      pipeline.Adapter
	tasks        pipeline.TaskSet
	window       int
	in           io.Reader
	out          io.Writer
	requestCount int
	log          *log.Logger
}

// NewInputHandler creates a handler over stdin/stdout. window is the default for :add.
func NewInputHandler(adapter pipeline.Adapter, tasks pipeline.TaskSet, window int) *InputHandler {
	return &InputHandler{
		adapter: adapter,
		tasks:   tasks,
		window:  window,
		in:      os.Stdin,
		out:     os.Stdout,
		log:     logger.Default("segment"),
	}
}

// WithIO replaces stdin and stdout.
func (h *InputHandler) WithIO(in io.Reader, out io.Writer) *InputHandler {
	h.in, h.out = in, out
	return h
}

// Start runs the loop until EOF, :q or ctx is done.
func (h *InputHandler) Start(ctx context.Context) error {
	fmt.Fprintln(h.out, "nlpserve segmenter")
	fmt.Fprintf(h.out, "tasks: %s  (:tasks to change, :q to quit)\n", h.tasks)
	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ":q" {
			return nil
		}
		if err := h.handleInput(ctx, line); err != nil {
			h.log.Error(err)
		}
	}
}

func (h *InputHandler) handleInput(ctx context.Context, line string) error {
	h.requestCount++
	if strings.HasPrefix(line, ":") {
		return h.handleCommand(ctx, line)
	}

	start := time.Now()
	res, err := h.adapter.RunTasks(ctx, []string{line}, h.tasks)
	if err != nil {
		return err
	}
	h.log.Debugf("Took [ %v ] for request #%d", time.Since(start), h.requestCount)
	renderResults(h.out, res, 0, h.tasks)
	return nil
}

func (h *InputHandler) handleCommand(ctx context.Context, line string) error {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch name {
	case ":add":
		words := strings.Fields(rest)
		window := h.window
		if n := len(words); n > 1 {
			if w, err := strconv.Atoi(words[n-1]); err == nil {
				window, words = w, words[:n-1]
			}
		}
		if len(words) == 0 {
			return errors.New("usage: :add word [word...] [window]")
		}
		if err := h.adapter.AddWords(ctx, words, window); err != nil {
			return err
		}
		fmt.Fprintf(h.out, "added %d word(s), window %d\n", len(words), window)
	case ":split":
		if rest == "" {
			return errors.New("usage: :split text")
		}
		res, err := h.adapter.SplitSentences(ctx, []string{rest})
		if err != nil {
			return err
		}
		renderSentences(h.out, res[0])
	case ":tasks":
		tasks, err := pipeline.ParseTaskSet(rest)
		if err != nil {
			return err
		}
		h.tasks = tasks
		fmt.Fprintf(h.out, "tasks: %s\n", h.tasks)
	default:
		return fmt.Errorf("unknown command %s", name)
	}
	return nil
}
