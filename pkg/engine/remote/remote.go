/*
Package remote implements pipeline.Adapter by forwarding calls to an upstream nlpserve
gateway over HTTP.

The upstream must serve the default routes in envelope style. Requests are JSON, responses
are requested as msgpack and decoded from whatever the upstream sends back. A non-success
envelope, a transport failure or a result with missing lists is reported as ErrUpstream.
Calls are never retried.
*/
package remote

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bastiangx/nlpserve/pkg/config"
	"github.com/bastiangx/nlpserve/pkg/envelope"
	"github.com/bastiangx/nlpserve/pkg/pipeline"
	"github.com/bastiangx/nlpserve/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

const userAgent = "nlpserve-remote"

// taskRoutes maps every task that has a dedicated upstream route.
var taskRoutes = map[pipeline.Task]config.Operation{
	pipeline.TaskPOS:  config.OpPOS,
	pipeline.TaskNER:  config.OpNER,
	pipeline.TaskSRL:  config.OpSRL,
	pipeline.TaskDEP:  config.OpDEP,
	pipeline.TaskSDP:  config.OpSDP,
	pipeline.TaskSDPG: config.OpSDPG,
}

// Engine is safe for concurrent use; each call acquires its own agent.
type Engine struct {
	base    string
	routes  config.RouteTable
	timeout time.Duration
	client  *fiber.Client
}

var _ pipeline.Adapter = (*Engine)(nil)

// New creates an engine for the upstream base URL. A zero timeout disables the per-call
// timeout; context deadlines still apply.
func New(upstream string, timeout time.Duration) (*Engine, error) {
	base := strings.TrimRight(strings.TrimSpace(upstream), "/")
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, pipeline.Errorf("init", "%w: invalid upstream %q", pipeline.ErrUpstream, upstream)
	}
	return &Engine{
		base:    base,
		routes:  config.DefaultConfig().Routes(),
		timeout: timeout,
		client:  &fiber.Client{UserAgent: userAgent},
	}, nil
}

// Upstream returns the base URL calls are sent to.
func (e *Engine) Upstream() string {
	return e.base
}

// SplitSentences forwards to the upstream sent_split route.
func (e *Engine) SplitSentences(ctx context.Context, texts []string) ([][]string, error) {
	var out server.SplitResult
	if err := e.call(ctx, config.OpSentSplit, server.TextRequest{Texts: texts}, &out); err != nil {
		return nil, pipeline.Wrap("split", err)
	}
	if out.Res == nil || len(out.Res) != len(texts) {
		return nil, pipeline.Errorf("split", "%w: expected %d results, got %d", pipeline.ErrUpstream, len(texts), len(out.Res))
	}
	return out.Res, nil
}

// AddWords forwards to the upstream add_words route. The window is checked locally first.
func (e *Engine) AddWords(ctx context.Context, words []string, maxWindow int) error {
	if maxWindow <= 0 {
		return pipeline.Errorf("add_words", "%w: got %d", pipeline.ErrInvalidWindow, maxWindow)
	}
	var out server.AddWordsResult
	req := server.WordsRequest{Words: words, MaxWindow: &maxWindow}
	if err := e.call(ctx, config.OpAddWords, req, &out); err != nil {
		return pipeline.Wrap("add_words", err)
	}
	return nil
}

// RunTasks picks the narrowest upstream route covering tasks: seg for cws alone, the
// dedicated route for a single task, and all otherwise, trimmed to the requested tasks.
func (e *Engine) RunTasks(ctx context.Context, texts []string, tasks pipeline.TaskSet) (*pipeline.Results, error) {
	req := server.TextRequest{Texts: texts}
	var res *pipeline.Results

	switch op := routeFor(tasks); op {
	case config.OpAll:
		var out server.AllResult
		if err := e.call(ctx, op, req, &out); err != nil {
			return nil, pipeline.Wrap("run", err)
		}
		if out.All == nil {
			return nil, pipeline.Errorf("run", "%w: all result missing", pipeline.ErrUpstream)
		}
		res = out.All.Restrict(tasks)
	default:
		var out server.TaskResult
		if err := e.call(ctx, op, req, &out); err != nil {
			return nil, pipeline.Wrap("run", err)
		}
		res = out.Results.Restrict(tasks)
	}

	if !res.Complete(tasks, len(texts)) {
		return nil, pipeline.Errorf("run", "%w: incomplete results for %s", pipeline.ErrUpstream, tasks)
	}
	return res, nil
}

func routeFor(tasks pipeline.TaskSet) config.Operation {
	switch tasks.Len() {
	case 1:
		return config.OpSeg
	case 2:
		for _, t := range tasks.Tasks() {
			if op, ok := taskRoutes[t]; ok {
				return op
			}
		}
	}
	return config.OpAll
}

// call posts body to the route of op and decodes a success envelope's result into out.
func (e *Engine) call(ctx context.Context, op config.Operation, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, ok := e.routes.Path(op)
	if !ok {
		return fmt.Errorf("%w: no upstream route for %s", pipeline.ErrUpstream, op)
	}

	timeout := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout == 0 || left < timeout {
			timeout = left
		}
	}
	if timeout < 0 {
		return context.DeadlineExceeded
	}

	resp := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(resp)

	start := time.Now()
	agent := e.client.Post(e.base + path).
		JSON(body).
		Set(fiber.HeaderAccept, envelope.MIMEMsgPack).
		SetResponse(resp)
	if timeout > 0 {
		agent.Timeout(timeout)
	}
	status, data, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s %s: %v", pipeline.ErrUpstream, op, path, errs[0])
	}
	log.Debugf("Upstream %s answered %d in %s", path, status, time.Since(start))
	if status != fiber.StatusOK {
		return fmt.Errorf("%w: %s %s: status %d", pipeline.ErrUpstream, op, path, status)
	}

	format := envelope.Negotiate(string(resp.Header.ContentType()))
	env, err := envelope.Decode(format, data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", pipeline.ErrUpstream, op, err)
	}
	if !env.OK() {
		return fmt.Errorf("%w: %s: code %d: %s", pipeline.ErrUpstream, op, env.Code, env.Message)
	}
	if err := env.Into(out); err != nil {
		return fmt.Errorf("%w: %s result: %v", pipeline.ErrUpstream, op, err)
	}
	return nil
}
