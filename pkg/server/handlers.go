package server

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bastiangx/nlpserve/pkg/config"
	"github.com/bastiangx/nlpserve/pkg/envelope"
	"github.com/bastiangx/nlpserve/pkg/pipeline"
	"github.com/gofiber/fiber/v2"
)

// decode reads the body into v. msgpack bodies are accepted when the content type says so.
func decode(c *fiber.Ctx, op config.Operation, v any) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return &DecodeError{Op: string(op), Err: errors.New("empty body")}
	}
	format := envelope.Negotiate(string(c.Request().Header.ContentType()))
	if err := envelope.Unmarshal(format, body, v); err != nil {
		return &DecodeError{Op: string(op), Err: err}
	}
	return nil
}

// textsKey holds the decoded texts so a failed request can echo them back.
const textsKey = "texts"

func decodeTexts(c *fiber.Ctx, op config.Operation) ([]string, error) {
	var req TextRequest
	if err := decode(c, op, &req); err != nil {
		return nil, err
	}
	if req.Texts == nil {
		return nil, &DecodeError{Op: string(op), Err: fmt.Errorf("%w: texts", ErrMissingField)}
	}
	c.Locals(textsKey, req.Texts)
	return req.Texts, nil
}

// legacyFailure is the flat body of a failed NLP request: the success layout with
// status 1 and empty results. texts is [] when the body never decoded.
func legacyFailure(c *fiber.Ctx, op config.Operation) fiber.Map {
	if op == config.OpAddWords {
		return fiber.Map{"status": 1}
	}
	texts, ok := c.Locals(textsKey).([]string)
	if !ok {
		texts = []string{}
	}
	body := fiber.Map{"status": 1, "texts": texts, "res": []any{}}
	switch op {
	case config.OpSentSplit, config.OpSeg:
	case config.OpAll:
		body["seg"] = []any{}
		body["all"] = fiber.Map{}
	default:
		body["seg"] = []any{}
	}
	return body
}

func (s *Server) sentSplit(c *fiber.Ctx) (reply, error) {
	texts, err := decodeTexts(c, config.OpSentSplit)
	if err != nil {
		return reply{}, err
	}
	res, err := s.adapter.SplitSentences(c.UserContext(), texts)
	if err != nil {
		return reply{}, err
	}
	return reply{
		result: SplitResult{Texts: texts, Res: res},
		legacy: fiber.Map{"status": 0, "texts": texts, "res": res},
	}, nil
}

func (s *Server) addWords(c *fiber.Ctx) (reply, error) {
	var req WordsRequest
	if err := decode(c, config.OpAddWords, &req); err != nil {
		return reply{}, err
	}
	if req.Words == nil {
		return reply{}, &DecodeError{Op: string(config.OpAddWords), Err: fmt.Errorf("%w: words", ErrMissingField)}
	}
	window := s.cfg.MaxWindow
	if req.MaxWindow != nil {
		window = *req.MaxWindow
	}
	if err := s.adapter.AddWords(c.UserContext(), req.Words, window); err != nil {
		return reply{}, err
	}
	return reply{
		result: AddWordsResult{Code: envelope.CodeSuccess},
		legacy: fiber.Map{"status": 0},
	}, nil
}

// analyze serves seg and the single task routes.
func (s *Server) analyze(op config.Operation, task pipeline.Task) handler {
	tasks := pipeline.NewTaskSet(task)
	return func(c *fiber.Ctx) (reply, error) {
		texts, err := decodeTexts(c, op)
		if err != nil {
			return reply{}, err
		}
		res, err := s.run(c, op, texts, tasks)
		if err != nil {
			return reply{}, err
		}
		result := fiber.Map{"texts": texts, "cws": res.CWS}
		legacy := fiber.Map{"status": 0, "texts": texts, "res": res.Get(task)}
		if task != pipeline.TaskCWS {
			result[string(task)] = res.Get(task)
			legacy["seg"] = res.CWS
		}
		return reply{result: result, legacy: legacy}, nil
	}
}

func (s *Server) all(c *fiber.Ctx) (reply, error) {
	texts, err := decodeTexts(c, config.OpAll)
	if err != nil {
		return reply{}, err
	}
	res, err := s.run(c, config.OpAll, texts, pipeline.NewTaskSet(pipeline.AllTasks...))
	if err != nil {
		return reply{}, err
	}
	return reply{
		result: AllResult{Texts: texts, All: res},
		legacy: fiber.Map{"status": 0, "texts": texts, "all": res},
	}, nil
}

// run calls the adapter and refuses partial results.
func (s *Server) run(c *fiber.Ctx, op config.Operation, texts []string, tasks pipeline.TaskSet) (*pipeline.Results, error) {
	res, err := s.adapter.RunTasks(c.UserContext(), texts, tasks)
	if err != nil {
		return nil, err
	}
	if res == nil || !res.Complete(tasks, len(texts)) {
		return nil, pipeline.Errorf(string(op), "%w: incomplete results for %s", pipeline.ErrEngine, tasks)
	}
	return res, nil
}

func (s *Server) login(c *fiber.Ctx) (reply, error) {
	var req LoginRequest
	if err := decode(c, config.OpLogin, &req); err != nil {
		return reply{}, err
	}
	return reply{result: s.identity.Login(req.Username)}, nil
}

func (s *Server) logout(*fiber.Ctx) (reply, error) {
	s.identity.Logout()
	return reply{}, nil
}

// userInfo ignores the _t cache buster.
func (s *Server) userInfo(*fiber.Ctx) (reply, error) {
	return reply{result: s.identity.UserInfo()}, nil
}

func (s *Server) permCodes(*fiber.Ctx) (reply, error) {
	return reply{result: s.identity.PermCodes()}, nil
}

func (s *Server) menuList(*fiber.Ctx) (reply, error) {
	return reply{result: s.identity.Menus()}, nil
}
