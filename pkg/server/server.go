package server

import (
	"context"
	"fmt"
	"time"

	"github.com/bastiangx/nlpserve/internal/logger"
	"github.com/bastiangx/nlpserve/pkg/config"
	"github.com/bastiangx/nlpserve/pkg/envelope"
	"github.com/bastiangx/nlpserve/pkg/identity"
	"github.com/bastiangx/nlpserve/pkg/pipeline"
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

// Server binds the configured routes to the adapter and the identity fixtures.
type Server struct {
	app      *fiber.App
	cfg      *config.Config
	routes   config.RouteTable
	adapter  pipeline.Adapter
	identity *identity.Service
	log      *log.Logger
}

// reply is what a handler produces on success. legacy is the flat body used by NLP routes
// in the legacy style.
type reply struct {
	result any
	legacy fiber.Map
}

type handler func(c *fiber.Ctx) (reply, error)

type route struct {
	method string
	handle handler
}

// New builds the fiber app for cfg. It fails when an operation has no path or no handler.
func New(cfg *config.Config, adapter pipeline.Adapter) (*Server, error) {
	ids, err := identity.Default()
	if err != nil {
		return nil, fmt.Errorf("identity fixtures: %w", err)
	}
	s := &Server{
		cfg:      cfg,
		routes:   cfg.Routes(),
		adapter:  adapter,
		identity: ids,
		log:      logger.New("http"),
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "nlpserve",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
		ReadTimeout:           30 * time.Second,
		IdleTimeout:           2 * time.Minute,
	})
	s.use()
	if err := s.register(); err != nil {
		return nil, err
	}
	return s, nil
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) register() error {
	handlers := s.handlers()
	for _, op := range config.Operations() {
		path, ok := s.routes.Path(op)
		if !ok {
			return &config.ConfigError{Field: string(op), Message: "no path configured for operation"}
		}
		r, ok := handlers[op]
		if !ok {
			return fmt.Errorf("no handler for operation %s", op)
		}
		s.app.Add(r.method, path, s.wrap(op, r.handle))
	}

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return s.send(c, fiber.Map{"status": "ok"})
	})
	s.app.Get("/routes", func(c *fiber.Ctx) error {
		paths := make(map[string]string, s.routes.Len())
		for op, p := range s.routes.Paths() {
			paths[string(op)] = p
		}
		return s.send(c, envelope.Success(paths))
	})
	return nil
}

func (s *Server) handlers() map[config.Operation]route {
	return map[config.Operation]route{
		config.OpSentSplit:   {fiber.MethodPost, s.sentSplit},
		config.OpAddWords:    {fiber.MethodPost, s.addWords},
		config.OpSeg:         {fiber.MethodPost, s.analyze(config.OpSeg, pipeline.TaskCWS)},
		config.OpPOS:         {fiber.MethodPost, s.analyze(config.OpPOS, pipeline.TaskPOS)},
		config.OpNER:         {fiber.MethodPost, s.analyze(config.OpNER, pipeline.TaskNER)},
		config.OpSRL:         {fiber.MethodPost, s.analyze(config.OpSRL, pipeline.TaskSRL)},
		config.OpDEP:         {fiber.MethodPost, s.analyze(config.OpDEP, pipeline.TaskDEP)},
		config.OpSDP:         {fiber.MethodPost, s.analyze(config.OpSDP, pipeline.TaskSDP)},
		config.OpSDPG:        {fiber.MethodPost, s.analyze(config.OpSDPG, pipeline.TaskSDPG)},
		config.OpAll:         {fiber.MethodPost, s.all},
		config.OpLogin:       {fiber.MethodPost, s.login},
		config.OpLogout:      {fiber.MethodGet, s.logout},
		config.OpGetUserInfo: {fiber.MethodGet, s.userInfo},
		config.OpGetPermCode: {fiber.MethodGet, s.permCodes},
		config.OpGetMenuList: {fiber.MethodGet, s.menuList},
	}
}

// wrap turns a handler into a fiber handler. Errors and panics are logged with the
// operation and request id and answered with a failure body; the status stays 200.
func (s *Server) wrap(op config.Operation, h handler) fiber.Handler {
	legacy := s.cfg.EnvelopeStyle == config.StyleLegacy && isNLP(op)
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = s.fail(c, op, legacy, fmt.Errorf("panic: %v", r))
			}
		}()
		rep, herr := h(c)
		if herr != nil {
			return s.fail(c, op, legacy, herr)
		}
		if legacy {
			return s.send(c, rep.legacy)
		}
		return s.send(c, envelope.Success(rep.result))
	}
}

func (s *Server) fail(c *fiber.Ctx, op config.Operation, legacy bool, err error) error {
	s.log.Error("request failed", "op", op, "id", requestID(c), "err", err)
	if legacy {
		return s.send(c, legacyFailure(c, op))
	}
	return s.send(c, envelope.Failure())
}

// send writes body in the format the client accepts.
func (s *Server) send(c *fiber.Ctx, body any) error {
	format := envelope.Negotiate(c.Get(fiber.HeaderAccept))
	data, err := envelope.Marshal(format, body)
	if err != nil {
		s.log.Error("encode response", "path", c.Path(), "id", requestID(c), "err", err)
		format = envelope.JSON
		if data, err = envelope.Marshal(format, envelope.Failure()); err != nil {
			return err
		}
	}
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(data)
}

func isNLP(op config.Operation) bool {
	for _, o := range config.NLPOperations {
		if o == op {
			return true
		}
	}
	return false
}

// Start listens on the configured address and blocks until the app shuts down.
func (s *Server) Start() error {
	s.log.Info("Listening",
		"addr", s.cfg.Addr(),
		"engine", s.cfg.Engine.Name,
		"style", s.cfg.EnvelopeStyle,
		"routes", s.routes.Len(),
	)
	for _, op := range s.routes.Sorted() {
		path, _ := s.routes.Path(op)
		s.log.Debug("route", "path", path, "op", op)
	}
	return s.app.Listen(s.cfg.Addr())
}

// Shutdown stops accepting requests, waits for in-flight ones and releases the adapter.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	if closer, ok := s.adapter.(pipeline.Closer); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
