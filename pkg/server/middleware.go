package server

import (
	"errors"
	"time"

	"github.com/bastiangx/nlpserve/pkg/envelope"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const requestIDKey = "requestid"

// use installs panic recovery, request ids, CORS and request logging, in that order.
func (s *Server) use() {
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			s.log.Error("panic", "path", c.Path(), "id", requestID(c), "err", e)
		},
	}))
	s.app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders: fiber.HeaderXRequestID,
	}))
	s.app.Use(s.requestLogger())
}

func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		s.log.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start),
			"id", requestID(c),
		)
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDKey).(string); ok {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}

// errorHandler answers errors that escaped a handler, including recovered panics. Routing
// errors keep their status; everything else is a failure envelope with status 200.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusOK
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	} else {
		s.log.Error("unhandled", "path", c.Path(), "id", requestID(c), "err", err)
	}
	c.Status(status)
	return s.send(c, envelope.Failure())
}
