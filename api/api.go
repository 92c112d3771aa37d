package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/sahilchouksey/pandiu-api/utils/response"
)

const shutdownTimeout = 10 * time.Second

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

// NewAPIServer creates the fiber app. bodyLimit caps request bodies in bytes
// and must cover the largest accepted document upload.
func NewAPIServer(listenAddress string, bodyLimit int) *APIServer {
	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName:               "pandiu-api",
			BodyLimit:             bodyLimit,
			ErrorHandler:          ErrorHandler,
			DisableStartupMessage: true,
		}),
		listenAddress: listenAddress,
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *APIServer) Run(ctx context.Context) error {
	log.Info().Str("address", s.listenAddress).Msg("starting API server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.listenAddress)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down API server")
		return s.app.ShutdownWithTimeout(shutdownTimeout)
	}
}

// ErrorHandler renders errors that escape handlers with a detail body
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return response.NotFound(c)
		case fiber.StatusMethodNotAllowed:
			return response.Error(c, fiberErr.Code, fmt.Sprintf("Method %q not allowed.", c.Method()))
		}
		return response.Error(c, fiberErr.Code, fiberErr.Message)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return response.InternalServerError(c, "")
}
