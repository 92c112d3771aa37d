package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/sahilchouksey/pandiu-api/utils/response"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

func HandleCheckHealth(c *fiber.Ctx, store Pinger) error {
	if err := store.Ping(c.UserContext()); err != nil {
		log.Warn().Err(err).Msg("health check failed")
		return response.ServiceUnavailable(c, "Database unavailable.")
	}
	return response.Success(c, fiber.Map{"status": "ok"})
}
