package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/sahilchouksey/pandiu-api/repository"
	"github.com/sahilchouksey/pandiu-api/services/storage"
	"github.com/sahilchouksey/pandiu-api/utils/validation"
)

// NotFoundDetail is the body detail for any unresolvable resource
const NotFoundDetail = "Not found."

// ErrorDetail is the body of every non validation error response
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// Success returns a 200 OK response with data as the body
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// Created returns a 201 Created response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// NoContent returns a 204 No Content response
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Error returns an error response
func Error(c *fiber.Ctx, statusCode int, detail string) error {
	return c.Status(statusCode).JSON(ErrorDetail{Detail: detail})
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c *fiber.Ctx, detail string) error {
	return Error(c, fiber.StatusBadRequest, detail)
}

// NotFound returns a 404 Not Found response
func NotFound(c *fiber.Ctx) error {
	return Error(c, fiber.StatusNotFound, NotFoundDetail)
}

// TooManyRequests returns a 429 Too Many Requests response
func TooManyRequests(c *fiber.Ctx) error {
	return Error(c, fiber.StatusTooManyRequests, "Request was throttled.")
}

// ValidationError returns a 400 Bad Request response mapping each field to its messages
func ValidationError(c *fiber.Ctx, errs validation.FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(errs)
}

// InternalServerError returns a 500 Internal Server Error response
func InternalServerError(c *fiber.Ctx, detail string) error {
	if detail == "" {
		detail = "A server error occurred."
	}
	return Error(c, fiber.StatusInternalServerError, detail)
}

// ServiceUnavailable returns a 503 Service Unavailable response
func ServiceUnavailable(c *fiber.Ctx, detail string) error {
	if detail == "" {
		detail = "Service temporarily unavailable."
	}
	return Error(c, fiber.StatusServiceUnavailable, detail)
}

// FromError maps an error returned by the services layer to its response
func FromError(c *fiber.Ctx, err error) error {
	var fieldErrs validation.FieldErrors
	var parseErr *validation.ParseError

	switch {
	case errors.As(err, &fieldErrs):
		return ValidationError(c, fieldErrs)
	case errors.As(err, &parseErr):
		return BadRequest(c, parseErr.Detail)
	case errors.Is(err, repository.ErrNotFound):
		return NotFound(c)
	case errors.Is(err, storage.ErrUnavailable):
		return ServiceUnavailable(c, err.Error())
	default:
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
		return InternalServerError(c, "")
	}
}
