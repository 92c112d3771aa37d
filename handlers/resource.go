package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/pandiu-api/repository"
	"github.com/sahilchouksey/pandiu-api/utils/response"
	"github.com/sahilchouksey/pandiu-api/utils/validation"
)

// ParseID reads the :id route parameter. Anything but a positive integer
// resolves to repository.ErrNotFound, so it renders as a 404.
func ParseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		return 0, repository.ErrNotFound
	}
	return uint(id), nil
}

// List handles GET on a collection
func List[D any](c *fiber.Ctx, list func(context.Context) ([]D, error)) error {
	docs, err := list(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, docs)
}

// Get handles GET on a single resource
func Get[D any](c *fiber.Ctx, get func(context.Context, uint) (*D, error)) error {
	id, err := ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	doc, err := get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, doc)
}

// Create handles POST on a collection
func Create[D any](c *fiber.Ctx, create func(context.Context, validation.Payload) (*D, error)) error {
	payload, err := validation.ParsePayload(c.Body())
	if err != nil {
		return response.FromError(c, err)
	}

	doc, err := create(c.UserContext(), payload)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, doc)
}

// Update handles PUT (partial=false) and PATCH (partial=true) on a resource
func Update[D any](c *fiber.Ctx, update func(context.Context, uint, validation.Payload, bool) (*D, error), partial bool) error {
	id, err := ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	payload, err := validation.ParsePayload(c.Body())
	if err != nil {
		return response.FromError(c, err)
	}

	doc, err := update(c.UserContext(), id, payload, partial)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, doc)
}

// Delete handles DELETE on a resource
func Delete(c *fiber.Ctx, remove func(context.Context, uint) error) error {
	id, err := ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	if err := remove(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.NoContent(c)
}
