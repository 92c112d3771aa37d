package user

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/pandiu-api/handlers"
	"github.com/sahilchouksey/pandiu-api/services"
)

// UserHandler handles users, user types and the links between them
type UserHandler struct {
	users     *services.UserService
	userTypes *services.UserTypeService
	links     *services.UserTypeLinkService
}

// NewUserHandler creates a new user handler
func NewUserHandler(svc *services.Services) *UserHandler {
	return &UserHandler{
		users:     svc.Users,
		userTypes: svc.UserTypes,
		links:     svc.UserTypeLinks,
	}
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	return handlers.List(c, h.users.List)
}

// GetUser handles GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	return handlers.Get(c, h.users.Get)
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	return handlers.Create(c, h.users.Create)
}

// UpdateUser handles PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	return handlers.Update(c, h.users.Update, false)
}

// PatchUser handles PATCH /api/v1/users/:id
func (h *UserHandler) PatchUser(c *fiber.Ctx) error {
	return handlers.Update(c, h.users.Update, true)
}

// DeleteUser handles DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	return handlers.Delete(c, h.users.Delete)
}

// ListUserTypes handles GET /api/v1/users/user-types
func (h *UserHandler) ListUserTypes(c *fiber.Ctx) error {
	return handlers.List(c, h.userTypes.List)
}

// GetUserType handles GET /api/v1/users/user-types/:id
func (h *UserHandler) GetUserType(c *fiber.Ctx) error {
	return handlers.Get(c, h.userTypes.Get)
}

// CreateUserType handles POST /api/v1/users/user-types
func (h *UserHandler) CreateUserType(c *fiber.Ctx) error {
	return handlers.Create(c, h.userTypes.Create)
}

// UpdateUserType handles PUT /api/v1/users/user-types/:id
func (h *UserHandler) UpdateUserType(c *fiber.Ctx) error {
	return handlers.Update(c, h.userTypes.Update, false)
}

// DeleteUserType handles DELETE /api/v1/users/user-types/:id
func (h *UserHandler) DeleteUserType(c *fiber.Ctx) error {
	return handlers.Delete(c, h.userTypes.Delete)
}

// ListUserTypeLinks handles GET /api/v1/users/user-type-links
func (h *UserHandler) ListUserTypeLinks(c *fiber.Ctx) error {
	return handlers.List(c, h.links.List)
}

// GetUserTypeLink handles GET /api/v1/users/user-type-links/:id
func (h *UserHandler) GetUserTypeLink(c *fiber.Ctx) error {
	return handlers.Get(c, h.links.Get)
}

// CreateUserTypeLink handles POST /api/v1/users/user-type-links
func (h *UserHandler) CreateUserTypeLink(c *fiber.Ctx) error {
	return handlers.Create(c, h.links.Create)
}

// UpdateUserTypeLink handles PUT /api/v1/users/user-type-links/:id
func (h *UserHandler) UpdateUserTypeLink(c *fiber.Ctx) error {
	return handlers.Update(c, h.links.Update, false)
}

// DeleteUserTypeLink handles DELETE /api/v1/users/user-type-links/:id
func (h *UserHandler) DeleteUserTypeLink(c *fiber.Ctx) error {
	return handlers.Delete(c, h.links.Delete)
}
