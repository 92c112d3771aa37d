package faculty

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/pandiu-api/handlers"
	"github.com/sahilchouksey/pandiu-api/services"
	"github.com/sahilchouksey/pandiu-api/utils/response"
)

// FacultyHandler handles faculty and program requests
type FacultyHandler struct {
	faculties *services.FacultyService
	programs  *services.ProgramService
}

// NewFacultyHandler creates a new faculty handler
func NewFacultyHandler(svc *services.Services) *FacultyHandler {
	return &FacultyHandler{
		faculties: svc.Faculties,
		programs:  svc.Programs,
	}
}

// ListFaculties handles GET /api/v1/faculties
func (h *FacultyHandler) ListFaculties(c *fiber.Ctx) error {
	return handlers.List(c, h.faculties.List)
}

// GetFaculty handles GET /api/v1/faculties/:id
func (h *FacultyHandler) GetFaculty(c *fiber.Ctx) error {
	return handlers.Get(c, h.faculties.Get)
}

// CreateFaculty handles POST /api/v1/faculties
func (h *FacultyHandler) CreateFaculty(c *fiber.Ctx) error {
	return handlers.Create(c, h.faculties.Create)
}

// UpdateFaculty handles PUT /api/v1/faculties/:id
func (h *FacultyHandler) UpdateFaculty(c *fiber.Ctx) error {
	return handlers.Update(c, h.faculties.Update, false)
}

// PatchFaculty handles PATCH /api/v1/faculties/:id
func (h *FacultyHandler) PatchFaculty(c *fiber.Ctx) error {
	return handlers.Update(c, h.faculties.Update, true)
}

// DeleteFaculty handles DELETE /api/v1/faculties/:id
func (h *FacultyHandler) DeleteFaculty(c *fiber.Ctx) error {
	return handlers.Delete(c, h.faculties.Delete)
}

// ListFacultyPrograms handles GET /api/v1/faculties/:id/programs
func (h *FacultyHandler) ListFacultyPrograms(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	programs, err := h.programs.ListByFaculty(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, programs)
}

// ListPrograms handles GET /api/v1/faculties/programs
func (h *FacultyHandler) ListPrograms(c *fiber.Ctx) error {
	return handlers.List(c, h.programs.List)
}

// GetProgram handles GET /api/v1/faculties/programs/:id
func (h *FacultyHandler) GetProgram(c *fiber.Ctx) error {
	return handlers.Get(c, h.programs.Get)
}

// CreateProgram handles POST /api/v1/faculties/programs
func (h *FacultyHandler) CreateProgram(c *fiber.Ctx) error {
	return handlers.Create(c, h.programs.Create)
}

// UpdateProgram handles PUT /api/v1/faculties/programs/:id
func (h *FacultyHandler) UpdateProgram(c *fiber.Ctx) error {
	return handlers.Update(c, h.programs.Update, false)
}

// PatchProgram handles PATCH /api/v1/faculties/programs/:id
func (h *FacultyHandler) PatchProgram(c *fiber.Ctx) error {
	return handlers.Update(c, h.programs.Update, true)
}

// DeleteProgram handles DELETE /api/v1/faculties/programs/:id
func (h *FacultyHandler) DeleteProgram(c *fiber.Ctx) error {
	return handlers.Delete(c, h.programs.Delete)
}
