package researchgroup

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/pandiu-api/handlers"
	"github.com/sahilchouksey/pandiu-api/services"
)

// ResearchGroupHandler handles research group requests
type ResearchGroupHandler struct {
	groups *services.ResearchGroupService
}

// NewResearchGroupHandler creates a new research group handler
func NewResearchGroupHandler(svc *services.Services) *ResearchGroupHandler {
	return &ResearchGroupHandler{groups: svc.ResearchGroups}
}

// ListResearchGroups handles GET /api/v1/research-groups
func (h *ResearchGroupHandler) ListResearchGroups(c *fiber.Ctx) error {
	return handlers.List(c, h.groups.List)
}

// GetResearchGroup handles GET /api/v1/research-groups/:id
func (h *ResearchGroupHandler) GetResearchGroup(c *fiber.Ctx) error {
	return handlers.Get(c, h.groups.Get)
}

// CreateResearchGroup handles POST /api/v1/research-groups
func (h *ResearchGroupHandler) CreateResearchGroup(c *fiber.Ctx) error {
	return handlers.Create(c, h.groups.Create)
}

// UpdateResearchGroup handles PUT /api/v1/research-groups/:id
func (h *ResearchGroupHandler) UpdateResearchGroup(c *fiber.Ctx) error {
	return handlers.Update(c, h.groups.Update, false)
}

// PatchResearchGroup handles PATCH /api/v1/research-groups/:id
func (h *ResearchGroupHandler) PatchResearchGroup(c *fiber.Ctx) error {
	return handlers.Update(c, h.groups.Update, true)
}

// DeleteResearchGroup handles DELETE /api/v1/research-groups/:id
func (h *ResearchGroupHandler) DeleteResearchGroup(c *fiber.Ctx) error {
	return handlers.Delete(c, h.groups.Delete)
}
