package publication

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/pandiu-api/handlers"
	"github.com/sahilchouksey/pandiu-api/services"
	"github.com/sahilchouksey/pandiu-api/utils/response"
	"github.com/sahilchouksey/pandiu-api/utils/validation"
)

const msgNoFile = "No file was submitted."

// PublicationHandler handles publications, publication types and keywords
type PublicationHandler struct {
	publications     *services.PublicationService
	publicationTypes *services.PublicationTypeService
	keywords         *services.KeywordService
}

// NewPublicationHandler creates a new publication handler
func NewPublicationHandler(svc *services.Services) *PublicationHandler {
	return &PublicationHandler{
		publications:     svc.Publications,
		publicationTypes: svc.PublicationTypes,
		keywords:         svc.Keywords,
	}
}

// ListPublications handles GET /api/v1/publications
func (h *PublicationHandler) ListPublications(c *fiber.Ctx) error {
	return handlers.List(c, h.publications.List)
}

// GetPublication handles GET /api/v1/publications/:id
func (h *PublicationHandler) GetPublication(c *fiber.Ctx) error {
	return handlers.Get(c, h.publications.Get)
}

// CreatePublication handles POST /api/v1/publications
func (h *PublicationHandler) CreatePublication(c *fiber.Ctx) error {
	return handlers.Create(c, h.publications.Create)
}

// UpdatePublication handles PUT /api/v1/publications/:id
func (h *PublicationHandler) UpdatePublication(c *fiber.Ctx) error {
	return handlers.Update(c, h.publications.Update, false)
}

// DeletePublication handles DELETE /api/v1/publications/:id
func (h *PublicationHandler) DeletePublication(c *fiber.Ctx) error {
	return handlers.Delete(c, h.publications.Delete)
}

// UploadDocument handles PUT /api/v1/publications/:id/document (multipart archivo_pdf)
func (h *PublicationHandler) UploadDocument(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	file, err := c.FormFile(services.DocumentField)
	if err != nil {
		errs := validation.FieldErrors{}
		errs.Add(services.DocumentField, msgNoFile)
		return response.ValidationError(c, errs)
	}

	fileContent, err := file.Open()
	if err != nil {
		return response.InternalServerError(c, "")
	}
	defer fileContent.Close()

	content, err := io.ReadAll(fileContent)
	if err != nil {
		return response.InternalServerError(c, "")
	}

	doc, err := h.publications.AttachDocument(c.UserContext(), id, file.Filename, content)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, doc)
}

// DeleteDocument handles DELETE /api/v1/publications/:id/document
func (h *PublicationHandler) DeleteDocument(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	doc, err := h.publications.DetachDocument(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, doc)
}

// ListPublicationTypes handles GET /api/v1/publications/publication-types
func (h *PublicationHandler) ListPublicationTypes(c *fiber.Ctx) error {
	return handlers.List(c, h.publicationTypes.List)
}

// GetPublicationType handles GET /api/v1/publications/publication-types/:id
func (h *PublicationHandler) GetPublicationType(c *fiber.Ctx) error {
	return handlers.Get(c, h.publicationTypes.Get)
}

// CreatePublicationType handles POST /api/v1/publications/publication-types
func (h *PublicationHandler) CreatePublicationType(c *fiber.Ctx) error {
	return handlers.Create(c, h.publicationTypes.Create)
}

// UpdatePublicationType handles PUT /api/v1/publications/publication-types/:id
func (h *PublicationHandler) UpdatePublicationType(c *fiber.Ctx) error {
	return handlers.Update(c, h.publicationTypes.Update, false)
}

// DeletePublicationType handles DELETE /api/v1/publications/publication-types/:id
func (h *PublicationHandler) DeletePublicationType(c *fiber.Ctx) error {
	return handlers.Delete(c, h.publicationTypes.Delete)
}

// ListKeywords handles GET /api/v1/publications/keywords
func (h *PublicationHandler) ListKeywords(c *fiber.Ctx) error {
	return handlers.List(c, h.keywords.List)
}

// GetKeyword handles GET /api/v1/publications/keywords/:id
func (h *PublicationHandler) GetKeyword(c *fiber.Ctx) error {
	return handlers.Get(c, h.keywords.Get)
}

// CreateKeyword handles POST /api/v1/publications/keywords
func (h *PublicationHandler) CreateKeyword(c *fiber.Ctx) error {
	return handlers.Create(c, h.keywords.Create)
}

// UpdateKeyword handles PUT /api/v1/publications/keywords/:id
func (h *PublicationHandler) UpdateKeyword(c *fiber.Ctx) error {
	return handlers.Update(c, h.keywords.Update, false)
}

// DeleteKeyword handles DELETE /api/v1/publications/keywords/:id
func (h *PublicationHandler) DeleteKeyword(c *fiber.Ctx) error {
	return handlers.Delete(c, h.keywords.Delete)
}
