package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/sahilchouksey/pandiu-api/model"
	"github.com/sahilchouksey/pandiu-api/projection"
	"github.com/sahilchouksey/pandiu-api/repository"
	"github.com/sahilchouksey/pandiu-api/services/storage"
	"github.com/sahilchouksey/pandiu-api/utils/pdfvalidation"
	"github.com/sahilchouksey/pandiu-api/utils/validation"
)

// DocumentField is the payload and form field carrying a publication's PDF
const DocumentField = "archivo_pdf"

// PublicationTypeInput is the writable shape of a publication type
type PublicationTypeInput struct {
	Name        string `json:"nombre_tipo" validate:"required,max=100"`
	Description string `json:"descripcion" validate:"required"`
}

// PublicationTypeService manages publication types. Deleting a type deletes its publications.
type PublicationTypeService struct{ *base }

func (s *PublicationTypeService) List(ctx context.Context) ([]projection.PublicationTypeDocument, error) {
	types, err := s.store.PublicationTypes().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]projection.PublicationTypeDocument, 0, len(types))
	for _, t := range types {
		docs = append(docs, projection.PublicationType(t))
	}
	return docs, nil
}

func (s *PublicationTypeService) Get(ctx context.Context, id uint) (*projection.PublicationTypeDocument, error) {
	ptype, err := s.store.PublicationTypes().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := projection.PublicationType(*ptype)
	return &doc, nil
}

func (s *PublicationTypeService) Create(ctx context.Context, p validation.Payload) (*projection.PublicationTypeDocument, error) {
	return s.write(ctx, &model.PublicationType{}, p, false)
}

func (s *PublicationTypeService) Update(ctx context.Context, id uint, p validation.Payload, partial bool) (*projection.PublicationTypeDocument, error) {
	ptype, err := s.store.PublicationTypes().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, ptype, p, partial)
}

func (s *PublicationTypeService) write(ctx context.Context, ptype *model.PublicationType, p validation.Payload, partial bool) (*projection.PublicationTypeDocument, error) {
	var input PublicationTypeInput
	if partial {
		input = PublicationTypeInput{Name: ptype.Name, Description: ptype.Description}
	}
	if errs := s.bind(p, &input, partial); errs.HasErrors() {
		return nil, errs
	}
	ptype.Name = input.Name
	ptype.Description = input.Description

	if err := s.store.PublicationTypes().Save(ctx, ptype); err != nil {
		return nil, err
	}
	doc := projection.PublicationType(*ptype)
	return &doc, nil
}

func (s *PublicationTypeService) Delete(ctx context.Context, id uint) error {
	return s.remove(ctx, (*cascade).publicationType, id)
}

// KeywordInput is the writable shape of a keyword
type KeywordInput struct {
	Word string `json:"palabra" validate:"required,max=100"`
}

// KeywordService manages keywords. Deleting a keyword unlinks it from every publication.
type KeywordService struct{ *base }

func (s *KeywordService) List(ctx context.Context) ([]projection.KeywordDocument, error) {
	keywords, err := s.store.Keywords().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]projection.KeywordDocument, 0, len(keywords))
	for _, k := range keywords {
		docs = append(docs, projection.Keyword(k))
	}
	return docs, nil
}

func (s *KeywordService) Get(ctx context.Context, id uint) (*projection.KeywordDocument, error) {
	keyword, err := s.store.Keywords().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := projection.Keyword(*keyword)
	return &doc, nil
}

func (s *KeywordService) Create(ctx context.Context, p validation.Payload) (*projection.KeywordDocument, error) {
	return s.write(ctx, &model.Keyword{}, p, false)
}

func (s *KeywordService) Update(ctx context.Context, id uint, p validation.Payload, partial bool) (*projection.KeywordDocument, error) {
	keyword, err := s.store.Keywords().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, keyword, p, partial)
}

func (s *KeywordService) write(ctx context.Context, keyword *model.Keyword, p validation.Payload, partial bool) (*projection.KeywordDocument, error) {
	var input KeywordInput
	if partial {
		input = KeywordInput{Word: keyword.Word}
	}
	if errs := s.bind(p, &input, partial); errs.HasErrors() {
		return nil, errs
	}
	keyword.Word = input.Word

	if err := s.store.Keywords().Save(ctx, keyword); err != nil {
		return nil, err
	}
	doc := projection.Keyword(*keyword)
	return &doc, nil
}

func (s *KeywordService) Delete(ctx context.Context, id uint) error {
	return s.remove(ctx, (*cascade).keyword, id)
}

// PublicationInput is the writable shape of a publication. KeywordIDs
// replaces the publication's keyword links whenever it is supplied.
type PublicationInput struct {
	Title             string `json:"titulo" validate:"required,max=255"`
	Summary           string `json:"resumen" validate:"required"`
	PublishedOn       string `json:"fecha_publicacion" validate:"required,date"`
	ResearchGroupID   uint   `json:"grupo_investigacion" validate:"required"`
	UserID            uint   `json:"usuario" validate:"required"`
	PublicationTypeID *uint  `json:"tipos_publicacion"`
	KeywordIDs        []uint `json:"palabras_clave" validate:"required"`
}

// PublicationService manages publications, their keyword links and their PDF document
type PublicationService struct {
	*base
	limits pdfvalidation.PDFLimits
}

func (s *PublicationService) List(ctx context.Context) ([]projection.PublicationDocument, error) {
	publications, err := s.store.Publications().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]projection.PublicationDocument, 0, len(publications))
	for _, p := range publications {
		doc, err := projectPublication(ctx, s.store, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (s *PublicationService) Get(ctx context.Context, id uint) (*projection.PublicationDocument, error) {
	publication, err := s.store.Publications().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return projectPublication(ctx, s.store, *publication)
}

func (s *PublicationService) Create(ctx context.Context, p validation.Payload) (*projection.PublicationDocument, error) {
	return s.write(ctx, &model.Publication{}, p, false)
}

// Update replaces the publication, or only the supplied fields when partial
// is set. Keyword links are left alone unless palabras_clave is supplied.
func (s *PublicationService) Update(ctx context.Context, id uint, p validation.Payload, partial bool) (*projection.PublicationDocument, error) {
	publication, err := s.store.Publications().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, publication, p, partial)
}

func (s *PublicationService) write(ctx context.Context, publication *model.Publication, p validation.Payload, partial bool) (*projection.PublicationDocument, error) {
	// tipos_publicacion is optional, so an omitted value keeps the stored one
	input := PublicationInput{PublicationTypeID: publication.PublicationTypeID}
	if partial {
		input.Title = publication.Title
		input.Summary = publication.Summary
		input.PublishedOn = time.Time(publication.PublishedOn).Format(validation.DateLayout)
		input.ResearchGroupID = publication.ResearchGroupID
		input.UserID = publication.UserID
	}
	errs := s.bind(p, &input, partial)
	syncKeywords := needs(p, "palabras_clave", partial)

	var doc *projection.PublicationDocument
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if needs(p, "grupo_investigacion", partial) && !errs.Has("grupo_investigacion") {
			if _, err := resolveRef[model.ResearchGroup](ctx, tx.ResearchGroups(), "grupo_investigacion", input.ResearchGroupID, errs); err != nil {
				return err
			}
		}
		if needs(p, "usuario", partial) && !errs.Has("usuario") {
			if _, err := resolveRef[model.User](ctx, tx.Users(), "usuario", input.UserID, errs); err != nil {
				return err
			}
		}
		if input.PublicationTypeID != nil && needs(p, "tipos_publicacion", partial) && !errs.Has("tipos_publicacion") {
			if _, err := resolveRef[model.PublicationType](ctx, tx.PublicationTypes(), "tipos_publicacion", *input.PublicationTypeID, errs); err != nil {
				return err
			}
		}
		var keywordIDs []uint
		if syncKeywords && !errs.Has("palabras_clave") {
			var err error
			if keywordIDs, err = resolveRefs[model.Keyword](ctx, tx.Keywords(), "palabras_clave", input.KeywordIDs, errs); err != nil {
				return err
			}
		}
		if errs.HasErrors() {
			return errs
		}

		publishedOn, err := time.Parse(validation.DateLayout, input.PublishedOn)
		if err != nil {
			return fmt.Errorf("failed to parse publication date: %w", err)
		}
		publication.Title = input.Title
		publication.Summary = input.Summary
		publication.PublishedOn = datatypes.Date(publishedOn)
		publication.ResearchGroupID = input.ResearchGroupID
		publication.UserID = input.UserID
		publication.PublicationTypeID = input.PublicationTypeID
		if err := tx.Publications().Save(ctx, publication); err != nil {
			return err
		}

		if syncKeywords {
			if err := replaceKeywords(ctx, tx, publication.ID, keywordIDs); err != nil {
				return err
			}
		}

		doc, err = projectPublication(ctx, tx, *publication)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the publication with its keyword links and stored document
func (s *PublicationService) Delete(ctx context.Context, id uint) error {
	return s.remove(ctx, (*cascade).publication, id)
}

// AttachDocument validates content as a PDF, stores it and points the
// publication at it. A previously attached document is deleted afterwards.
func (s *PublicationService) AttachDocument(ctx context.Context, id uint, filename string, content []byte) (*projection.PublicationDocument, error) {
	if s.docs == nil {
		return nil, storage.ErrUnavailable
	}
	if _, err := s.store.Publications().FindByID(ctx, id); err != nil {
		return nil, err
	}

	result := pdfvalidation.ValidatePDFBytes(content, s.limits)
	if !result.Valid {
		return nil, validation.FieldErrors{DocumentField: {result.Error}}
	}

	key := storage.GenerateKey(id, filename)
	url, err := s.docs.Upload(ctx, key, content, "application/pdf")
	if err != nil {
		return nil, err
	}

	var previous *string
	var doc *projection.PublicationDocument
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		publication, err := tx.Publications().FindByID(ctx, id)
		if err != nil {
			return err
		}
		previous = publication.DocumentKey
		publication.DocumentKey = &key
		publication.DocumentURL = &url
		if err := tx.Publications().Save(ctx, publication); err != nil {
			return err
		}
		doc, err = projectPublication(ctx, tx, *publication)
		return err
	})
	if err != nil {
		s.removeDocuments(ctx, []string{key})
		return nil, err
	}

	log.Info().Uint("publication_id", id).Str("key", key).Int("pages", result.PageCount).Msg("publication document attached")
	if previous != nil {
		s.removeDocuments(ctx, []string{*previous})
	}
	return doc, nil
}

// DetachDocument clears the publication's document and deletes the stored object
func (s *PublicationService) DetachDocument(ctx context.Context, id uint) (*projection.PublicationDocument, error) {
	if s.docs == nil {
		return nil, storage.ErrUnavailable
	}

	var previous *string
	var doc *projection.PublicationDocument
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		publication, err := tx.Publications().FindByID(ctx, id)
		if err != nil {
			return err
		}
		previous = publication.DocumentKey
		publication.DocumentKey = nil
		publication.DocumentURL = nil
		if err := tx.Publications().Save(ctx, publication); err != nil {
			return err
		}
		doc, err = projectPublication(ctx, tx, *publication)
		return err
	})
	if err != nil {
		return nil, err
	}

	if previous != nil {
		s.removeDocuments(ctx, []string{*previous})
	}
	return doc, nil
}

// replaceKeywords makes keywordIDs the exact set of keywords linked to the publication
func replaceKeywords(ctx context.Context, tx repository.Store, publicationID uint, keywordIDs []uint) error {
	links, err := tx.PublicationKeywords().ListByPublication(ctx, publicationID)
	if err != nil {
		return fmt.Errorf("failed to list keyword links: %w", err)
	}

	wanted := make(map[uint]bool, len(keywordIDs))
	for _, id := range keywordIDs {
		wanted[id] = true
	}
	linked := make(map[uint]bool, len(links))
	for _, link := range links {
		if !wanted[link.KeywordID] {
			if err := tx.PublicationKeywords().Delete(ctx, link.ID); err != nil {
				return fmt.Errorf("failed to unlink keyword %d: %w", link.KeywordID, err)
			}
			continue
		}
		linked[link.KeywordID] = true
	}

	for _, id := range keywordIDs {
		if linked[id] {
			continue
		}
		link := &model.PublicationKeyword{PublicationID: publicationID, KeywordID: id}
		if err := tx.PublicationKeywords().Save(ctx, link); err != nil {
			return fmt.Errorf("failed to link keyword %d: %w", id, err)
		}
	}
	return nil
}

func projectPublication(ctx context.Context, store repository.Store, publication model.Publication) (*projection.PublicationDocument, error) {
	group, err := findOptional[model.ResearchGroup](ctx, store.ResearchGroups(), &publication.ResearchGroupID)
	if err != nil {
		return nil, err
	}

	var author *projection.UserDocument
	user, err := findOptional[model.User](ctx, store.Users(), &publication.UserID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if author, err = projectUser(ctx, store, *user); err != nil {
			return nil, err
		}
	}

	ptype, err := findOptional[model.PublicationType](ctx, store.PublicationTypes(), publication.PublicationTypeID)
	if err != nil {
		return nil, err
	}

	links, err := store.PublicationKeywords().ListByPublication(ctx, publication.ID)
	if err != nil {
		return nil, err
	}
	keywords := make([]model.Keyword, 0, len(links))
	for _, link := range links {
		keyword, err := findOptional[model.Keyword](ctx, store.Keywords(), &link.KeywordID)
		if err != nil {
			return nil, err
		}
		if keyword != nil {
			keywords = append(keywords, *keyword)
		}
	}

	doc := projection.Publication(publication, group, author, ptype, keywords)
	return &doc, nil
}
