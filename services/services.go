package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sahilchouksey/pandiu-api/repository"
	"github.com/sahilchouksey/pandiu-api/utils/pdfvalidation"
	"github.com/sahilchouksey/pandiu-api/utils/validation"
)

// DocumentStore keeps uploaded publication documents outside the database
type DocumentStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Services bundles every entity service over one Store
type Services struct {
	store repository.Store

	Faculties        *FacultyService
	Programs         *ProgramService
	ResearchGroups   *ResearchGroupService
	PublicationTypes *PublicationTypeService
	Keywords         *KeywordService
	UserTypes        *UserTypeService
	Users            *UserService
	UserTypeLinks    *UserTypeLinkService
	Publications     *PublicationService
}

// New wires all services. docs may be nil when no bucket is configured, in
// which case document uploads report storage.ErrUnavailable.
func New(store repository.Store, docs DocumentStore, limits pdfvalidation.PDFLimits) *Services {
	b := &base{store: store, validator: validation.NewValidator(), docs: docs}

	return &Services{
		store:            store,
		Faculties:        &FacultyService{b},
		Programs:         &ProgramService{b},
		ResearchGroups:   &ResearchGroupService{b},
		PublicationTypes: &PublicationTypeService{b},
		Keywords:         &KeywordService{b},
		UserTypes:        &UserTypeService{b},
		Users:            &UserService{b},
		UserTypeLinks:    &UserTypeLinkService{b},
		Publications:     &PublicationService{base: b, limits: limits.WithDefaults()},
	}
}

// Ping checks that the underlying store is reachable
func (s *Services) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// base carries the dependencies shared by every entity service
type base struct {
	store     repository.Store
	validator *validation.Validator
	docs      DocumentStore
}

// bind decodes p into input and validates it. Fields that failed to decode
// only report their decode error.
func (b *base) bind(p validation.Payload, input interface{}, partial bool) validation.FieldErrors {
	errs := validation.Bind(p, input)
	errs.Merge(b.validator.Validate(input, p, partial))
	return errs
}

// needs reports whether a field takes part in this write
func needs(p validation.Payload, field string, partial bool) bool {
	return !partial || p.Has(field)
}

// resolveRef loads the row referenced by id. A missing row is recorded as a
// field error and yields nil without an error.
func resolveRef[T any](ctx context.Context, repo repository.Repository[T], field string, id uint, errs validation.FieldErrors) (*T, error) {
	row, err := repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		errs.Add(field, validation.InvalidPKMessage(id))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", field, err)
	}
	return row, nil
}

// resolveRefs resolves a list of identifiers, collapsing duplicates and keeping
// the first occurrence order. Only the first missing id is reported.
func resolveRefs[T any](ctx context.Context, repo repository.Repository[T], field string, ids []uint, errs validation.FieldErrors) ([]uint, error) {
	seen := make(map[uint]bool, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		row, err := resolveRef(ctx, repo, field, id, errs)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, nil
		}
		unique = append(unique, id)
	}
	return unique, nil
}

// removeDocuments deletes stored objects that no row references anymore.
// Failures are logged; the rows are already gone.
func (b *base) removeDocuments(ctx context.Context, keys []string) {
	if b.docs == nil {
		return
	}
	for _, key := range keys {
		if err := b.docs.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to delete orphaned document")
		}
	}
}
