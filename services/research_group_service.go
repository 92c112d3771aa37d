package services

import (
	"context"

	"github.com/sahilchouksey/pandiu-api/model"
	"github.com/sahilchouksey/pandiu-api/projection"
	"github.com/sahilchouksey/pandiu-api/utils/validation"
)

// ResearchGroupInput is the writable shape of a research group
type ResearchGroupInput struct {
	Name        string `json:"nombre_grupo" validate:"required,max=255"`
	Description string `json:"descripcion" validate:"required"`
}

// ResearchGroupService manages research groups. Deleting a group deletes its publications.
type ResearchGroupService struct{ *base }

func (s *ResearchGroupService) List(ctx context.Context) ([]projection.ResearchGroupDocument, error) {
	groups, err := s.store.ResearchGroups().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]projection.ResearchGroupDocument, 0, len(groups))
	for _, g := range groups {
		docs = append(docs, projection.ResearchGroup(g))
	}
	return docs, nil
}

func (s *ResearchGroupService) Get(ctx context.Context, id uint) (*projection.ResearchGroupDocument, error) {
	group, err := s.store.ResearchGroups().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := projection.ResearchGroup(*group)
	return &doc, nil
}

func (s *ResearchGroupService) Create(ctx context.Context, p validation.Payload) (*projection.ResearchGroupDocument, error) {
	return s.write(ctx, &model.ResearchGroup{}, p, false)
}

func (s *ResearchGroupService) Update(ctx context.Context, id uint, p validation.Payload, partial bool) (*projection.ResearchGroupDocument, error) {
	group, err := s.store.ResearchGroups().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, group, p, partial)
}

func (s *ResearchGroupService) write(ctx context.Context, group *model.ResearchGroup, p validation.Payload, partial bool) (*projection.ResearchGroupDocument, error) {
	var input ResearchGroupInput
	if partial {
		input = ResearchGroupInput{Name: group.Name, Description: group.Description}
	}
	if errs := s.bind(p, &input, partial); errs.HasErrors() {
		return nil, errs
	}
	group.Name = input.Name
	group.Description = input.Description

	if err := s.store.ResearchGroups().Save(ctx, group); err != nil {
		return nil, err
	}
	doc := projection.ResearchGroup(*group)
	return &doc, nil
}

func (s *ResearchGroupService) Delete(ctx context.Context, id uint) error {
	return s.remove(ctx, (*cascade).researchGroup, id)
}
