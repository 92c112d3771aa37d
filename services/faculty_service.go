package services

import (
	"context"
	"errors"

	"github.com/sahilchouksey/pandiu-api/model"
	"github.com/sahilchouksey/pandiu-api/projection"
	"github.com/sahilchouksey/pandiu-api/repository"
	"github.com/sahilchouksey/pandiu-api/utils/validation"
)

// FacultyInput is the writable shape of a faculty
type FacultyInput struct {
	Name string `json:"nombre_facultad" validate:"required,max=255"`
}

// FacultyService manages faculties and deletes their programs with them
type FacultyService struct{ *base }

func (s *FacultyService) List(ctx context.Context) ([]projection.FacultyDocument, error) {
	faculties, err := s.store.Faculties().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]projection.FacultyDocument, 0, len(faculties))
	for _, f := range faculties {
		docs = append(docs, projection.Faculty(f))
	}
	return docs, nil
}

func (s *FacultyService) Get(ctx context.Context, id uint) (*projection.FacultyDocument, error) {
	faculty, err := s.store.Faculties().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := projection.Faculty(*faculty)
	return &doc, nil
}

func (s *FacultyService) Create(ctx context.Context, p validation.Payload) (*projection.FacultyDocument, error) {
	return s.write(ctx, &model.Faculty{}, p, false)
}

// Update replaces the faculty, or only the supplied fields when partial is set
func (s *FacultyService) Update(ctx context.Context, id uint, p validation.Payload, partial bool) (*projection.FacultyDocument, error) {
	faculty, err := s.store.Faculties().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, faculty, p, partial)
}

func (s *FacultyService) write(ctx context.Context, faculty *model.Faculty, p validation.Payload, partial bool) (*projection.FacultyDocument, error) {
	var input FacultyInput
	if partial {
		input = FacultyInput{Name: faculty.Name}
	}
	if errs := s.bind(p, &input, partial); errs.HasErrors() {
		return nil, errs
	}
	faculty.Name = input.Name

	if err := s.store.Faculties().Save(ctx, faculty); err != nil {
		return nil, err
	}
	doc := projection.Faculty(*faculty)
	return &doc, nil
}

// Delete removes the faculty and every program under it
func (s *FacultyService) Delete(ctx context.Context, id uint) error {
	return s.remove(ctx, (*cascade).faculty, id)
}

// ProgramInput is the writable shape of a program
type ProgramInput struct {
	Name      string `json:"program_name" validate:"required,max=255"`
	FacultyID uint   `json:"facultad" validate:"required"`
}

// ProgramService manages programs and their faculty reference
type ProgramService struct{ *base }

func (s *ProgramService) List(ctx context.Context) ([]projection.ProgramDocument, error) {
	programs, err := s.store.Programs().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.projectAll(ctx, s.store, programs)
}

// ListByFaculty lists the programs of one faculty. An unknown faculty is
// reported as repository.ErrNotFound.
func (s *ProgramService) ListByFaculty(ctx context.Context, facultyID uint) ([]projection.ProgramDocument, error) {
	if _, err := s.store.Faculties().FindByID(ctx, facultyID); err != nil {
		return nil, err
	}
	programs, err := s.store.Programs().ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	return s.projectAll(ctx, s.store, programs)
}

func (s *ProgramService) Get(ctx context.Context, id uint) (*projection.ProgramDocument, error) {
	program, err := s.store.Programs().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return projectProgram(ctx, s.store, *program)
}

func (s *ProgramService) Create(ctx context.Context, p validation.Payload) (*projection.ProgramDocument, error) {
	return s.write(ctx, &model.Program{}, p, false)
}

func (s *ProgramService) Update(ctx context.Context, id uint, p validation.Payload, partial bool) (*projection.ProgramDocument, error) {
	program, err := s.store.Programs().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, program, p, partial)
}

func (s *ProgramService) write(ctx context.Context, program *model.Program, p validation.Payload, partial bool) (*projection.ProgramDocument, error) {
	var input ProgramInput
	if partial {
		input = ProgramInput{Name: program.Name, FacultyID: program.FacultyID}
	}
	errs := s.bind(p, &input, partial)

	var doc *projection.ProgramDocument
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if needs(p, "facultad", partial) && !errs.Has("facultad") {
			if _, err := resolveRef[model.Faculty](ctx, tx.Faculties(), "facultad", input.FacultyID, errs); err != nil {
				return err
			}
		}
		if errs.HasErrors() {
			return errs
		}

		program.Name = input.Name
		program.FacultyID = input.FacultyID
		if err := tx.Programs().Save(ctx, program); err != nil {
			return err
		}

		var err error
		doc, err = projectProgram(ctx, tx, *program)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the program and the users enrolled in it
func (s *ProgramService) Delete(ctx context.Context, id uint) error {
	return s.remove(ctx, (*cascade).program, id)
}

func (s *ProgramService) projectAll(ctx context.Context, store repository.Store, programs []model.Program) ([]projection.ProgramDocument, error) {
	docs := make([]projection.ProgramDocument, 0, len(programs))
	for _, program := range programs {
		doc, err := projectProgram(ctx, store, program)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func projectProgram(ctx context.Context, store repository.Store, program model.Program) (*projection.ProgramDocument, error) {
	faculty, err := findOptional[model.Faculty](ctx, store.Faculties(), &program.FacultyID)
	if err != nil {
		return nil, err
	}
	doc := projection.Program(program, faculty)
	return &doc, nil
}

// findOptional loads the row for id, treating a nil id or a missing row as absent
func findOptional[T any](ctx context.Context, repo repository.Repository[T], id *uint) (*T, error) {
	if id == nil {
		return nil, nil
	}
	row, err := repo.FindByID(ctx, *id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return row, err
}
