package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilchouksey/pandiu-api/model"
	"github.com/sahilchouksey/pandiu-api/projection"
	"github.com/sahilchouksey/pandiu-api/repository"
	"github.com/sahilchouksey/pandiu-api/utils/validation"
)

const (
	msgEmailTaken    = "usuario with this email already exists."
	msgLinkDuplicate = "The fields usuario, tipo_usuario must make a unique set."
)

// UserTypeInput is the writable shape of a user type
type UserTypeInput struct {
	Name string `json:"name" validate:"required,max=50"`
}

// UserTypeService manages user types. Deleting a type removes it from every user.
type UserTypeService struct{ *base }

func (s *UserTypeService) List(ctx context.Context) ([]projection.UserTypeDocument, error) {
	types, err := s.store.UserTypes().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]projection.UserTypeDocument, 0, len(types))
	for _, t := range types {
		docs = append(docs, projection.UserType(t))
	}
	return docs, nil
}

func (s *UserTypeService) Get(ctx context.Context, id uint) (*projection.UserTypeDocument, error) {
	userType, err := s.store.UserTypes().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := projection.UserType(*userType)
	return &doc, nil
}

func (s *UserTypeService) Create(ctx context.Context, p validation.Payload) (*projection.UserTypeDocument, error) {
	return s.write(ctx, &model.UserType{}, p, false)
}

func (s *UserTypeService) Update(ctx context.Context, id uint, p validation.Payload, partial bool) (*projection.UserTypeDocument, error) {
	userType, err := s.store.UserTypes().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, userType, p, partial)
}

func (s *UserTypeService) write(ctx context.Context, userType *model.UserType, p validation.Payload, partial bool) (*projection.UserTypeDocument, error) {
	var input UserTypeInput
	if partial {
		input = UserTypeInput{Name: userType.Name}
	}
	if errs := s.bind(p, &input, partial); errs.HasErrors() {
		return nil, errs
	}
	userType.Name = input.Name

	if err := s.store.UserTypes().Save(ctx, userType); err != nil {
		return nil, err
	}
	doc := projection.UserType(*userType)
	return &doc, nil
}

func (s *UserTypeService) Delete(ctx context.Context, id uint) error {
	return s.remove(ctx, (*cascade).userType, id)
}

// UserInput is the writable shape of a user. UserTypeIDs replaces the
// user's type links whenever it is supplied.
type UserInput struct {
	FirstName   string `json:"name" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=254"`
	ProgramID   *uint  `json:"program"`
	UserTypeIDs []uint `json:"tipos_usuario" validate:"required"`
}

// UserService manages users together with their user type links
type UserService struct{ *base }

func (s *UserService) List(ctx context.Context) ([]projection.UserDocument, error) {
	users, err := s.store.Users().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]projection.UserDocument, 0, len(users))
	for _, u := range users {
		doc, err := projectUser(ctx, s.store, u)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*projection.UserDocument, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return projectUser(ctx, s.store, *user)
}

func (s *UserService) Create(ctx context.Context, p validation.Payload) (*projection.UserDocument, error) {
	return s.write(ctx, &model.User{}, p, false)
}

// Update replaces the user, or only the supplied fields when partial is set.
// The user's type links are left alone unless tipos_usuario is supplied.
func (s *UserService) Update(ctx context.Context, id uint, p validation.Payload, partial bool) (*projection.UserDocument, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, user, p, partial)
}

func (s *UserService) write(ctx context.Context, user *model.User, p validation.Payload, partial bool) (*projection.UserDocument, error) {
	// program is optional, so an omitted value keeps the stored one
	input := UserInput{ProgramID: user.ProgramID}
	if partial {
		input.FirstName = user.FirstName
		input.LastName = user.LastName
		input.Email = user.Email
	}
	errs := s.bind(p, &input, partial)
	syncTypes := needs(p, "tipos_usuario", partial)

	var doc *projection.UserDocument
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if needs(p, "email", partial) && !errs.Has("email") {
			if err := checkEmailFree(ctx, tx, input.Email, user.ID, errs); err != nil {
				return err
			}
		}
		if input.ProgramID != nil && needs(p, "program", partial) && !errs.Has("program") {
			if _, err := resolveRef[model.Program](ctx, tx.Programs(), "program", *input.ProgramID, errs); err != nil {
				return err
			}
		}
		var typeIDs []uint
		if syncTypes && !errs.Has("tipos_usuario") {
			var err error
			if typeIDs, err = resolveRefs[model.UserType](ctx, tx.UserTypes(), "tipos_usuario", input.UserTypeIDs, errs); err != nil {
				return err
			}
		}
		if errs.HasErrors() {
			return errs
		}

		user.FirstName = input.FirstName
		user.LastName = input.LastName
		user.Email = input.Email
		user.ProgramID = input.ProgramID
		if err := tx.Users().Save(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return validation.FieldErrors{"email": {msgEmailTaken}}
			}
			return err
		}

		if syncTypes {
			if err := replaceUserTypes(ctx, tx, user.ID, typeIDs); err != nil {
				return err
			}
		}

		var err error
		doc, err = projectUser(ctx, tx, *user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the user, its type links and its publications
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.remove(ctx, (*cascade).user, id)
}

func checkEmailFree(ctx context.Context, tx repository.Store, email string, selfID uint, errs validation.FieldErrors) error {
	existing, err := tx.Users().FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing.ID != selfID {
		errs.Add("email", msgEmailTaken)
	}
	return nil
}

// replaceUserTypes makes typeIDs the exact set of types linked to the user
func replaceUserTypes(ctx context.Context, tx repository.Store, userID uint, typeIDs []uint) error {
	links, err := tx.UserTypeLinks().ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list user type links: %w", err)
	}

	wanted := make(map[uint]bool, len(typeIDs))
	for _, id := range typeIDs {
		wanted[id] = true
	}
	linked := make(map[uint]bool, len(links))
	for _, link := range links {
		if !wanted[link.UserTypeID] {
			if err := tx.UserTypeLinks().Delete(ctx, link.ID); err != nil {
				return fmt.Errorf("failed to unlink user type %d: %w", link.UserTypeID, err)
			}
			continue
		}
		linked[link.UserTypeID] = true
	}

	for _, id := range typeIDs {
		if linked[id] {
			continue
		}
		link := &model.UserUserType{UserID: userID, UserTypeID: id}
		if err := tx.UserTypeLinks().Save(ctx, link); err != nil {
			return fmt.Errorf("failed to link user type %d: %w", id, err)
		}
	}
	return nil
}

func projectUser(ctx context.Context, store repository.Store, user model.User) (*projection.UserDocument, error) {
	program, err := findOptional[model.Program](ctx, store.Programs(), user.ProgramID)
	if err != nil {
		return nil, err
	}

	links, err := store.UserTypeLinks().ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	types := make([]model.UserType, 0, len(links))
	for _, link := range links {
		userType, err := findOptional[model.UserType](ctx, store.UserTypes(), &link.UserTypeID)
		if err != nil {
			return nil, err
		}
		if userType != nil {
			types = append(types, *userType)
		}
	}

	doc := projection.User(user, program, types)
	return &doc, nil
}

// UserTypeLinkInput is the writable shape of a single user type link
type UserTypeLinkInput struct {
	UserID     uint `json:"usuario" validate:"required"`
	UserTypeID uint `json:"tipo_usuario" validate:"required"`
}

// UserTypeLinkService manages individual user type links
type UserTypeLinkService struct{ *base }

func (s *UserTypeLinkService) List(ctx context.Context) ([]projection.UserTypeLinkDocument, error) {
	links, err := s.store.UserTypeLinks().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]projection.UserTypeLinkDocument, 0, len(links))
	for _, link := range links {
		doc, err := projectUserTypeLink(ctx, s.store, link)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (s *UserTypeLinkService) Get(ctx context.Context, id uint) (*projection.UserTypeLinkDocument, error) {
	link, err := s.store.UserTypeLinks().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return projectUserTypeLink(ctx, s.store, *link)
}

func (s *UserTypeLinkService) Create(ctx context.Context, p validation.Payload) (*projection.UserTypeLinkDocument, error) {
	return s.write(ctx, &model.UserUserType{}, p, false)
}

func (s *UserTypeLinkService) Update(ctx context.Context, id uint, p validation.Payload, partial bool) (*projection.UserTypeLinkDocument, error) {
	link, err := s.store.UserTypeLinks().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, link, p, partial)
}

func (s *UserTypeLinkService) write(ctx context.Context, link *model.UserUserType, p validation.Payload, partial bool) (*projection.UserTypeLinkDocument, error) {
	var input UserTypeLinkInput
	if partial {
		input = UserTypeLinkInput{UserID: link.UserID, UserTypeID: link.UserTypeID}
	}
	errs := s.bind(p, &input, partial)

	var doc *projection.UserTypeLinkDocument
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if needs(p, "usuario", partial) && !errs.Has("usuario") {
			if _, err := resolveRef[model.User](ctx, tx.Users(), "usuario", input.UserID, errs); err != nil {
				return err
			}
		}
		if needs(p, "tipo_usuario", partial) && !errs.Has("tipo_usuario") {
			if _, err := resolveRef[model.UserType](ctx, tx.UserTypes(), "tipo_usuario", input.UserTypeID, errs); err != nil {
				return err
			}
		}
		if !errs.HasErrors() {
			if err := checkLinkFree(ctx, tx, input.UserID, input.UserTypeID, link.ID, errs); err != nil {
				return err
			}
		}
		if errs.HasErrors() {
			return errs
		}

		link.UserID = input.UserID
		link.UserTypeID = input.UserTypeID
		if err := tx.UserTypeLinks().Save(ctx, link); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return validation.FieldErrors{validation.NonFieldErrors: {msgLinkDuplicate}}
			}
			return err
		}

		var err error
		doc, err = projectUserTypeLink(ctx, tx, *link)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *UserTypeLinkService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		return tx.UserTypeLinks().Delete(ctx, id)
	})
}

// checkLinkFree reports a non-field error when another link already pairs the user and type
func checkLinkFree(ctx context.Context, tx repository.Store, userID, userTypeID, selfID uint, errs validation.FieldErrors) error {
	links, err := tx.UserTypeLinks().ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user type link: %w", err)
	}
	for _, existing := range links {
		if existing.UserTypeID == userTypeID && existing.ID != selfID {
			errs.Add(validation.NonFieldErrors, msgLinkDuplicate)
			return nil
		}
	}
	return nil
}

func projectUserTypeLink(ctx context.Context, store repository.Store, link model.UserUserType) (*projection.UserTypeLinkDocument, error) {
	userType, err := findOptional[model.UserType](ctx, store.UserTypes(), &link.UserTypeID)
	if err != nil {
		return nil, err
	}
	doc := projection.UserTypeLink(link, userType)
	return &doc, nil
}
