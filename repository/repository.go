// Package repository defines the storage contract used by the services layer.
//
// Every entity is reached through a small repository interface so the write and
// projection logic can run against either the GORM store or the in-memory store
// in repository/memstore.
package repository

import (
	"context"
	"errors"

	"github.com/sahilchouksey/pandiu-api/model"
)

var (
	// ErrNotFound is returned when no row matches the requested identifier
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")
	// ErrForeignKey is returned when a write references a missing row
	ErrForeignKey = errors.New("foreign key violation")
)

// Repository is the common surface shared by every entity repository.
// Save inserts when the entity ID is zero and updates otherwise.
type Repository[T any] interface {
	FindByID(ctx context.Context, id uint) (*T, error)
	ListAll(ctx context.Context) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
}

type FacultyRepository interface {
	Repository[model.Faculty]
}

type ProgramRepository interface {
	Repository[model.Program]
	ListByFaculty(ctx context.Context, facultyID uint) ([]model.Program, error)
}

type ResearchGroupRepository interface {
	Repository[model.ResearchGroup]
}

type PublicationTypeRepository interface {
	Repository[model.PublicationType]
}

type KeywordRepository interface {
	Repository[model.Keyword]
}

type UserTypeRepository interface {
	Repository[model.UserType]
}

type UserRepository interface {
	Repository[model.User]
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ListByProgram(ctx context.Context, programID uint) ([]model.User, error)
}

type UserTypeLinkRepository interface {
	Repository[model.UserUserType]
	ListByUser(ctx context.Context, userID uint) ([]model.UserUserType, error)
	ListByUserType(ctx context.Context, userTypeID uint) ([]model.UserUserType, error)
}

type PublicationRepository interface {
	Repository[model.Publication]
	ListByUser(ctx context.Context, userID uint) ([]model.Publication, error)
	ListByResearchGroup(ctx context.Context, groupID uint) ([]model.Publication, error)
	ListByPublicationType(ctx context.Context, typeID uint) ([]model.Publication, error)
}

type PublicationKeywordRepository interface {
	Repository[model.PublicationKeyword]
	ListByPublication(ctx context.Context, publicationID uint) ([]model.PublicationKeyword, error)
	ListByKeyword(ctx context.Context, keywordID uint) ([]model.PublicationKeyword, error)
}

// Store groups all repositories behind one transactional boundary.
//
// Transaction runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back on any error or panic.
type Store interface {
	Faculties() FacultyRepository
	Programs() ProgramRepository
	ResearchGroups() ResearchGroupRepository
	PublicationTypes() PublicationTypeRepository
	Keywords() KeywordRepository
	UserTypes() UserTypeRepository
	Users() UserRepository
	UserTypeLinks() UserTypeLinkRepository
	Publications() PublicationRepository
	PublicationKeywords() PublicationKeywordRepository

	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
