package repository

import (
	"context"

	"github.com/sahilchouksey/pandiu-api/model"
	"gorm.io/gorm"
)

// GORMStore implements Store on top of a *gorm.DB
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a store backed by db
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Faculties() FacultyRepository {
	return &gormRepository[model.Faculty]{db: s.db}
}

func (s *GORMStore) Programs() ProgramRepository {
	return &gormProgramRepository{gormRepository[model.Program]{db: s.db}}
}

func (s *GORMStore) ResearchGroups() ResearchGroupRepository {
	return &gormRepository[model.ResearchGroup]{db: s.db}
}

func (s *GORMStore) PublicationTypes() PublicationTypeRepository {
	return &gormRepository[model.PublicationType]{db: s.db}
}

func (s *GORMStore) Keywords() KeywordRepository {
	return &gormRepository[model.Keyword]{db: s.db}
}

func (s *GORMStore) UserTypes() UserTypeRepository {
	return &gormRepository[model.UserType]{db: s.db}
}

func (s *GORMStore) Users() UserRepository {
	return &gormUserRepository{gormRepository[model.User]{db: s.db}}
}

func (s *GORMStore) UserTypeLinks() UserTypeLinkRepository {
	return &gormUserTypeLinkRepository{gormRepository[model.UserUserType]{db: s.db}}
}

func (s *GORMStore) Publications() PublicationRepository {
	return &gormPublicationRepository{gormRepository[model.Publication]{db: s.db}}
}

func (s *GORMStore) PublicationKeywords() PublicationKeywordRepository {
	return &gormPublicationKeywordRepository{gormRepository[model.PublicationKeyword]{db: s.db}}
}

// Transaction wraps fn in a GORM transaction
func (s *GORMStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GORMStore{db: tx})
	})
}

// Ping verifies the database connection is alive
func (s *GORMStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type gormRepository[T any] struct {
	db *gorm.DB
}

func (r *gormRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

func (r *gormRepository[T]) ListAll(ctx context.Context) ([]T, error) {
	return r.listWhere(ctx, "")
}

func (r *gormRepository[T]) Save(ctx context.Context, entity *T) error {
	// Save inserts when the primary key is zero
	return translateError(r.db.WithContext(ctx).Save(entity).Error)
}

func (r *gormRepository[T]) Delete(ctx context.Context, id uint) error {
	var entity T
	result := r.db.WithContext(ctx).Delete(&entity, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository[T]) listWhere(ctx context.Context, query string, args ...interface{}) ([]T, error) {
	entities := []T{}
	db := r.db.WithContext(ctx)
	if query != "" {
		db = db.Where(query, args...)
	}
	if err := db.Order("id ASC").Find(&entities).Error; err != nil {
		return nil, translateError(err)
	}
	return entities, nil
}

type gormProgramRepository struct {
	gormRepository[model.Program]
}

func (r *gormProgramRepository) ListByFaculty(ctx context.Context, facultyID uint) ([]model.Program, error) {
	return r.listWhere(ctx, "facultad_id = ?", facultyID)
}

type gormUserRepository struct {
	gormRepository[model.User]
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *gormUserRepository) ListByProgram(ctx context.Context, programID uint) ([]model.User, error) {
	return r.listWhere(ctx, "program_id = ?", programID)
}

type gormUserTypeLinkRepository struct {
	gormRepository[model.UserUserType]
}

func (r *gormUserTypeLinkRepository) ListByUser(ctx context.Context, userID uint) ([]model.UserUserType, error) {
	return r.listWhere(ctx, "usuario_id = ?", userID)
}

func (r *gormUserTypeLinkRepository) ListByUserType(ctx context.Context, userTypeID uint) ([]model.UserUserType, error) {
	return r.listWhere(ctx, "tipo_usuario_id = ?", userTypeID)
}

type gormPublicationRepository struct {
	gormRepository[model.Publication]
}

func (r *gormPublicationRepository) ListByUser(ctx context.Context, userID uint) ([]model.Publication, error) {
	return r.listWhere(ctx, "usuario_id = ?", userID)
}

func (r *gormPublicationRepository) ListByResearchGroup(ctx context.Context, groupID uint) ([]model.Publication, error) {
	return r.listWhere(ctx, "grupo_investigacion_id = ?", groupID)
}

func (r *gormPublicationRepository) ListByPublicationType(ctx context.Context, typeID uint) ([]model.Publication, error) {
	return r.listWhere(ctx, "tipo_publicacion_id = ?", typeID)
}

type gormPublicationKeywordRepository struct {
	gormRepository[model.PublicationKeyword]
}

func (r *gormPublicationKeywordRepository) ListByPublication(ctx context.Context, publicationID uint) ([]model.PublicationKeyword, error) {
	return r.listWhere(ctx, "publicacion_id = ?", publicationID)
}

func (r *gormPublicationKeywordRepository) ListByKeyword(ctx context.Context, keywordID uint) ([]model.PublicationKeyword, error) {
	return r.listWhere(ctx, "palabra_clave_id = ?", keywordID)
}
