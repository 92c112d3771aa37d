// Package memstore is an in-memory implementation of repository.Store.
//
// It mirrors the constraints the SQL schema enforces (unique email, unique join
// pairs, foreign key existence) and implements transactions by snapshotting every
// table and restoring the snapshot when the transaction function fails.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sahilchouksey/pandiu-api/model"
	"github.com/sahilchouksey/pandiu-api/repository"
)

// Store is a repository.Store kept entirely in memory
type Store struct {
	state *state
	inTx  bool
}

type state struct {
	mu   sync.Mutex // guards data
	txMu sync.Mutex // serializes transactions
	data *dataset

	// failSave, when set, is consulted before every Save and can abort it
	failSave func(entity interface{}) error
}

// New creates an empty store
func New() *Store {
	return &Store{state: &state{data: newDataset()}}
}

// FailSaveWith installs a hook that can abort any Save with an error
func (s *Store) FailSaveWith(hook func(entity interface{}) error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.failSave = hook
}

func (s *Store) Faculties() repository.FacultyRepository {
	return &memRepository[model.Faculty]{st: s.state, table: func(d *dataset) *table[model.Faculty] { return d.faculties }}
}

func (s *Store) Programs() repository.ProgramRepository {
	return &programRepository{memRepository[model.Program]{st: s.state, table: func(d *dataset) *table[model.Program] { return d.programs }}}
}

func (s *Store) ResearchGroups() repository.ResearchGroupRepository {
	return &memRepository[model.ResearchGroup]{st: s.state, table: func(d *dataset) *table[model.ResearchGroup] { return d.groups }}
}

func (s *Store) PublicationTypes() repository.PublicationTypeRepository {
	return &memRepository[model.PublicationType]{st: s.state, table: func(d *dataset) *table[model.PublicationType] { return d.publicationTypes }}
}

func (s *Store) Keywords() repository.KeywordRepository {
	return &memRepository[model.Keyword]{st: s.state, table: func(d *dataset) *table[model.Keyword] { return d.keywords }}
}

func (s *Store) UserTypes() repository.UserTypeRepository {
	return &memRepository[model.UserType]{st: s.state, table: func(d *dataset) *table[model.UserType] { return d.userTypes }}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{memRepository[model.User]{st: s.state, table: func(d *dataset) *table[model.User] { return d.users }}}
}

func (s *Store) UserTypeLinks() repository.UserTypeLinkRepository {
	return &userTypeLinkRepository{memRepository[model.UserUserType]{st: s.state, table: func(d *dataset) *table[model.UserUserType] { return d.userTypeLinks }}}
}

func (s *Store) Publications() repository.PublicationRepository {
	return &publicationRepository{memRepository[model.Publication]{st: s.state, table: func(d *dataset) *table[model.Publication] { return d.publications }}}
}

func (s *Store) PublicationKeywords() repository.PublicationKeywordRepository {
	return &publicationKeywordRepository{memRepository[model.PublicationKeyword]{st: s.state, table: func(d *dataset) *table[model.PublicationKeyword] { return d.publicationKeywords }}}
}

// Transaction runs fn and restores the pre-transaction snapshot if fn fails.
// Nested calls join the outer transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	s.state.txMu.Lock()
	defer s.state.txMu.Unlock()

	s.state.mu.Lock()
	snapshot := s.state.data.clone()
	s.state.mu.Unlock()

	rollback := func() {
		s.state.mu.Lock()
		s.state.data = snapshot
		s.state.mu.Unlock()
	}

	defer func() {
		if r := recover(); r != nil {
			rollback()
			panic(r)
		}
	}()

	if err = fn(&Store{state: s.state, inTx: true}); err != nil {
		rollback()
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// table holds the rows of one entity keyed by primary key
type table[T any] struct {
	rows   map[uint]T
	nextID uint
	key    func(*T) *uint
	// check validates constraints against the rest of the dataset before a write
	check func(d *dataset, row *T) error
}

func newTable[T any](key func(*T) *uint) *table[T] {
	return &table[T]{rows: map[uint]T{}, key: key}
}

func (t *table[T]) clone() *table[T] {
	c := &table[T]{rows: make(map[uint]T, len(t.rows)), nextID: t.nextID, key: t.key, check: t.check}
	for id, row := range t.rows {
		c.rows[id] = row
	}
	return c
}

func (t *table[T]) has(id uint) bool {
	_, ok := t.rows[id]
	return ok
}

// sorted returns rows ordered by primary key, optionally filtered
func (t *table[T]) sorted(keep func(*T) bool) []T {
	ids := make([]uint, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []T{}
	for _, id := range ids {
		row := t.rows[id]
		if keep == nil || keep(&row) {
			out = append(out, row)
		}
	}
	return out
}

type dataset struct {
	faculties           *table[model.Faculty]
	programs            *table[model.Program]
	groups              *table[model.ResearchGroup]
	publicationTypes    *table[model.PublicationType]
	keywords            *table[model.Keyword]
	userTypes           *table[model.UserType]
	users               *table[model.User]
	userTypeLinks       *table[model.UserUserType]
	publications        *table[model.Publication]
	publicationKeywords *table[model.PublicationKeyword]
}

func newDataset() *dataset {
	d := &dataset{
		faculties:           newTable(func(f *model.Faculty) *uint { return &f.ID }),
		programs:            newTable(func(p *model.Program) *uint { return &p.ID }),
		groups:              newTable(func(g *model.ResearchGroup) *uint { return &g.ID }),
		publicationTypes:    newTable(func(t *model.PublicationType) *uint { return &t.ID }),
		keywords:            newTable(func(k *model.Keyword) *uint { return &k.ID }),
		userTypes:           newTable(func(t *model.UserType) *uint { return &t.ID }),
		users:               newTable(func(u *model.User) *uint { return &u.ID }),
		userTypeLinks:       newTable(func(l *model.UserUserType) *uint { return &l.ID }),
		publications:        newTable(func(p *model.Publication) *uint { return &p.ID }),
		publicationKeywords: newTable(func(l *model.PublicationKeyword) *uint { return &l.ID }),
	}

	d.programs.check = func(d *dataset, p *model.Program) error {
		return requireRow(d.faculties.has(p.FacultyID), "facultad_id", p.FacultyID)
	}
	d.users.check = func(d *dataset, u *model.User) error {
		for id, other := range d.users.rows {
			if id != u.ID && other.Email == u.Email {
				return fmt.Errorf("%w: email %q", repository.ErrDuplicate, u.Email)
			}
		}
		if u.ProgramID != nil {
			return requireRow(d.programs.has(*u.ProgramID), "program_id", *u.ProgramID)
		}
		return nil
	}
	d.userTypeLinks.check = func(d *dataset, l *model.UserUserType) error {
		if err := requireRow(d.users.has(l.UserID), "usuario_id", l.UserID); err != nil {
			return err
		}
		if err := requireRow(d.userTypes.has(l.UserTypeID), "tipo_usuario_id", l.UserTypeID); err != nil {
			return err
		}
		for id, other := range d.userTypeLinks.rows {
			if id != l.ID && other.UserID == l.UserID && other.UserTypeID == l.UserTypeID {
				return fmt.Errorf("%w: usuario %d tipo_usuario %d", repository.ErrDuplicate, l.UserID, l.UserTypeID)
			}
		}
		return nil
	}
	d.publications.check = func(d *dataset, p *model.Publication) error {
		if err := requireRow(d.groups.has(p.ResearchGroupID), "grupo_investigacion_id", p.ResearchGroupID); err != nil {
			return err
		}
		if err := requireRow(d.users.has(p.UserID), "usuario_id", p.UserID); err != nil {
			return err
		}
		if p.PublicationTypeID != nil {
			return requireRow(d.publicationTypes.has(*p.PublicationTypeID), "tipo_publicacion_id", *p.PublicationTypeID)
		}
		return nil
	}
	d.publicationKeywords.check = func(d *dataset, l *model.PublicationKeyword) error {
		if err := requireRow(d.publications.has(l.PublicationID), "publicacion_id", l.PublicationID); err != nil {
			return err
		}
		if err := requireRow(d.keywords.has(l.KeywordID), "palabra_clave_id", l.KeywordID); err != nil {
			return err
		}
		for id, other := range d.publicationKeywords.rows {
			if id != l.ID && other.PublicationID == l.PublicationID && other.KeywordID == l.KeywordID {
				return fmt.Errorf("%w: publicacion %d palabra_clave %d", repository.ErrDuplicate, l.PublicationID, l.KeywordID)
			}
		}
		return nil
	}
	return d
}

func requireRow(ok bool, column string, id uint) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%w: %s=%d", repository.ErrForeignKey, column, id)
}

func (d *dataset) clone() *dataset {
	return &dataset{
		faculties:           d.faculties.clone(),
		programs:            d.programs.clone(),
		groups:              d.groups.clone(),
		publicationTypes:    d.publicationTypes.clone(),
		keywords:            d.keywords.clone(),
		userTypes:           d.userTypes.clone(),
		users:               d.users.clone(),
		userTypeLinks:       d.userTypeLinks.clone(),
		publications:        d.publications.clone(),
		publicationKeywords: d.publicationKeywords.clone(),
	}
}

type memRepository[T any] struct {
	st    *state
	table func(d *dataset) *table[T]
}

func (r *memRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	row, ok := r.table(r.st.data).rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (r *memRepository[T]) ListAll(ctx context.Context) ([]T, error) {
	return r.listWhere(nil), nil
}

func (r *memRepository[T]) Save(ctx context.Context, entity *T) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if r.st.failSave != nil {
		if err := r.st.failSave(entity); err != nil {
			return err
		}
	}

	t := r.table(r.st.data)
	id := t.key(entity)
	if *id != 0 && !t.has(*id) {
		return repository.ErrNotFound
	}
	if t.check != nil {
		if err := t.check(r.st.data, entity); err != nil {
			return err
		}
	}

	if *id == 0 {
		t.nextID++
		*id = t.nextID
	}
	stampTimes(entity)
	t.rows[*id] = *entity
	return nil
}

func (r *memRepository[T]) Delete(ctx context.Context, id uint) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	t := r.table(r.st.data)
	if !t.has(id) {
		return repository.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (r *memRepository[T]) listWhere(keep func(*T) bool) []T {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.table(r.st.data).sorted(keep)
}

// stampTimes fills CreatedAt/UpdatedAt the way GORM's autoCreateTime does
func stampTimes(entity interface{}) {
	now := time.Now()
	switch e := entity.(type) {
	case *model.Faculty:
		e.CreatedAt, e.UpdatedAt = firstTime(e.CreatedAt, now), now
	case *model.Program:
		e.CreatedAt, e.UpdatedAt = firstTime(e.CreatedAt, now), now
	case *model.ResearchGroup:
		e.CreatedAt, e.UpdatedAt = firstTime(e.CreatedAt, now), now
	case *model.PublicationType:
		e.CreatedAt, e.UpdatedAt = firstTime(e.CreatedAt, now), now
	case *model.Keyword:
		e.CreatedAt, e.UpdatedAt = firstTime(e.CreatedAt, now), now
	case *model.UserType:
		e.CreatedAt, e.UpdatedAt = firstTime(e.CreatedAt, now), now
	case *model.User:
		e.CreatedAt, e.UpdatedAt = firstTime(e.CreatedAt, now), now
	case *model.Publication:
		e.CreatedAt, e.UpdatedAt = firstTime(e.CreatedAt, now), now
	}
}

func firstTime(existing, now time.Time) time.Time {
	if existing.IsZero() {
		return now
	}
	return existing
}

type programRepository struct {
	memRepository[model.Program]
}

func (r *programRepository) ListByFaculty(ctx context.Context, facultyID uint) ([]model.Program, error) {
	return r.listWhere(func(p *model.Program) bool { return p.FacultyID == facultyID }), nil
}

type userRepository struct {
	memRepository[model.User]
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	users := r.listWhere(func(u *model.User) bool { return u.Email == email })
	if len(users) == 0 {
		return nil, repository.ErrNotFound
	}
	return &users[0], nil
}

func (r *userRepository) ListByProgram(ctx context.Context, programID uint) ([]model.User, error) {
	return r.listWhere(func(u *model.User) bool { return u.ProgramID != nil && *u.ProgramID == programID }), nil
}

type userTypeLinkRepository struct {
	memRepository[model.UserUserType]
}

func (r *userTypeLinkRepository) ListByUser(ctx context.Context, userID uint) ([]model.UserUserType, error) {
	return r.listWhere(func(l *model.UserUserType) bool { return l.UserID == userID }), nil
}

func (r *userTypeLinkRepository) ListByUserType(ctx context.Context, userTypeID uint) ([]model.UserUserType, error) {
	return r.listWhere(func(l *model.UserUserType) bool { return l.UserTypeID == userTypeID }), nil
}

type publicationRepository struct {
	memRepository[model.Publication]
}

func (r *publicationRepository) ListByUser(ctx context.Context, userID uint) ([]model.Publication, error) {
	return r.listWhere(func(p *model.Publication) bool { return p.UserID == userID }), nil
}

func (r *publicationRepository) ListByResearchGroup(ctx context.Context, groupID uint) ([]model.Publication, error) {
	return r.listWhere(func(p *model.Publication) bool { return p.ResearchGroupID == groupID }), nil
}

func (r *publicationRepository) ListByPublicationType(ctx context.Context, typeID uint) ([]model.Publication, error) {
	return r.listWhere(func(p *model.Publication) bool {
		return p.PublicationTypeID != nil && *p.PublicationTypeID == typeID
	}), nil
}

type publicationKeywordRepository struct {
	memRepository[model.PublicationKeyword]
}

func (r *publicationKeywordRepository) ListByPublication(ctx context.Context, publicationID uint) ([]model.PublicationKeyword, error) {
	return r.listWhere(func(l *model.PublicationKeyword) bool { return l.PublicationID == publicationID }), nil
}

func (r *publicationKeywordRepository) ListByKeyword(ctx context.Context, keywordID uint) ([]model.PublicationKeyword, error) {
	return r.listWhere(func(l *model.PublicationKeyword) bool { return l.KeywordID == keywordID }), nil
}

var _ repository.Store = (*Store)(nil)
