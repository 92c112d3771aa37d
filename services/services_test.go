package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/pandiu-api/model"
	"github.com/sahilchouksey/pandiu-api/projection"
	"github.com/sahilchouksey/pandiu-api/repository"
	"github.com/sahilchouksey/pandiu-api/repository/memstore"
	"github.com/sahilchouksey/pandiu-api/utils/pdfvalidation"
	"github.com/sahilchouksey/pandiu-api/utils/validation"
)

func newTestServices(t *testing.T) (*Services, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	return New(store, nil, pdfvalidation.PDFLimits{}), store
}

func body(t *testing.T, format string, args ...interface{}) validation.Payload {
	t.Helper()
	p, err := validation.ParsePayload([]byte(fmt.Sprintf(format, args...)))
	require.NoError(t, err)
	return p
}

func fieldErrors(t *testing.T, err error) validation.FieldErrors {
	t.Helper()
	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)
	return errs
}

// fixture creates a faculty, program, research group, publication type, two
// user types and two keywords
type fixture struct {
	faculty   *projection.FacultyDocument
	program   *projection.ProgramDocument
	group     *projection.ResearchGroupDocument
	ptype     *projection.PublicationTypeDocument
	userTypes []*projection.UserTypeDocument
	keywords  []*projection.KeywordDocument
}

func seed(t *testing.T, svc *Services) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture
	var err error

	f.faculty, err = svc.Faculties.Create(ctx, body(t, `{"nombre_facultad": "Ingenieria"}`))
	require.NoError(t, err)
	f.program, err = svc.Programs.Create(ctx, body(t, `{"program_name": "Sistemas", "facultad": %d}`, f.faculty.ID))
	require.NoError(t, err)
	f.group, err = svc.ResearchGroups.Create(ctx, body(t, `{"nombre_grupo": "IA", "descripcion": "Inteligencia artificial"}`))
	require.NoError(t, err)
	f.ptype, err = svc.PublicationTypes.Create(ctx, body(t, `{"nombre_tipo": "Articulo", "descripcion": "Revista indexada"}`))
	require.NoError(t, err)

	for _, name := range []string{"Docente", "Investigador"} {
		ut, err := svc.UserTypes.Create(ctx, body(t, `{"name": %q}`, name))
		require.NoError(t, err)
		f.userTypes = append(f.userTypes, ut)
	}
	for _, word := range []string{"ml", "vision"} {
		kw, err := svc.Keywords.Create(ctx, body(t, `{"palabra": %q}`, word))
		require.NoError(t, err)
		f.keywords = append(f.keywords, kw)
	}
	return f
}

func createUser(t *testing.T, svc *Services, f fixture, email string) *projection.UserDocument {
	t.Helper()
	user, err := svc.Users.Create(context.Background(), body(t, `{
		"name": "Ana", "lastName": "Ruiz", "email": %q,
		"program": %d, "tipos_usuario": [%d, %d]
	}`, email, f.program.ID, f.userTypes[0].ID, f.userTypes[1].ID))
	require.NoError(t, err)
	return user
}

func createPublication(t *testing.T, svc *Services, f fixture, userID uint) *projection.PublicationDocument {
	t.Helper()
	pub, err := svc.Publications.Create(context.Background(), body(t, `{
		"titulo": "Redes neuronales", "resumen": "Resumen", "fecha_publicacion": "2023-04-17",
		"grupo_investigacion": %d, "usuario": %d, "tipos_publicacion": %d,
		"palabras_clave": [%d, %d]
	}`, f.group.ID, userID, f.ptype.ID, f.keywords[0].ID, f.keywords[1].ID))
	require.NoError(t, err)
	return pub
}

func TestProgramListedUnderFaculty(t *testing.T) {
	svc, _ := newTestServices(t)
	f := seed(t, svc)

	programs, err := svc.Programs.ListByFaculty(context.Background(), f.faculty.ID)
	require.NoError(t, err)

	require.Len(t, programs, 1)
	assert.Equal(t, "Sistemas", programs[0].Name)
	require.NotNil(t, programs[0].Faculty)
	assert.Equal(t, "Ingenieria", programs[0].Faculty.Name)
}

func TestListByUnknownFaculty(t *testing.T) {
	svc, _ := newTestServices(t)

	_, err := svc.Programs.ListByFaculty(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestScalarRoundTrip(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	f := seed(t, svc)

	faculty, err := svc.Faculties.Get(ctx, f.faculty.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ingenieria", faculty.Name)

	group, err := svc.ResearchGroups.Get(ctx, f.group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Inteligencia artificial", group.Description)

	ptype, err := svc.PublicationTypes.Get(ctx, f.ptype.ID)
	require.NoError(t, err)
	assert.Equal(t, projection.PublicationTypeDocument{ID: f.ptype.ID, Name: "Articulo", Description: "Revista indexada"}, *ptype)

	user := createUser(t, svc, f, "ana@example.com")
	got, err := svc.Users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, "Ruiz", got.LastName)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, f.program.ID, *got.ProgramID)

	pub := createPublication(t, svc, f, user.ID)
	gotPub, err := svc.Publications.Get(ctx, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Redes neuronales", gotPub.Title)
	assert.Equal(t, "Resumen", gotPub.Summary)
	assert.Equal(t, "2023-04-17", gotPub.PublishedOn)
	assert.Equal(t, f.group.ID, gotPub.ResearchGroupID)
	assert.Equal(t, user.ID, gotPub.UserID)
	require.NotNil(t, gotPub.User)
	assert.Equal(t, "ana@example.com", gotPub.User.Email)
}

func TestDeleteFacultyCascades(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	f := seed(t, svc)
	user := createUser(t, svc, f, "ana@example.com")
	pub := createPublication(t, svc, f, user.ID)

	require.NoError(t, svc.Faculties.Delete(ctx, f.faculty.ID))

	_, err := svc.Programs.Get(ctx, f.program.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.Users.Get(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.Publications.Get(ctx, pub.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	links, err := svc.UserTypeLinks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)

	// reference data survives
	_, err = svc.Keywords.Get(ctx, f.keywords[0].ID)
	assert.NoError(t, err)
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	svc, _ := newTestServices(t)

	assert.ErrorIs(t, svc.Faculties.Delete(context.Background(), 7), repository.ErrNotFound)
	assert.ErrorIs(t, svc.Publications.Delete(context.Background(), 7), repository.ErrNotFound)
}

func TestUserTypesOnCreate(t *testing.T) {
	svc, _ := newTestServices(t)
	f := seed(t, svc)

	user := createUser(t, svc, f, "ana@example.com")
	got, err := svc.Users.Get(context.Background(), user.ID)
	require.NoError(t, err)

	assert.ElementsMatch(t, []projection.UserTypeDocument{
		{ID: f.userTypes[0].ID, Name: "Docente"},
		{ID: f.userTypes[1].ID, Name: "Investigador"},
	}, got.UserTypes)
}

func TestDeleteKeywordUnlinksPublication(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	f := seed(t, svc)
	user := createUser(t, svc, f, "ana@example.com")
	pub := createPublication(t, svc, f, user.ID)

	require.NoError(t, svc.Keywords.Delete(ctx, f.keywords[0].ID))

	got, err := svc.Publications.Get(ctx, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.keywords[1].ID}, got.KeywordIDs)
	assert.Equal(t, []projection.KeywordDocument{{ID: f.keywords[1].ID, Word: "vision"}}, got.Keywords)
}

func TestUserWithoutProgram(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	user, err := svc.Users.Create(ctx, body(t, `{"name": "Luis", "lastName": "Paz", "email": "luis@example.com", "tipos_usuario": []}`))
	require.NoError(t, err)

	got, err := svc.Users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProgramID)
	assert.Nil(t, got.Program)
	assert.Empty(t, got.UserTypes)
}

func TestPatchUserEmailOnly(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	f := seed(t, svc)
	user := createUser(t, svc, f, "ana@example.com")

	updated, err := svc.Users.Update(ctx, user.ID, body(t, `{"email": "new@x.com"}`), true)
	require.NoError(t, err)

	assert.Equal(t, "new@x.com", updated.Email)
	assert.Equal(t, "Ana", updated.FirstName)
	assert.Equal(t, "Ruiz", updated.LastName)
	require.NotNil(t, updated.ProgramID)
	assert.Equal(t, f.program.ID, *updated.ProgramID)
	assert.Len(t, updated.UserTypes, 2)
}

func TestPutUserReplacesTypes(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	f := seed(t, svc)
	user := createUser(t, svc, f, "ana@example.com")

	updated, err := svc.Users.Update(ctx, user.ID, body(t, `{
		"name": "Ana", "lastName": "Ruiz", "email": "ana@example.com",
		"tipos_usuario": [%d, %d]
	}`, f.userTypes[1].ID, f.userTypes[1].ID), false)
	require.NoError(t, err)

	assert.Equal(t, []projection.UserTypeDocument{{ID: f.userTypes[1].ID, Name: "Investigador"}}, updated.UserTypes)
	require.NotNil(t, updated.ProgramID, "omitted optional program keeps its value")

	links, err := svc.UserTypeLinks.List(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestPublicationMissingTitle(t *testing.T) {
	svc, _ := newTestServices(t)
	f := seed(t, svc)
	user := createUser(t, svc, f, "ana@example.com")

	_, err := svc.Publications.Create(context.Background(), body(t, `{
		"resumen": "Resumen", "fecha_publicacion": "2023-04-17",
		"grupo_investigacion": %d, "usuario": %d, "palabras_clave": []
	}`, f.group.ID, user.ID))

	errs := fieldErrors(t, err)
	assert.Equal(t, []string{validation.MsgRequired}, errs["titulo"])
	assert.Len(t, errs, 1)
}

func TestValidationAggregatesReferenceErrors(t *testing.T) {
	svc, _ := newTestServices(t)

	_, err := svc.Publications.Create(context.Background(), body(t, `{
		"titulo": "", "resumen": "R", "fecha_publicacion": "2023-02-30",
		"grupo_investigacion": 40, "usuario": 41, "tipos_publicacion": 42, "palabras_clave": [43]
	}`))

	errs := fieldErrors(t, err)
	assert.Equal(t, []string{validation.MsgBlank}, errs["titulo"])
	assert.Equal(t, []string{validation.MsgInvalidDate}, errs["fecha_publicacion"])
	assert.Equal(t, []string{`Invalid pk "40" - object does not exist.`}, errs["grupo_investigacion"])
	assert.Equal(t, []string{`Invalid pk "41" - object does not exist.`}, errs["usuario"])
	assert.Equal(t, []string{`Invalid pk "42" - object does not exist.`}, errs["tipos_publicacion"])
	assert.Equal(t, []string{`Invalid pk "43" - object does not exist.`}, errs["palabras_clave"])

	pubs, err := svc.Publications.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pubs)
}

func TestDuplicateEmail(t *testing.T) {
	svc, _ := newTestServices(t)
	f := seed(t, svc)
	createUser(t, svc, f, "ana@example.com")

	_, err := svc.Users.Create(context.Background(), body(t, `{"name": "B", "lastName": "C", "email": "ana@example.com", "tipos_usuario": []}`))

	errs := fieldErrors(t, err)
	assert.Equal(t, []string{"usuario with this email already exists."}, errs["email"])
}

func TestDuplicateUserTypeLink(t *testing.T) {
	svc, _ := newTestServices(t)
	f := seed(t, svc)
	user := createUser(t, svc, f, "ana@example.com")

	_, err := svc.UserTypeLinks.Create(context.Background(), body(t, `{"usuario": %d, "tipo_usuario": %d}`, user.ID, f.userTypes[0].ID))

	errs := fieldErrors(t, err)
	assert.Contains(t, errs, validation.NonFieldErrors)
}

func TestFailedLinkRollsBackUser(t *testing.T) {
	svc, store := newTestServices(t)
	ctx := context.Background()
	f := seed(t, svc)

	boom := errors.New("link insert failed")
	store.FailSaveWith(func(entity interface{}) error {
		if _, ok := entity.(*model.UserUserType); ok {
			return boom
		}
		return nil
	})

	_, err := svc.Users.Create(ctx, body(t, `{
		"name": "Ana", "lastName": "Ruiz", "email": "ana@example.com", "tipos_usuario": [%d]
	}`, f.userTypes[0].ID))
	require.ErrorIs(t, err, boom)

	users, err := svc.Users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestFailedKeywordLinkRollsBackPublicationUpdate(t *testing.T) {
	svc, store := newTestServices(t)
	ctx := context.Background()
	f := seed(t, svc)
	user := createUser(t, svc, f, "ana@example.com")
	pub, err := svc.Publications.Create(ctx, body(t, `{
		"titulo": "Antes", "resumen": "R", "fecha_publicacion": "2023-04-17",
		"grupo_investigacion": %d, "usuario": %d, "palabras_clave": [%d]
	}`, f.group.ID, user.ID, f.keywords[0].ID))
	require.NoError(t, err)

	boom := errors.New("link insert failed")
	store.FailSaveWith(func(entity interface{}) error {
		if _, ok := entity.(*model.PublicationKeyword); ok {
			return boom
		}
		return nil
	})

	_, err = svc.Publications.Update(ctx, pub.ID, body(t, `{
		"titulo": "Despues", "resumen": "R", "fecha_publicacion": "2023-04-17",
		"grupo_investigacion": %d, "usuario": %d, "palabras_clave": [%d]
	}`, f.group.ID, user.ID, f.keywords[1].ID), false)
	require.ErrorIs(t, err, boom)

	store.FailSaveWith(nil)
	got, err := svc.Publications.Get(ctx, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Antes", got.Title)
	assert.Equal(t, []uint{f.keywords[0].ID}, got.KeywordIDs)
}

func TestDeleteUserTypeUnlinksUsers(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	f := seed(t, svc)
	user := createUser(t, svc, f, "ana@example.com")

	require.NoError(t, svc.UserTypes.Delete(ctx, f.userTypes[0].ID))

	got, err := svc.Users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []projection.UserTypeDocument{{ID: f.userTypes[1].ID, Name: "Investigador"}}, got.UserTypes)
}

func TestDeletePublicationTypeDeletesPublications(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	f := seed(t, svc)
	user := createUser(t, svc, f, "ana@example.com")
	pub := createPublication(t, svc, f, user.ID)

	require.NoError(t, svc.PublicationTypes.Delete(ctx, f.ptype.ID))

	_, err := svc.Publications.Get(ctx, pub.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.Users.Get(ctx, user.ID)
	assert.NoError(t, err)
}
