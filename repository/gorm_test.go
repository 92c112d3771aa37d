package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sahilchouksey/pandiu-api/model"
)

func setupTestDB(t *testing.T) (*GORMStore, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return NewGORMStore(gormDB), mock
}

func TestTransactionRollsBackUserWhenLinkInsertFails(t *testing.T) {
	store, mock := setupTestDB(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "usuarios"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "usuarios_tipos_usuario"`).
		WillReturnError(&pq.Error{Code: pq.ErrorCode(pgerrcode.ForeignKeyViolation), Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	err := store.Transaction(ctx, func(tx Store) error {
		user := &model.User{FirstName: "Ana", LastName: "Gómez", Email: "ana@example.com"}
		if err := tx.Users().Save(ctx, user); err != nil {
			return err
		}
		assert.Equal(t, uint(7), user.ID)
		return tx.UserTypeLinks().Save(ctx, &model.UserUserType{UserID: user.ID, UserTypeID: 99})
	})

	assert.ErrorIs(t, err, ErrForeignKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionCommits(t *testing.T) {
	store, mock := setupTestDB(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "facultades"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := store.Transaction(ctx, func(tx Store) error {
		return tx.Faculties().Save(ctx, &model.Faculty{Name: "Ingeniería"})
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDMissingRow(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "facultades"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre_facultad"}))

	_, err := store.Faculties().FindByID(context.Background(), 42)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingRow(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "palabras_clave"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := store.Keywords().Delete(context.Background(), 5)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByFacultyFilters(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "programas" WHERE facultad_id = \$1 ORDER BY id ASC`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "program_name", "facultad_id"}).
			AddRow(1, "Sistemas", 3).
			AddRow(2, "Electrónica", 3))

	programs, err := store.Programs().ListByFaculty(context.Background(), 3)

	require.NoError(t, err)
	assert.Len(t, programs, 2)
	assert.Equal(t, "Electrónica", programs[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, ErrDuplicate},
		{"pq unique", &pq.Error{Code: pq.ErrorCode(pgerrcode.UniqueViolation)}, ErrDuplicate},
		{"pgx unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, ErrDuplicate},
		{"pgx foreign key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, ErrForeignKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tt.err), tt.want)
		})
	}

	other := errors.New("connection reset")
	assert.Same(t, other, translateError(other))
	assert.NoError(t, translateError(nil))
}
