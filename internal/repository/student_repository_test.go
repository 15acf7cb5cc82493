package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillouts/beheer-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "klas", "status", "created_at", "updated_at"}).
		AddRow("s1", "Anna", "1A", "actief", time.Now(), time.Now())
}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, klas, status, created_at, updated_at FROM students WHERE 1=1 ORDER BY klas, name LIMIT 50 OFFSET 0")).
		WillReturnRows(studentRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	status := models.StudentActief
	mock.ExpectQuery("SELECT id, name, klas, status, created_at, updated_at FROM students WHERE 1=1 AND klas = \\$1 AND status = \\$2 AND LOWER\\(name\\) LIKE \\$3").
		WithArgs("1A", status, "%an%").
		WillReturnRows(studentRows())
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("1A", status, "%an%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, _, err := repo.List(context.Background(), models.StudentFilter{Klas: "1A", Status: &status, Search: "An"})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{Name: "Anna", Klas: "1A", Status: models.StudentActief}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("DELETE FROM students WHERE id = \\$1").
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListKlassen(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"klas", "student_count"}).
		AddRow("1A", 12).
		AddRow("2B", 9)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT klas, COUNT(*) AS student_count FROM students WHERE klas <> '' GROUP BY klas ORDER BY klas")).
		WillReturnRows(rows)

	klassen, err := repo.ListKlassen(context.Background())
	require.NoError(t, err)
	require.Len(t, klassen, 2)
	assert.Equal(t, "1A", klassen[0].Name)
	assert.Equal(t, 12, klassen[0].StudentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryKlasExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE LOWER(klas) = LOWER($1) LIMIT 1")).
		WithArgs("1a").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.KlasExists(context.Background(), "1a", "")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE LOWER(klas) = LOWER($1) LIMIT 1")).
		WithArgs("3C").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.KlasExists(context.Background(), "3C", "")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryRenameKlas(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET klas = \\$2, updated_at = \\$3 WHERE klas = \\$1").
		WithArgs("1A", "1B", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 12))

	moved, err := repo.RenameKlas(context.Background(), "1A", "1B")
	require.NoError(t, err)
	assert.Equal(t, int64(12), moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}
