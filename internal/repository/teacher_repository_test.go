package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sala-api/internal/models"
)

func newTeacherMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func teacherRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "code", "name", "gender", "dob", "subject", "profession1", "profession2", "krobkan", "rank", "phone", "created_at", "updated_at"}).
		AddRow("teacher-1", "T001", "Sok Dara", "MALE", nil, "Math", nil, nil, nil, nil, "012345678", now, now)
}

func TestTeacherRepositoryListWithSearch(t *testing.T) {
	db, mock, cleanup := newTeacherMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery("SELECT id, code, name, .* FROM teachers WHERE 1=1 AND \\(LOWER\\(name\\) LIKE \\$1 OR LOWER\\(code\\) LIKE \\$1\\) ORDER BY created_at DESC LIMIT 20 OFFSET 0").
		WithArgs("%dara%").
		WillReturnRows(teacherRows())
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM teachers WHERE 1=1").
		WithArgs("%dara%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	teachers, total, err := repo.List(context.Background(), models.TeacherFilter{Search: "Dara"})
	require.NoError(t, err)
	assert.Len(t, teachers, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositorySearch(t *testing.T) {
	db, mock, cleanup := newTeacherMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery("SELECT id, name, code FROM teachers WHERE LOWER\\(name\\) LIKE \\$1 OR LOWER\\(code\\) LIKE \\$1 ORDER BY code ASC LIMIT 5").
		WithArgs("%t0%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code"}).
			AddRow("teacher-1", "Sok Dara", "T001").
			AddRow("teacher-2", "Chan Lina", "T002"))

	teachers, err := repo.Search(context.Background(), "T0", 5)
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	assert.Equal(t, "T001", teachers[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFirstN(t *testing.T) {
	db, mock, cleanup := newTeacherMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery("SELECT id, name, code FROM teachers ORDER BY code ASC LIMIT 20").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code"}).AddRow("teacher-1", "Sok Dara", "T001"))

	teachers, err := repo.FirstN(context.Background(), 20)
	require.NoError(t, err)
	assert.Len(t, teachers, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryExistsByCode(t *testing.T) {
	db, mock, cleanup := newTeacherMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery("SELECT 1 FROM teachers WHERE LOWER\\(code\\) = LOWER\\(\\$1\\) LIMIT 1").
		WithArgs("T001").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), "T001", "")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT 1 FROM teachers WHERE LOWER\\(code\\) = LOWER\\(\\$1\\) AND id <> \\$2 LIMIT 1").
		WithArgs("T001", "teacher-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.ExistsByCode(context.Background(), "T001", "teacher-1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newTeacherMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec("INSERT INTO teachers").
		WithArgs(sqlmock.AnyArg(), "T003", "New Teacher", "FEMALE", nil, nil, nil, nil, nil, nil, "098765432", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	gender := "FEMALE"
	teacher := &models.Teacher{Code: "T003", Name: "New Teacher", Gender: &gender, Phone: "098765432"}
	require.NoError(t, repo.Create(context.Background(), teacher))
	assert.NotEmpty(t, teacher.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
