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

func newTimeslotMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimeslotRepositoryListByClassroom(t *testing.T) {
	db, mock, cleanup := newTimeslotMock(t)
	defer cleanup()
	repo := NewTimeslotRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "classroom_id", "label", "duration_minutes", "sort_order", "created_at", "updated_at"}).
		AddRow("slot-1", "class-a", "07:00 - 08:00", 60, 1, now, now).
		AddRow("slot-2", "class-a", "08:00 - 09:00", 60, 2, now, now)
	mock.ExpectQuery("SELECT .* FROM timeslots WHERE classroom_id = \\$1 ORDER BY sort_order ASC").
		WithArgs("class-a").
		WillReturnRows(rows)

	slots, err := repo.ListByClassroom(context.Background(), "class-a")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 1, slots[0].SortOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeslotRepositoryBulkCreate(t *testing.T) {
	db, mock, cleanup := newTimeslotMock(t)
	defer cleanup()
	repo := NewTimeslotRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO timeslots").
		WithArgs(sqlmock.AnyArg(), "class-a", "07:00 - 08:00", 60, 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO timeslots").
		WithArgs(sqlmock.AnyArg(), "class-a", "08:00 - 09:00", 60, 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	slots := []models.Timeslot{
		{ClassroomID: "class-a", Label: "07:00 - 08:00", DurationMinutes: 60, SortOrder: 1},
		{ClassroomID: "class-a", Label: "08:00 - 09:00", DurationMinutes: 60, SortOrder: 2},
	}
	require.NoError(t, repo.BulkCreate(context.Background(), slots))

	// IDs are assigned back to the caller's slice.
	assert.NotEmpty(t, slots[0].ID)
	assert.NotEmpty(t, slots[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeslotRepositoryBulkCreateRollsBack(t *testing.T) {
	db, mock, cleanup := newTimeslotMock(t)
	defer cleanup()
	repo := NewTimeslotRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO timeslots").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.BulkCreate(context.Background(), []models.Timeslot{
		{ClassroomID: "class-a", Label: "07:00 - 08:00", DurationMinutes: 60, SortOrder: 1},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeslotRepositoryCountByClassroom(t *testing.T) {
	db, mock, cleanup := newTimeslotMock(t)
	defer cleanup()
	repo := NewTimeslotRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM timeslots WHERE classroom_id = \\$1").
		WithArgs("class-a").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	total, err := repo.CountByClassroom(context.Background(), "class-a")
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
