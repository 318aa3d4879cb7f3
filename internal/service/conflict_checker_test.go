package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sala-api/internal/models"
)

type fixedBookings struct {
	bookings []models.AssignmentDetail
	err      error
}

func (f *fixedBookings) FindTeacherBookings(ctx context.Context, yearID, teacherID string, day models.Day, sortOrder int) ([]models.AssignmentDetail, error) {
	return f.bookings, f.err
}

func booking(classroomID, timeslotID string) models.AssignmentDetail {
	return models.AssignmentDetail{
		Assignment: models.Assignment{
			YearID:      "year-1",
			ClassroomID: classroomID,
			TimeslotID:  timeslotID,
			Day:         models.DayMonday,
		},
	}
}

func TestConflictCheckerReportsFirstBooking(t *testing.T) {
	// Bookings arrive ordered by classroom id; the first is reported.
	checker := NewConflictChecker(&fixedBookings{bookings: []models.AssignmentDetail{
		booking("class-a", "slot-a1"),
		booking("class-c", "slot-c1"),
	}})

	conflict, err := checker.Check(context.Background(), "year-1", "teacher-1", models.DayMonday, 1, "class-b", "slot-b1")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "class-a", conflict.ConflictingClassroomID)
	assert.Equal(t, "slot-a1", conflict.ConflictingTimeslotID)
	assert.Equal(t, "teacher-1", conflict.TeacherID)
	assert.Equal(t, models.DayMonday, conflict.Day)
}

func TestConflictCheckerSkipsTargetCell(t *testing.T) {
	checker := NewConflictChecker(&fixedBookings{bookings: []models.AssignmentDetail{
		booking("class-b", "slot-b1"),
	}})

	// The only booking is the cell being overwritten, so no conflict.
	conflict, err := checker.Check(context.Background(), "year-1", "teacher-1", models.DayMonday, 1, "class-b", "slot-b1")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestConflictCheckerSkipsTargetButReportsOthers(t *testing.T) {
	checker := NewConflictChecker(&fixedBookings{bookings: []models.AssignmentDetail{
		booking("class-a", "slot-a1"),
		booking("class-b", "slot-b1"),
	}})

	conflict, err := checker.Check(context.Background(), "year-1", "teacher-1", models.DayMonday, 1, "class-a", "slot-a1")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "class-b", conflict.ConflictingClassroomID)
}

func TestConflictCheckerNoBookings(t *testing.T) {
	checker := NewConflictChecker(&fixedBookings{})

	conflict, err := checker.Check(context.Background(), "year-1", "teacher-1", models.DayMonday, 1, "class-a", "slot-a1")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestConflictCheckerStoreError(t *testing.T) {
	checker := NewConflictChecker(&fixedBookings{err: errors.New("connection reset")})

	_, err := checker.Check(context.Background(), "year-1", "teacher-1", models.DayMonday, 1, "class-a", "slot-a1")
	require.Error(t, err)
}
