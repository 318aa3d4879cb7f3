package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sala-api/internal/models"
	appErrors "github.com/noah-isme/sala-api/pkg/errors"
)

type stubCellStore struct {
	cells   map[string]*string
	details map[string]models.AssignmentDetail
	setErr  error
}

func cellKey(classroomID, timeslotID string, day models.Day) string {
	return fmt.Sprintf("%s|%s|%s", classroomID, timeslotID, day)
}

func (s *stubCellStore) GetCell(ctx context.Context, classroomID, timeslotID string, day models.Day) (*string, error) {
	return s.cells[cellKey(classroomID, timeslotID, day)], nil
}

func (s *stubCellStore) SetCell(ctx context.Context, yearID, classroomID, timeslotID string, day models.Day, teacherID *string) (*string, error) {
	if s.setErr != nil {
		return nil, s.setErr
	}
	key := cellKey(classroomID, timeslotID, day)
	previous := s.cells[key]
	if s.cells == nil {
		s.cells = map[string]*string{}
	}
	s.cells[key] = teacherID
	if s.details == nil {
		s.details = map[string]models.AssignmentDetail{}
	}
	s.details[key] = models.AssignmentDetail{
		Assignment: models.Assignment{
			YearID:      yearID,
			ClassroomID: classroomID,
			TimeslotID:  timeslotID,
			Day:         day,
			TeacherID:   teacherID,
		},
	}
	return previous, nil
}

// FindTeacherBookings walks the stub's cells so the real ConflictChecker can
// run against it. Sort order is taken from the slots map.
type stubBookings struct {
	store *stubCellStore
	slots map[string]*models.Timeslot
}

func (b *stubBookings) FindTeacherBookings(ctx context.Context, yearID, teacherID string, day models.Day, sortOrder int) ([]models.AssignmentDetail, error) {
	var out []models.AssignmentDetail
	for key, occupant := range b.store.cells {
		if occupant == nil || *occupant != teacherID {
			continue
		}
		detail := b.store.details[key]
		if detail.YearID != yearID || detail.Day != day {
			continue
		}
		slot := b.slots[detail.TimeslotID]
		if slot == nil || slot.SortOrder != sortOrder {
			continue
		}
		detail.SortOrder = slot.SortOrder
		out = append(out, detail)
	}
	// Lowest classroom id first, as the SQL ORDER BY guarantees.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].ClassroomID < out[j-1].ClassroomID; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

type stubYearReader struct {
	years map[string]*models.Year
}

func (r *stubYearReader) FindByID(ctx context.Context, id string) (*models.Year, error) {
	if year, ok := r.years[id]; ok {
		return year, nil
	}
	return nil, sql.ErrNoRows
}

type stubClassroomReader struct {
	classrooms map[string]*models.Classroom
}

func (r *stubClassroomReader) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	if classroom, ok := r.classrooms[id]; ok {
		return classroom, nil
	}
	return nil, sql.ErrNoRows
}

type stubTimeslotReader struct {
	slots map[string]*models.Timeslot
}

func (r *stubTimeslotReader) FindByID(ctx context.Context, id string) (*models.Timeslot, error) {
	if slot, ok := r.slots[id]; ok {
		return slot, nil
	}
	return nil, sql.ErrNoRows
}

type stubTeacherReader struct {
	teachers map[string]*models.Teacher
}

func (r *stubTeacherReader) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := r.teachers[id]; ok {
		return teacher, nil
	}
	return nil, sql.ErrNoRows
}

type stubInvalidator struct {
	invalidated []string
	err         error
}

func (i *stubInvalidator) Invalidate(ctx context.Context, classroomID string) error {
	i.invalidated = append(i.invalidated, classroomID)
	return i.err
}

type assignmentFixture struct {
	service     *AssignmentService
	store       *stubCellStore
	invalidator *stubInvalidator
}

// Two classrooms in one year, each with a first-period slot sharing sort
// order 1, so assignments to either classroom compete for the teacher.
func newAssignmentFixture() *assignmentFixture {
	store := &stubCellStore{cells: map[string]*string{}}
	slots := map[string]*models.Timeslot{
		"slot-a1": {ID: "slot-a1", ClassroomID: "class-a", Label: "07:00 - 08:00", SortOrder: 1},
		"slot-a2": {ID: "slot-a2", ClassroomID: "class-a", Label: "08:00 - 09:00", SortOrder: 2},
		"slot-b1": {ID: "slot-b1", ClassroomID: "class-b", Label: "07:00 - 08:00", SortOrder: 1},
	}
	invalidator := &stubInvalidator{}

	svc := NewAssignmentService(
		store,
		NewConflictChecker(&stubBookings{store: store, slots: slots}),
		&stubYearReader{years: map[string]*models.Year{"year-1": {ID: "year-1", Name: "2026-2027"}}},
		&stubClassroomReader{classrooms: map[string]*models.Classroom{
			"class-a": {ID: "class-a", YearID: "year-1", Name: "7A"},
			"class-b": {ID: "class-b", YearID: "year-1", Name: "7B"},
		}},
		&stubTimeslotReader{slots: slots},
		&stubTeacherReader{teachers: map[string]*models.Teacher{
			"teacher-1": {ID: "teacher-1", Code: "T001", Name: "Sok Dara"},
			"teacher-2": {ID: "teacher-2", Code: "T002", Name: "Chan Lina"},
		}},
		invalidator,
		nil,
		nil,
	)
	return &assignmentFixture{service: svc, store: store, invalidator: invalidator}
}

func strptr(s string) *string { return &s }

func TestAssignTeacherConflictAndRetry(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	// Book the teacher into classroom A, first period Monday.
	result, err := f.service.AssignTeacher(ctx, "year-1", "class-a", AssignTeacherRequest{
		TimeslotID: "slot-a1", Day: "MONDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN",
	})
	require.NoError(t, err)
	assert.Nil(t, result.PreviousTeacherID)
	assert.Equal(t, "teacher-1", *result.TeacherID)

	// Same teacher, same time, classroom B: blocked by the booking in A.
	_, err = f.service.AssignTeacher(ctx, "year-1", "class-b", AssignTeacherRequest{
		TimeslotID: "slot-b1", Day: "MONDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN",
	})
	require.Error(t, err)
	var conflict *models.AssignmentConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "class-a", conflict.Conflict.ConflictingClassroomID)
	assert.Equal(t, "slot-a1", conflict.Conflict.ConflictingTimeslotID)
	assert.Equal(t, models.DayMonday, conflict.Conflict.Day)

	// A different slot family on the same day is fine.
	_, err = f.service.AssignTeacher(ctx, "year-1", "class-a", AssignTeacherRequest{
		TimeslotID: "slot-a2", Day: "MONDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN",
	})
	require.NoError(t, err)

	// Free the first period, then the retry in B succeeds.
	removed, err := f.service.AssignTeacher(ctx, "year-1", "class-a", AssignTeacherRequest{
		TimeslotID: "slot-a1", Day: "MONDAY", Action: "REMOVE",
	})
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", *removed.PreviousTeacherID)
	assert.Nil(t, removed.TeacherID)

	result, err = f.service.AssignTeacher(ctx, "year-1", "class-b", AssignTeacherRequest{
		TimeslotID: "slot-b1", Day: "MONDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN",
	})
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", *result.TeacherID)
}

func TestAssignTeacherIdempotentReassign(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	_, err := f.service.AssignTeacher(ctx, "year-1", "class-a", AssignTeacherRequest{
		TimeslotID: "slot-a1", Day: "TUESDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN",
	})
	require.NoError(t, err)

	// Re-assigning the occupant to their own cell is not a conflict.
	result, err := f.service.AssignTeacher(ctx, "year-1", "class-a", AssignTeacherRequest{
		TimeslotID: "slot-a1", Day: "TUESDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN",
	})
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", *result.PreviousTeacherID)
	assert.Equal(t, "teacher-1", *result.TeacherID)
}

func TestAssignTeacherOverwriteReportsPrevious(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	_, err := f.service.AssignTeacher(ctx, "year-1", "class-a", AssignTeacherRequest{
		TimeslotID: "slot-a1", Day: "WEDNESDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN",
	})
	require.NoError(t, err)

	result, err := f.service.AssignTeacher(ctx, "year-1", "class-a", AssignTeacherRequest{
		TimeslotID: "slot-a1", Day: "WEDNESDAY", TeacherID: strptr("teacher-2"), Action: "ASSIGN",
	})
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", *result.PreviousTeacherID)
	assert.Equal(t, "teacher-2", *result.TeacherID)
}

func TestAssignTeacherRemoveNeverConflicts(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	// REMOVE on an empty cell succeeds and reports no previous occupant.
	result, err := f.service.AssignTeacher(ctx, "year-1", "class-b", AssignTeacherRequest{
		TimeslotID: "slot-b1", Day: "FRIDAY", Action: "REMOVE", TeacherID: strptr("teacher-1"),
	})
	require.NoError(t, err)
	assert.Nil(t, result.TeacherID)
	assert.Nil(t, result.PreviousTeacherID)
}

func TestAssignTeacherValidation(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		req  AssignTeacherRequest
	}{
		{"unknown day", AssignTeacherRequest{TimeslotID: "slot-a1", Day: "FUNDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN"}},
		{"unknown action", AssignTeacherRequest{TimeslotID: "slot-a1", Day: "MONDAY", TeacherID: strptr("teacher-1"), Action: "SWAP"}},
		{"assign without teacher", AssignTeacherRequest{TimeslotID: "slot-a1", Day: "MONDAY", Action: "ASSIGN"}},
		{"payload classroom mismatch", AssignTeacherRequest{ClassroomID: "class-b", TimeslotID: "slot-a1", Day: "MONDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN"}},
		{"missing timeslot", AssignTeacherRequest{Day: "MONDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.AssignTeacher(ctx, "year-1", "class-a", tc.req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestAssignTeacherScopeErrors(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	cases := []struct {
		name      string
		yearID    string
		classroom string
		req       AssignTeacherRequest
	}{
		{"unknown year", "year-9", "class-a", AssignTeacherRequest{TimeslotID: "slot-a1", Day: "MONDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN"}},
		{"unknown classroom", "year-1", "class-z", AssignTeacherRequest{TimeslotID: "slot-a1", Day: "MONDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN"}},
		{"slot from another classroom", "year-1", "class-b", AssignTeacherRequest{TimeslotID: "slot-a1", Day: "MONDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN"}},
		{"unknown teacher", "year-1", "class-a", AssignTeacherRequest{TimeslotID: "slot-a1", Day: "MONDAY", TeacherID: strptr("teacher-9"), Action: "ASSIGN"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.AssignTeacher(ctx, tc.yearID, tc.classroom, tc.req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestAssignTeacherDayAndActionCaseInsensitive(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	result, err := f.service.AssignTeacher(ctx, "year-1", "class-a", AssignTeacherRequest{
		TimeslotID: "slot-a1", Day: "monday", TeacherID: strptr("teacher-1"), Action: "assign",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DayMonday, result.Day)
}

func TestAssignTeacherInvalidatesGridCache(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	_, err := f.service.AssignTeacher(ctx, "year-1", "class-a", AssignTeacherRequest{
		TimeslotID: "slot-a1", Day: "MONDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"class-a"}, f.invalidator.invalidated)
}

func TestAssignTeacherInvalidationFailureDoesNotFailWrite(t *testing.T) {
	f := newAssignmentFixture()
	f.invalidator.err = errors.New("redis down")
	ctx := context.Background()

	_, err := f.service.AssignTeacher(ctx, "year-1", "class-a", AssignTeacherRequest{
		TimeslotID: "slot-a1", Day: "MONDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN",
	})
	require.NoError(t, err)
}

func TestGetCell(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	occupant, err := f.service.GetCell(ctx, "year-1", "class-a", "slot-a1", models.DayMonday)
	require.NoError(t, err)
	assert.Nil(t, occupant)

	_, err = f.service.AssignTeacher(ctx, "year-1", "class-a", AssignTeacherRequest{
		TimeslotID: "slot-a1", Day: "MONDAY", TeacherID: strptr("teacher-1"), Action: "ASSIGN",
	})
	require.NoError(t, err)

	occupant, err = f.service.GetCell(ctx, "year-1", "class-a", "slot-a1", models.DayMonday)
	require.NoError(t, err)
	require.NotNil(t, occupant)
	assert.Equal(t, "teacher-1", *occupant)
}
