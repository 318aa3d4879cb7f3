package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sala-api/internal/models"
	"github.com/noah-isme/sala-api/internal/service"
)

type gridStoreStub struct {
	cells map[string]*string
}

func gridKey(classroomID, timeslotID string, day models.Day) string {
	return classroomID + "|" + timeslotID + "|" + string(day)
}

func (s *gridStoreStub) GetCell(ctx context.Context, classroomID, timeslotID string, day models.Day) (*string, error) {
	return s.cells[gridKey(classroomID, timeslotID, day)], nil
}

func (s *gridStoreStub) SetCell(ctx context.Context, yearID, classroomID, timeslotID string, day models.Day, teacherID *string) (*string, error) {
	key := gridKey(classroomID, timeslotID, day)
	previous := s.cells[key]
	s.cells[key] = teacherID
	return previous, nil
}

func (s *gridStoreStub) GetGrid(ctx context.Context, classroomID string) ([]models.GridCell, error) {
	var cells []models.GridCell
	for key, teacherID := range s.cells {
		if teacherID == nil {
			continue
		}
		parts := strings.SplitN(key, "|", 3)
		if parts[0] != classroomID {
			continue
		}
		cells = append(cells, models.GridCell{TimeslotID: parts[1], Day: models.Day(parts[2]), TeacherID: teacherID})
	}
	return cells, nil
}

type conflictCheckerStub struct {
	conflict *models.AssignmentConflict
}

func (s *conflictCheckerStub) Check(ctx context.Context, yearID, teacherID string, day models.Day, sortOrder int, targetClassroomID, targetTimeslotID string) (*models.AssignmentConflict, error) {
	return s.conflict, nil
}

type yearLookupStub struct{ years map[string]*models.Year }

func (s *yearLookupStub) FindByID(ctx context.Context, id string) (*models.Year, error) {
	if y, ok := s.years[id]; ok {
		return y, nil
	}
	return nil, sql.ErrNoRows
}

type classroomLookupStub struct{ classrooms map[string]*models.Classroom }

func (s *classroomLookupStub) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	if c, ok := s.classrooms[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type timeslotLookupStub struct{ slots map[string]*models.Timeslot }

func (s *timeslotLookupStub) FindByID(ctx context.Context, id string) (*models.Timeslot, error) {
	if slot, ok := s.slots[id]; ok {
		return slot, nil
	}
	return nil, sql.ErrNoRows
}

func (s *timeslotLookupStub) ListByClassroom(ctx context.Context, classroomID string) ([]models.Timeslot, error) {
	var out []models.Timeslot
	for _, slot := range s.slots {
		if slot.ClassroomID == classroomID {
			out = append(out, *slot)
		}
	}
	return out, nil
}

type teacherLookupStub struct{ teachers map[string]*models.Teacher }

func (s *teacherLookupStub) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := s.teachers[id]; ok {
		return teacher, nil
	}
	return nil, sql.ErrNoRows
}

type assignmentHandlerFixture struct {
	handler   *AssignmentHandler
	store     *gridStoreStub
	conflicts *conflictCheckerStub
}

func newAssignmentHandlerFixture() *assignmentHandlerFixture {
	store := &gridStoreStub{cells: map[string]*string{}}
	conflicts := &conflictCheckerStub{}
	years := &yearLookupStub{years: map[string]*models.Year{
		"year-1": {ID: "year-1", Name: "2026-2027", ClassDuration: models.ClassDurationOneHour},
	}}
	classrooms := &classroomLookupStub{classrooms: map[string]*models.Classroom{
		"class-a": {ID: "class-a", YearID: "year-1", Name: "7A"},
	}}
	slots := &timeslotLookupStub{slots: map[string]*models.Timeslot{
		"slot-1": {ID: "slot-1", ClassroomID: "class-a", Label: "07:00 - 08:00", SortOrder: 1},
	}}
	teachers := &teacherLookupStub{teachers: map[string]*models.Teacher{
		"teacher-1": {ID: "teacher-1", Code: "T001", Name: "Sok Dara"},
	}}

	assignments := service.NewAssignmentService(store, conflicts, years, classrooms, slots, teachers, nil, nil, nil)
	timetables := service.NewTimetableService(store, slots, classrooms, nil, 0, nil)
	return &assignmentHandlerFixture{
		handler:   NewAssignmentHandler(assignments, timetables, nil),
		store:     store,
		conflicts: conflicts,
	}
}

func assignRequest(t *testing.T, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/years/year-1/classrooms/class-a/assign-teacher", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "yid", Value: "year-1"}, {Key: "cid", Value: "class-a"}}
	return w, c
}

func TestAssignTeacherHandlerInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fixture := newAssignmentHandlerFixture()

	w, c := assignRequest(t, `{"timeslotId":"slot-1"`)
	fixture.handler.AssignTeacher(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignTeacherHandlerApplies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fixture := newAssignmentHandlerFixture()

	w, c := assignRequest(t, `{"timeslotId":"slot-1","day":"MONDAY","teacherId":"teacher-1","action":"ASSIGN"}`)
	fixture.handler.AssignTeacher(c)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.CellResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.TeacherID)
	assert.Equal(t, "teacher-1", *envelope.Data.TeacherID)
	assert.Nil(t, envelope.Data.PreviousTeacherID)
	assert.Equal(t, models.DayMonday, envelope.Data.Day)
}

func TestAssignTeacherHandlerConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fixture := newAssignmentHandlerFixture()
	fixture.conflicts.conflict = &models.AssignmentConflict{
		TeacherID:              "teacher-1",
		Day:                    models.DayMonday,
		ConflictingClassroomID: "class-b",
		ConflictingTimeslotID:  "slot-9",
	}

	w, c := assignRequest(t, `{"timeslotId":"slot-1","day":"MONDAY","teacherId":"teacher-1","action":"ASSIGN"}`)
	fixture.handler.AssignTeacher(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var envelope struct {
		Meta struct {
			Conflict models.AssignmentConflict `json:"conflict"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "class-b", envelope.Meta.Conflict.ConflictingClassroomID)
	assert.Equal(t, "slot-9", envelope.Meta.Conflict.ConflictingTimeslotID)

	// The cell must remain untouched.
	teacherID, err := fixture.store.GetCell(context.Background(), "class-a", "slot-1", models.DayMonday)
	require.NoError(t, err)
	assert.Nil(t, teacherID)
}

func TestAssignTeacherHandlerUnknownTimeslot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fixture := newAssignmentHandlerFixture()

	w, c := assignRequest(t, `{"timeslotId":"slot-9","day":"MONDAY","teacherId":"teacher-1","action":"ASSIGN"}`)
	fixture.handler.AssignTeacher(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTimetableHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fixture := newAssignmentHandlerFixture()
	teacherID := "teacher-1"
	fixture.store.cells[gridKey("class-a", "slot-1", models.DayMonday)] = &teacherID

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/years/year-1/classrooms/class-a/timetable", nil)
	require.NoError(t, err)
	c.Request = req
	c.Params = gin.Params{{Key: "yid", Value: "year-1"}, {Key: "cid", Value: "class-a"}}

	fixture.handler.GetTimetable(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.Grid `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "class-a", envelope.Data.ClassroomID)
	assert.Len(t, envelope.Data.Timeslots, 1)
	require.Len(t, envelope.Data.Cells, 1)
	assert.Equal(t, models.DayMonday, envelope.Data.Cells[0].Day)
}

func TestGetTimetableHandlerUnknownClassroom(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fixture := newAssignmentHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/years/year-1/classrooms/class-z/timetable", nil)
	require.NoError(t, err)
	c.Request = req
	c.Params = gin.Params{{Key: "yid", Value: "year-1"}, {Key: "cid", Value: "class-z"}}

	fixture.handler.GetTimetable(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
