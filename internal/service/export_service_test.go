package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sala-api/internal/models"
	appErrors "github.com/noah-isme/sala-api/pkg/errors"
)

type fixedSchedule struct {
	assignments []models.AssignmentDetail
}

func (f *fixedSchedule) ListByTeacherAndYear(ctx context.Context, yearID, teacherID string) ([]models.AssignmentDetail, error) {
	return f.assignments, nil
}

func scheduleEntry(classroom, label string, sortOrder int, day models.Day) models.AssignmentDetail {
	return models.AssignmentDetail{
		Assignment: models.Assignment{
			ClassroomID: classroom,
			Day:         day,
		},
		SortOrder:     sortOrder,
		TimeslotLabel: label,
		ClassroomName: classroom,
	}
}

func newExportService(assignments []models.AssignmentDetail) *ExportService {
	return NewExportService(
		&fixedSchedule{assignments: assignments},
		&stubYearReader{years: map[string]*models.Year{
			"year-1": {ID: "year-1", Name: "2026-2027"},
		}},
		&stubTeacherReader{teachers: map[string]*models.Teacher{
			"teacher-1": {ID: "teacher-1", Code: "T001", Name: "Sok Dara"},
		}},
		nil,
	)
}

func TestBuildScheduleDataset(t *testing.T) {
	data := buildScheduleDataset([]models.AssignmentDetail{
		scheduleEntry("7B", "08:00 - 09:00", 2, models.DayTuesday),
		scheduleEntry("7A", "07:00 - 08:00", 1, models.DayMonday),
		scheduleEntry("7B", "07:00 - 08:00", 1, models.DayTuesday),
	})

	assert.Equal(t, []string{"Time", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}, data.Headers)
	require.Len(t, data.Rows, 2)

	// Rows follow catalog order; both bookings of slot 1 land on one row.
	assert.Equal(t, "07:00 - 08:00", data.Rows[0]["Time"])
	assert.Equal(t, "7A", data.Rows[0]["Monday"])
	assert.Equal(t, "7B", data.Rows[0]["Tuesday"])
	assert.Equal(t, "08:00 - 09:00", data.Rows[1]["Time"])
	assert.Equal(t, "7B", data.Rows[1]["Tuesday"])
}

func TestTeacherScheduleCSV(t *testing.T) {
	svc := newExportService([]models.AssignmentDetail{
		scheduleEntry("7A", "07:00 - 08:00", 1, models.DayMonday),
	})

	file, err := svc.TeacherSchedule(context.Background(), "year-1", "teacher-1", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "schedule-t001-2026-2027.csv", file.FileName)

	body := string(file.Body)
	assert.True(t, strings.HasPrefix(body, "Time,Monday"))
	assert.Contains(t, body, "07:00 - 08:00,7A")
}

func TestTeacherScheduleXLSX(t *testing.T) {
	svc := newExportService([]models.AssignmentDetail{
		scheduleEntry("7A", "07:00 - 08:00", 1, models.DayMonday),
	})

	file, err := svc.TeacherSchedule(context.Background(), "year-1", "teacher-1", FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "schedule-t001-2026-2027.xlsx", file.FileName)
	// XLSX is a zip archive.
	require.True(t, len(file.Body) > 4)
	assert.Equal(t, "PK", string(file.Body[:2]))
}

func TestTeacherSchedulePDF(t *testing.T) {
	svc := newExportService(nil)

	file, err := svc.TeacherSchedule(context.Background(), "year-1", "teacher-1", FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	require.True(t, len(file.Body) > 5)
	assert.Equal(t, "%PDF", string(file.Body[:4]))
}

func TestTeacherScheduleUnsupportedFormat(t *testing.T) {
	svc := newExportService(nil)

	_, err := svc.TeacherSchedule(context.Background(), "year-1", "teacher-1", ExportFormat("docx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTeacherScheduleUnknownTeacher(t *testing.T) {
	svc := newExportService(nil)

	_, err := svc.TeacherSchedule(context.Background(), "year-1", "teacher-9", FormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
