package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sala-api/internal/models"
	appErrors "github.com/noah-isme/sala-api/pkg/errors"
	"github.com/noah-isme/sala-api/pkg/export"
)

type teacherScheduleReader interface {
	ListByTeacherAndYear(ctx context.Context, yearID, teacherID string) ([]models.AssignmentDetail, error)
}

// ExportFormat enumerates supported download formats.
type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatCSV  ExportFormat = "csv"
	FormatPDF  ExportFormat = "pdf"
)

// ExportFile is a rendered download with its HTTP metadata.
type ExportFile struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ExportService renders a teacher's weekly schedule for download.
type ExportService struct {
	schedules teacherScheduleReader
	years     yearReader
	teachers  teacherReader
	xlsx      *export.XLSXExporter
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(schedules teacherScheduleReader, years yearReader, teachers teacherReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		schedules: schedules,
		years:     years,
		teachers:  teachers,
		xlsx:      export.NewXLSXExporter(),
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// TeacherSchedule renders the teacher's schedule within the year in the
// requested format. An empty schedule still exports with headers only.
func (s *ExportService) TeacherSchedule(ctx context.Context, yearID, teacherID string, format ExportFormat) (*ExportFile, error) {
	year, err := s.years.FindByID(ctx, yearID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "year not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load year")
	}
	teacher, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	assignments, err := s.schedules.ListByTeacherAndYear(ctx, yearID, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher schedule")
	}

	data := buildScheduleDataset(assignments)
	title := fmt.Sprintf("%s (%s)", teacher.Name, year.Name)
	base := fmt.Sprintf("schedule-%s-%s", slugify(teacher.Code), slugify(year.Name))

	switch format {
	case FormatXLSX:
		body, err := s.xlsx.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render xlsx export")
		}
		return &ExportFile{
			FileName:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Body:        body,
		}, nil
	case FormatCSV:
		body, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportFile{FileName: base + ".csv", ContentType: "text/csv", Body: body}, nil
	case FormatPDF:
		body, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportFile{FileName: base + ".pdf", ContentType: "application/pdf", Body: body}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format, use xlsx, csv or pdf")
	}
}

// buildScheduleDataset shapes assignments as one weekly table: a row per
// timeslot, a column per day, with classroom names in the cells. Rows follow
// catalog sort order; ties on label keep first appearance.
func buildScheduleDataset(assignments []models.AssignmentDetail) export.Dataset {
	headers := []string{"Time"}
	for _, day := range models.Days {
		headers = append(headers, dayTitle(day))
	}

	type rowKey struct {
		sortOrder int
		label     string
	}
	rows := map[rowKey]map[string]string{}
	var order []rowKey

	for _, a := range assignments {
		key := rowKey{sortOrder: a.SortOrder, label: a.TimeslotLabel}
		row, ok := rows[key]
		if !ok {
			row = map[string]string{"Time": a.TimeslotLabel}
			rows[key] = row
			order = append(order, key)
		}
		row[dayTitle(a.Day)] = a.ClassroomName
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].sortOrder != order[j].sortOrder {
			return order[i].sortOrder < order[j].sortOrder
		}
		return order[i].label < order[j].label
	})

	data := export.Dataset{Headers: headers}
	for _, key := range order {
		data.Rows = append(data.Rows, rows[key])
	}
	return data
}

func dayTitle(day models.Day) string {
	name := string(day)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
}

func slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	var b strings.Builder
	lastDash := true
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
