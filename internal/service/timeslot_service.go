package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sala-api/internal/models"
	appErrors "github.com/noah-isme/sala-api/pkg/errors"
)

// Morning lessons start at 07:00; a 30 minute break follows the second slot.
const (
	catalogStartHour   = 7
	catalogBreakAfter  = 2
	catalogBreakLength = 30 * time.Minute
	catalogSlotCount   = 5
)

type timeslotRepository interface {
	ListByClassroom(ctx context.Context, classroomID string) ([]models.Timeslot, error)
	FindByID(ctx context.Context, id string) (*models.Timeslot, error)
	Create(ctx context.Context, slot *models.Timeslot) error
	BulkCreate(ctx context.Context, slots []models.Timeslot) error
	CountByClassroom(ctx context.Context, classroomID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// CreateTimeslotRequest represents payload for adding a single catalog entry.
type CreateTimeslotRequest struct {
	Label           string `json:"label" validate:"required,max=50"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=15,max=240"`
	SortOrder       int    `json:"sortOrder" validate:"min=0"`
}

// TimeslotService manages the ordered per-classroom timeslot catalogs.
type TimeslotService struct {
	repo       timeslotRepository
	years      yearReader
	classrooms classroomReader
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewTimeslotService constructs a TimeslotService.
func NewTimeslotService(repo timeslotRepository, years yearReader, classrooms classroomReader, validate *validator.Validate, logger *zap.Logger) *TimeslotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeslotService{repo: repo, years: years, classrooms: classrooms, validator: validate, logger: logger}
}

// ListByClassroom returns the classroom's catalog ordered by sort order. The
// classroom must exist and belong to the year; an empty catalog is a valid
// result, not an error.
func (s *TimeslotService) ListByClassroom(ctx context.Context, yearID, classroomID string) ([]models.Timeslot, error) {
	if err := s.ensureClassroom(ctx, yearID, classroomID); err != nil {
		return nil, err
	}
	slots, err := s.repo.ListByClassroom(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timeslots")
	}
	if slots == nil {
		slots = []models.Timeslot{}
	}
	return slots, nil
}

// Create adds a single entry to the classroom catalog.
func (s *TimeslotService) Create(ctx context.Context, yearID, classroomID string, req CreateTimeslotRequest) (*models.Timeslot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timeslot payload")
	}
	if err := s.ensureClassroom(ctx, yearID, classroomID); err != nil {
		return nil, err
	}

	slot := &models.Timeslot{
		ClassroomID:     classroomID,
		Label:           strings.TrimSpace(req.Label),
		DurationMinutes: req.DurationMinutes,
		SortOrder:       req.SortOrder,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timeslot")
	}
	return slot, nil
}

// SeedDefault generates the standard morning catalog from the year's class
// duration and stores it in one transaction. It refuses to seed on top of an
// existing catalog so sort orders stay unambiguous.
func (s *TimeslotService) SeedDefault(ctx context.Context, yearID, classroomID string) ([]models.Timeslot, error) {
	year, err := s.years.FindByID(ctx, yearID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "year not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load year")
	}
	if err := s.ensureClassroom(ctx, yearID, classroomID); err != nil {
		return nil, err
	}

	existing, err := s.repo.CountByClassroom(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect timeslot catalog")
	}
	if existing > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "classroom already has a timeslot catalog")
	}

	slots := DefaultCatalog(classroomID, year.ClassDuration)
	if err := s.repo.BulkCreate(ctx, slots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed timeslot catalog")
	}
	return slots, nil
}

// Delete removes a single catalog entry.
func (s *TimeslotService) Delete(ctx context.Context, yearID, classroomID, slotID string) error {
	if err := s.ensureClassroom(ctx, yearID, classroomID); err != nil {
		return err
	}
	slot, err := s.repo.FindByID(ctx, slotID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "timeslot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeslot")
	}
	if slot.ClassroomID != classroomID {
		return appErrors.Clone(appErrors.ErrNotFound, "timeslot not found in classroom")
	}
	if err := s.repo.Delete(ctx, slotID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timeslot")
	}
	return nil
}

// DefaultCatalog builds the morning timetable template for the given class
// duration. Labels carry the clock range so the grid header reads naturally.
func DefaultCatalog(classroomID string, duration models.ClassDuration) []models.Timeslot {
	minutes := duration.Minutes()
	slots := make([]models.Timeslot, 0, catalogSlotCount)

	start := time.Date(2000, 1, 1, catalogStartHour, 0, 0, 0, time.UTC)
	for i := 0; i < catalogSlotCount; i++ {
		end := start.Add(time.Duration(minutes) * time.Minute)
		slots = append(slots, models.Timeslot{
			ClassroomID:     classroomID,
			Label:           fmt.Sprintf("%s - %s", start.Format("15:04"), end.Format("15:04")),
			DurationMinutes: minutes,
			SortOrder:       i + 1,
		})
		start = end
		if i+1 == catalogBreakAfter {
			start = start.Add(catalogBreakLength)
		}
	}
	return slots
}

func (s *TimeslotService) ensureClassroom(ctx context.Context, yearID, classroomID string) error {
	classroom, err := s.classrooms.FindByID(ctx, classroomID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	if classroom.YearID != yearID {
		return appErrors.Clone(appErrors.ErrNotFound, "classroom not found in year")
	}
	return nil
}
