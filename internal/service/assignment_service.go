package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sala-api/internal/models"
	appErrors "github.com/noah-isme/sala-api/pkg/errors"
)

type assignmentStore interface {
	GetCell(ctx context.Context, classroomID, timeslotID string, day models.Day) (*string, error)
	SetCell(ctx context.Context, yearID, classroomID, timeslotID string, day models.Day, teacherID *string) (*string, error)
}

type cellConflictChecker interface {
	Check(ctx context.Context, yearID, teacherID string, day models.Day, sortOrder int, targetClassroomID, targetTimeslotID string) (*models.AssignmentConflict, error)
}

type yearReader interface {
	FindByID(ctx context.Context, id string) (*models.Year, error)
}

type classroomReader interface {
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

type timeslotReader interface {
	FindByID(ctx context.Context, id string) (*models.Timeslot, error)
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type gridInvalidator interface {
	Invalidate(ctx context.Context, classroomID string) error
}

// AssignTeacherRequest is the cell mutation payload the grid page posts.
type AssignTeacherRequest struct {
	ClassroomID string  `json:"classroomId"`
	TimeslotID  string  `json:"timeslotId" validate:"required"`
	Day         string  `json:"day" validate:"required"`
	TeacherID   *string `json:"teacherId"`
	Action      string  `json:"action" validate:"required"`
}

// AssignmentService orchestrates validation, conflict checking and the store
// mutation as one logical operation.
type AssignmentService struct {
	store      assignmentStore
	conflicts  cellConflictChecker
	years      yearReader
	classrooms classroomReader
	timeslots  timeslotReader
	teachers   teacherReader
	grids      gridInvalidator
	locks      *keyedLock
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAssignmentService creates a service instance.
func NewAssignmentService(
	store assignmentStore,
	conflicts cellConflictChecker,
	years yearReader,
	classrooms classroomReader,
	timeslots timeslotReader,
	teachers teacherReader,
	grids gridInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		store:      store,
		conflicts:  conflicts,
		years:      years,
		classrooms: classrooms,
		timeslots:  timeslots,
		teachers:   teachers,
		grids:      grids,
		locks:      newKeyedLock(),
		validator:  validate,
		logger:     logger,
	}
}

// AssignTeacher applies one cell edit: ASSIGN binds the teacher after the
// conflict check passes, REMOVE clears the cell unconditionally. The check
// and the write run under a per-(teacher, day, slot family) lock so two
// concurrent edits cannot both pass a stale check.
func (s *AssignmentService) AssignTeacher(ctx context.Context, yearID, classroomID string, req AssignTeacherRequest) (*models.CellResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if req.ClassroomID != "" && req.ClassroomID != classroomID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classroom in payload does not match path")
	}

	day := models.Day(strings.ToUpper(req.Day))
	if !day.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", req.Day))
	}

	action := models.AssignmentAction(strings.ToUpper(req.Action))
	if !action.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown action %q", req.Action))
	}

	teacherID := req.TeacherID
	if action == models.ActionRemove {
		teacherID = nil
	} else if teacherID == nil || *teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacherId is required for ASSIGN")
	}

	slot, err := s.resolveCellScope(ctx, yearID, classroomID, req.TimeslotID)
	if err != nil {
		return nil, err
	}

	if teacherID != nil {
		if _, err := s.teachers.FindByID(ctx, *teacherID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}

		release := s.locks.Acquire(fmt.Sprintf("%s|%s|%d|%s", yearID, day, slot.SortOrder, *teacherID))
		defer release()

		conflict, err := s.conflicts.Check(ctx, yearID, *teacherID, day, slot.SortOrder, classroomID, req.TimeslotID)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, wrapAssignmentConflict(*conflict)
		}
	}

	previous, err := s.store.SetCell(ctx, yearID, classroomID, req.TimeslotID, day, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write assignment")
	}

	if s.grids != nil {
		if err := s.grids.Invalidate(ctx, classroomID); err != nil {
			s.logger.Warn("grid cache invalidation failed", zap.String("classroom_id", classroomID), zap.Error(err))
		}
	}

	return &models.CellResult{
		ClassroomID:       classroomID,
		TimeslotID:        req.TimeslotID,
		Day:               day,
		TeacherID:         teacherID,
		PreviousTeacherID: previous,
	}, nil
}

// GetCell returns the current occupant of one cell after scope validation.
func (s *AssignmentService) GetCell(ctx context.Context, yearID, classroomID, timeslotID string, day models.Day) (*string, error) {
	if !day.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", day))
	}
	if _, err := s.resolveCellScope(ctx, yearID, classroomID, timeslotID); err != nil {
		return nil, err
	}
	teacherID, err := s.store.GetCell(ctx, classroomID, timeslotID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read cell")
	}
	return teacherID, nil
}

// resolveCellScope verifies the classroom belongs to the year and the
// timeslot belongs to the classroom, returning the timeslot for its family
// sort order.
func (s *AssignmentService) resolveCellScope(ctx context.Context, yearID, classroomID, timeslotID string) (*models.Timeslot, error) {
	if _, err := s.years.FindByID(ctx, yearID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "year not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load year")
	}

	classroom, err := s.classrooms.FindByID(ctx, classroomID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	if classroom.YearID != yearID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found in year")
	}

	slot, err := s.timeslots.FindByID(ctx, timeslotID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timeslot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeslot")
	}
	if slot.ClassroomID != classroomID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timeslot not found in classroom")
	}

	return slot, nil
}
