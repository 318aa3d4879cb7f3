package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sala-api/internal/models"
	appErrors "github.com/noah-isme/sala-api/pkg/errors"
)

type classroomRepository interface {
	ListByYear(ctx context.Context, yearID string) ([]models.ClassroomDetail, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
	ExistsByName(ctx context.Context, yearID, name, excludeID string) (bool, error)
	Create(ctx context.Context, classroom *models.Classroom) error
	Update(ctx context.Context, classroom *models.Classroom) error
	Delete(ctx context.Context, id string) error
}

// CreateClassroomRequest represents payload for creating classrooms.
type CreateClassroomRequest struct {
	Name          string  `json:"name" validate:"required,max=100"`
	LeadTeacherID *string `json:"leadTeacherId"`
}

// UpdateClassroomRequest represents payload for updating classrooms.
type UpdateClassroomRequest struct {
	Name          string  `json:"name" validate:"required,max=100"`
	LeadTeacherID *string `json:"leadTeacherId"`
}

// ClassroomService orchestrates classroom operations within a year.
type ClassroomService struct {
	repo      classroomRepository
	years     yearReader
	teachers  teacherReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassroomService constructs a ClassroomService.
func NewClassroomService(repo classroomRepository, years yearReader, teachers teacherReader, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{repo: repo, years: years, teachers: teachers, validator: validate, logger: logger}
}

// ListByYear returns the year's classrooms with lead teacher and assignment
// counters.
func (s *ClassroomService) ListByYear(ctx context.Context, yearID string) ([]models.ClassroomDetail, error) {
	if err := s.ensureYear(ctx, yearID); err != nil {
		return nil, err
	}
	classrooms, err := s.repo.ListByYear(ctx, yearID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}
	return classrooms, nil
}

// Get returns a classroom scoped to the year.
func (s *ClassroomService) Get(ctx context.Context, yearID, id string) (*models.Classroom, error) {
	classroom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	if classroom.YearID != yearID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found in year")
	}
	return classroom, nil
}

// Create registers a new classroom in the year.
func (s *ClassroomService) Create(ctx context.Context, yearID string, req CreateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}
	if err := s.ensureYear(ctx, yearID); err != nil {
		return nil, err
	}
	if err := s.ensureLeadTeacher(ctx, req.LeadTeacherID); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, yearID, req.Name, ""); err != nil {
		return nil, err
	}

	classroom := &models.Classroom{
		YearID:        yearID,
		Name:          strings.TrimSpace(req.Name),
		LeadTeacherID: normalizeOptional(req.LeadTeacherID),
	}
	if err := s.repo.Create(ctx, classroom); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create classroom")
	}
	return classroom, nil
}

// Update modifies an existing classroom.
func (s *ClassroomService) Update(ctx context.Context, yearID, id string, req UpdateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}

	classroom, err := s.Get(ctx, yearID, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureLeadTeacher(ctx, req.LeadTeacherID); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, yearID, req.Name, id); err != nil {
		return nil, err
	}

	classroom.Name = strings.TrimSpace(req.Name)
	classroom.LeadTeacherID = normalizeOptional(req.LeadTeacherID)

	if err := s.repo.Update(ctx, classroom); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update classroom")
	}
	return classroom, nil
}

// Delete removes a classroom and its catalog and assignments.
func (s *ClassroomService) Delete(ctx context.Context, yearID, id string) error {
	if _, err := s.Get(ctx, yearID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete classroom")
	}
	return nil
}

func (s *ClassroomService) ensureYear(ctx context.Context, yearID string) error {
	if _, err := s.years.FindByID(ctx, yearID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "year not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load year")
	}
	return nil
}

func (s *ClassroomService) ensureLeadTeacher(ctx context.Context, teacherID *string) error {
	if teacherID == nil || *teacherID == "" {
		return nil
	}
	if _, err := s.teachers.FindByID(ctx, *teacherID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "lead teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lead teacher")
	}
	return nil
}

func (s *ClassroomService) ensureUniqueName(ctx context.Context, yearID, name, excludeID string) error {
	exists, err := s.repo.ExistsByName(ctx, yearID, name, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check classroom name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "classroom name already used in this year")
	}
	return nil
}
