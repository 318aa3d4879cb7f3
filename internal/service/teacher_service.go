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

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	Search(ctx context.Context, query string, limit int) ([]models.TeacherSummary, error)
	FirstN(ctx context.Context, n int) ([]models.TeacherSummary, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id string) error
}

// CreateTeacherRequest represents payload for creating teachers.
type CreateTeacherRequest struct {
	Code        string  `json:"code" validate:"required,max=50"`
	Name        string  `json:"name" validate:"required,max=200"`
	Phone       string  `json:"phone" validate:"required,max=50"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	DOB         *string `json:"dob"`
	Subject     *string `json:"subject" validate:"omitempty,max=200"`
	Profession1 *string `json:"profession1" validate:"omitempty,max=200"`
	Profession2 *string `json:"profession2" validate:"omitempty,max=200"`
	Krobkan     *string `json:"krobkan" validate:"omitempty,max=200"`
	Rank        *string `json:"rank" validate:"omitempty,max=200"`
}

// UpdateTeacherRequest represents payload for updating teachers.
type UpdateTeacherRequest struct {
	Code        string  `json:"code" validate:"required,max=50"`
	Name        string  `json:"name" validate:"required,max=200"`
	Phone       string  `json:"phone" validate:"required,max=50"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	DOB         *string `json:"dob"`
	Subject     *string `json:"subject" validate:"omitempty,max=200"`
	Profession1 *string `json:"profession1" validate:"omitempty,max=200"`
	Profession2 *string `json:"profession2" validate:"omitempty,max=200"`
	Krobkan     *string `json:"krobkan" validate:"omitempty,max=200"`
	Rank        *string `json:"rank" validate:"omitempty,max=200"`
}

// TeacherService orchestrates teacher directory operations.
type TeacherService struct {
	repo      teacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, validator: validate, logger: logger}
}

// List returns teachers plus pagination data.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return teachers, pagination, nil
}

// Search returns picker entries matching the query by name or code.
func (s *TeacherService) Search(ctx context.Context, query string, limit int) ([]models.TeacherSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.TeacherSummary{}, nil
	}
	teachers, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search teachers")
	}
	return teachers, nil
}

// FirstN returns the first n teachers by code to seed picker components.
func (s *TeacherService) FirstN(ctx context.Context, n int) ([]models.TeacherSummary, error) {
	teachers, err := s.repo.FirstN(ctx, n)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	return teachers, nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create registers a new teacher record.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	if err := s.ensureUniqueCode(ctx, req.Code, ""); err != nil {
		return nil, err
	}

	teacher := &models.Teacher{
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Gender:      normalizeOptional(req.Gender),
		DOB:         normalizeOptional(req.DOB),
		Subject:     normalizeOptional(req.Subject),
		Profession1: normalizeOptional(req.Profession1),
		Profession2: normalizeOptional(req.Profession2),
		Krobkan:     normalizeOptional(req.Krobkan),
		Rank:        normalizeOptional(req.Rank),
	}

	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	return teacher, nil
}

// Update modifies an existing teacher.
func (s *TeacherService) Update(ctx context.Context, id string, req UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, req.Code, id); err != nil {
		return nil, err
	}

	teacher.Code = strings.TrimSpace(req.Code)
	teacher.Name = strings.TrimSpace(req.Name)
	teacher.Phone = strings.TrimSpace(req.Phone)
	teacher.Gender = normalizeOptional(req.Gender)
	teacher.DOB = normalizeOptional(req.DOB)
	teacher.Subject = normalizeOptional(req.Subject)
	teacher.Profession1 = normalizeOptional(req.Profession1)
	teacher.Profession2 = normalizeOptional(req.Profession2)
	teacher.Krobkan = normalizeOptional(req.Krobkan)
	teacher.Rank = normalizeOptional(req.Rank)

	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return teacher, nil
}

// Delete removes a teacher record.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	return nil
}

func (s *TeacherService) ensureUniqueCode(ctx context.Context, code, excludeID string) error {
	exists, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher code")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "teacher code already in use")
	}
	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
