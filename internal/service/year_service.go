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

type yearRepository interface {
	List(ctx context.Context, filter models.YearFilter) ([]models.Year, int, error)
	FindByID(ctx context.Context, id string) (*models.Year, error)
	Create(ctx context.Context, year *models.Year) error
	Update(ctx context.Context, year *models.Year) error
	Delete(ctx context.Context, id string) error
}

// CreateYearRequest represents payload for creating academic years.
type CreateYearRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	ClassDuration string `json:"class_duration" validate:"required,oneof=1_hour 1_5_hour"`
	IsActive      bool   `json:"is_active"`
	StartDateKh   string `json:"start_date_kh" validate:"required"`
	StartDateEng  string `json:"start_date_eng" validate:"required"`
}

// UpdateYearRequest represents payload for updating academic years.
type UpdateYearRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	ClassDuration string `json:"class_duration" validate:"required,oneof=1_hour 1_5_hour"`
	IsActive      bool   `json:"is_active"`
	StartDateKh   string `json:"start_date_kh" validate:"required"`
	StartDateEng  string `json:"start_date_eng" validate:"required"`
}

// YearService orchestrates academic year operations.
type YearService struct {
	repo      yearRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewYearService constructs a YearService.
func NewYearService(repo yearRepository, validate *validator.Validate, logger *zap.Logger) *YearService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YearService{repo: repo, validator: validate, logger: logger}
}

// List returns years plus pagination data.
func (s *YearService) List(ctx context.Context, filter models.YearFilter) ([]models.Year, *models.Pagination, error) {
	years, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list years")
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
	return years, pagination, nil
}

// Get returns a year by id.
func (s *YearService) Get(ctx context.Context, id string) (*models.Year, error) {
	year, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "year not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load year")
	}
	return year, nil
}

// Create registers a new academic year.
func (s *YearService) Create(ctx context.Context, req CreateYearRequest) (*models.Year, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid year payload")
	}

	year := &models.Year{
		Name:          strings.TrimSpace(req.Name),
		ClassDuration: models.ClassDuration(req.ClassDuration),
		IsActive:      req.IsActive,
		StartDateKh:   req.StartDateKh,
		StartDateEng:  req.StartDateEng,
	}
	if err := s.repo.Create(ctx, year); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create year")
	}
	return year, nil
}

// Update modifies an existing year.
func (s *YearService) Update(ctx context.Context, id string, req UpdateYearRequest) (*models.Year, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid year payload")
	}

	year, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	year.Name = strings.TrimSpace(req.Name)
	year.ClassDuration = models.ClassDuration(req.ClassDuration)
	year.IsActive = req.IsActive
	year.StartDateKh = req.StartDateKh
	year.StartDateEng = req.StartDateEng

	if err := s.repo.Update(ctx, year); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update year")
	}
	return year, nil
}

// Delete removes a year and everything scoped to it.
func (s *YearService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete year")
	}
	return nil
}
