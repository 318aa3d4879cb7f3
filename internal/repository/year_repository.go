package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sala-api/internal/models"
)

const yearColumns = "id, name, class_duration, is_active, start_date_kh, start_date_eng, created_at, updated_at"

// YearRepository manages persistence for academic years.
type YearRepository struct {
	db *sqlx.DB
}

// NewYearRepository constructs a YearRepository.
func NewYearRepository(db *sqlx.DB) *YearRepository {
	return &YearRepository{db: db}
}

// List returns years matching filters along with total count.
func (r *YearRepository) List(ctx context.Context, filter models.YearFilter) ([]models.Year, int, error) {
	base := "FROM years WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.IsActive)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at %s LIMIT %d OFFSET %d", yearColumns, base, order, size, offset)
	var years []models.Year
	if err := r.db.SelectContext(ctx, &years, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list years: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count years: %w", err)
	}

	return years, total, nil
}

// FindByID fetches a year by ID.
func (r *YearRepository) FindByID(ctx context.Context, id string) (*models.Year, error) {
	query := fmt.Sprintf("SELECT %s FROM years WHERE id = $1", yearColumns)
	var year models.Year
	if err := r.db.GetContext(ctx, &year, query, id); err != nil {
		return nil, err
	}
	return &year, nil
}

// Create stores a new year record.
func (r *YearRepository) Create(ctx context.Context, year *models.Year) error {
	if year.ID == "" {
		year.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	year.CreatedAt = now
	year.UpdatedAt = now

	const query = `INSERT INTO years (id, name, class_duration, is_active, start_date_kh, start_date_eng, created_at, updated_at) VALUES (:id, :name, :class_duration, :is_active, :start_date_kh, :start_date_eng, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, year); err != nil {
		return fmt.Errorf("create year: %w", err)
	}
	return nil
}

// Update modifies a year record.
func (r *YearRepository) Update(ctx context.Context, year *models.Year) error {
	year.UpdatedAt = time.Now().UTC()
	const query = `UPDATE years SET name = :name, class_duration = :class_duration, is_active = :is_active, start_date_kh = :start_date_kh, start_date_eng = :start_date_eng, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, year); err != nil {
		return fmt.Errorf("update year: %w", err)
	}
	return nil
}

// Delete removes a year by id. Classrooms, timeslots and assignments cascade
// at the schema level.
func (r *YearRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM years WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete year: %w", err)
	}
	return nil
}
