package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sala-api/internal/models"
)

const classroomColumns = "id, year_id, name, lead_teacher_id, created_at, updated_at"

// ClassroomRepository manages persistence for classrooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs a ClassroomRepository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// ListByYear returns classrooms of a year enriched with the lead teacher name
// and assignment progress counters, ordered by name.
func (r *ClassroomRepository) ListByYear(ctx context.Context, yearID string) ([]models.ClassroomDetail, error) {
	const query = `
		SELECT c.id, c.year_id, c.name, c.lead_teacher_id, c.created_at, c.updated_at,
		       t.name AS lead_teacher_name,
		       COALESCE(a.assigned, 0) AS assigned_timeslots,
		       COALESCE(s.total, 0) * 6 AS total_timeslots
		FROM classrooms c
		LEFT JOIN teachers t ON t.id = c.lead_teacher_id
		LEFT JOIN (
			SELECT classroom_id, COUNT(*) AS assigned FROM assignments WHERE teacher_id IS NOT NULL GROUP BY classroom_id
		) a ON a.classroom_id = c.id
		LEFT JOIN (
			SELECT classroom_id, COUNT(*) AS total FROM timeslots GROUP BY classroom_id
		) s ON s.classroom_id = c.id
		WHERE c.year_id = $1
		ORDER BY c.name ASC`
	var classrooms []models.ClassroomDetail
	if err := r.db.SelectContext(ctx, &classrooms, query, yearID); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return classrooms, nil
}

// FindByID fetches a classroom by ID.
func (r *ClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	query := fmt.Sprintf("SELECT %s FROM classrooms WHERE id = $1", classroomColumns)
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, id); err != nil {
		return nil, err
	}
	return &classroom, nil
}

// ExistsByName checks if another classroom in the year uses the same name.
func (r *ClassroomRepository) ExistsByName(ctx context.Context, yearID, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM classrooms WHERE year_id = $1 AND LOWER(name) = LOWER($2)"
	args := []interface{}{yearID, name}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check classroom name: %w", err)
	}
	return true, nil
}

// Create stores a new classroom record.
func (r *ClassroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	if classroom.ID == "" {
		classroom.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	classroom.CreatedAt = now
	classroom.UpdatedAt = now

	const query = `INSERT INTO classrooms (id, year_id, name, lead_teacher_id, created_at, updated_at) VALUES (:id, :year_id, :name, :lead_teacher_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, classroom); err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}
	return nil
}

// Update modifies a classroom record.
func (r *ClassroomRepository) Update(ctx context.Context, classroom *models.Classroom) error {
	classroom.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classrooms SET name = :name, lead_teacher_id = :lead_teacher_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, classroom); err != nil {
		return fmt.Errorf("update classroom: %w", err)
	}
	return nil
}

// Delete removes a classroom by id.
func (r *ClassroomRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classrooms WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete classroom: %w", err)
	}
	return nil
}
