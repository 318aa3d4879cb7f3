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

// AssignmentRepository is the durable cell store: one row per
// (classroom, timeslot, day), NULL teacher meaning unassigned. It performs no
// conflict checking of its own.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// GetCell returns the teacher currently holding the cell, nil when the cell
// is unassigned or has never been written.
func (r *AssignmentRepository) GetCell(ctx context.Context, classroomID, timeslotID string, day models.Day) (*string, error) {
	const query = `SELECT teacher_id FROM assignments WHERE classroom_id = $1 AND timeslot_id = $2 AND day = $3`
	var teacherID *string
	if err := r.db.GetContext(ctx, &teacherID, query, classroomID, timeslotID, day); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get cell: %w", err)
	}
	return teacherID, nil
}

// GetGrid returns every populated cell of a classroom with the occupant's
// name. A single statement keeps the snapshot free of torn reads.
func (r *AssignmentRepository) GetGrid(ctx context.Context, classroomID string) ([]models.GridCell, error) {
	const query = `
		SELECT a.timeslot_id, a.day, a.teacher_id, t.name AS teacher_name
		FROM assignments a
		LEFT JOIN teachers t ON t.id = a.teacher_id
		JOIN timeslots s ON s.id = a.timeslot_id
		WHERE a.classroom_id = $1
		ORDER BY s.sort_order ASC, a.day ASC`
	var cells []models.GridCell
	if err := r.db.SelectContext(ctx, &cells, query, classroomID); err != nil {
		return nil, fmt.Errorf("get grid: %w", err)
	}
	return cells, nil
}

// FindTeacherBookings returns the teacher's assignments in the year on the
// given day whose timeslot shares the sort order, ordered by classroom id so
// conflict reporting is deterministic.
func (r *AssignmentRepository) FindTeacherBookings(ctx context.Context, yearID, teacherID string, day models.Day, sortOrder int) ([]models.AssignmentDetail, error) {
	const query = `
		SELECT a.id, a.year_id, a.classroom_id, a.timeslot_id, a.day, a.teacher_id, a.created_at, a.updated_at,
		       s.sort_order, s.label AS timeslot_label, c.name AS classroom_name
		FROM assignments a
		JOIN timeslots s ON s.id = a.timeslot_id
		JOIN classrooms c ON c.id = a.classroom_id
		WHERE a.year_id = $1 AND a.teacher_id = $2 AND a.day = $3 AND s.sort_order = $4
		ORDER BY a.classroom_id ASC`
	var bookings []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &bookings, query, yearID, teacherID, day, sortOrder); err != nil {
		return nil, fmt.Errorf("find teacher bookings: %w", err)
	}
	return bookings, nil
}

// ListByTeacherAndYear returns every cell a teacher holds in a year, ordered
// by slot then day. Feeds the schedule export.
func (r *AssignmentRepository) ListByTeacherAndYear(ctx context.Context, yearID, teacherID string) ([]models.AssignmentDetail, error) {
	const query = `
		SELECT a.id, a.year_id, a.classroom_id, a.timeslot_id, a.day, a.teacher_id, a.created_at, a.updated_at,
		       s.sort_order, s.label AS timeslot_label, c.name AS classroom_name
		FROM assignments a
		JOIN timeslots s ON s.id = a.timeslot_id
		JOIN classrooms c ON c.id = a.classroom_id
		WHERE a.year_id = $1 AND a.teacher_id = $2
		ORDER BY s.sort_order ASC, a.day ASC`
	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, yearID, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher assignments: %w", err)
	}
	return assignments, nil
}

// SetCell overwrites the cell unconditionally and returns the previous
// occupant. The read and the upsert run in one transaction so a concurrent
// writer to the same cell cannot slip between them.
func (r *AssignmentRepository) SetCell(ctx context.Context, yearID, classroomID, timeslotID string, day models.Day, teacherID *string) (*string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin set cell: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var previous *string
	err = tx.GetContext(ctx, &previous, `SELECT teacher_id FROM assignments WHERE classroom_id = $1 AND timeslot_id = $2 AND day = $3 FOR UPDATE`, classroomID, timeslotID, day)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("read previous cell: %w", err)
	}
	err = nil

	now := time.Now().UTC()
	assignment := models.Assignment{
		ID:          uuid.NewString(),
		YearID:      yearID,
		ClassroomID: classroomID,
		TimeslotID:  timeslotID,
		Day:         day,
		TeacherID:   teacherID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err = sqlx.NamedExecContext(ctx, tx, `
		INSERT INTO assignments (id, year_id, classroom_id, timeslot_id, day, teacher_id, created_at, updated_at)
		VALUES (:id, :year_id, :classroom_id, :timeslot_id, :day, :teacher_id, :created_at, :updated_at)
		ON CONFLICT (classroom_id, timeslot_id, day)
		DO UPDATE SET teacher_id = EXCLUDED.teacher_id, updated_at = EXCLUDED.updated_at`, &assignment); err != nil {
		return nil, fmt.Errorf("upsert cell: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit set cell: %w", err)
	}
	return previous, nil
}
