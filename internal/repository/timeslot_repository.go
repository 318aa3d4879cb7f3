package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sala-api/internal/models"
)

const timeslotColumns = "id, classroom_id, label, duration_minutes, sort_order, created_at, updated_at"

// TimeslotRepository manages the per-classroom timeslot catalogs.
type TimeslotRepository struct {
	db *sqlx.DB
}

// NewTimeslotRepository constructs a TimeslotRepository.
func NewTimeslotRepository(db *sqlx.DB) *TimeslotRepository {
	return &TimeslotRepository{db: db}
}

// ListByClassroom returns the classroom's catalog in sort order.
func (r *TimeslotRepository) ListByClassroom(ctx context.Context, classroomID string) ([]models.Timeslot, error) {
	query := fmt.Sprintf("SELECT %s FROM timeslots WHERE classroom_id = $1 ORDER BY sort_order ASC", timeslotColumns)
	var slots []models.Timeslot
	if err := r.db.SelectContext(ctx, &slots, query, classroomID); err != nil {
		return nil, fmt.Errorf("list timeslots: %w", err)
	}
	return slots, nil
}

// FindByID fetches a timeslot by ID.
func (r *TimeslotRepository) FindByID(ctx context.Context, id string) (*models.Timeslot, error) {
	query := fmt.Sprintf("SELECT %s FROM timeslots WHERE id = $1", timeslotColumns)
	var slot models.Timeslot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create stores a new timeslot record.
func (r *TimeslotRepository) Create(ctx context.Context, slot *models.Timeslot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now

	const query = `INSERT INTO timeslots (id, classroom_id, label, duration_minutes, sort_order, created_at, updated_at) VALUES (:id, :classroom_id, :label, :duration_minutes, :sort_order, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create timeslot: %w", err)
	}
	return nil
}

// BulkCreate inserts a whole catalog within a transaction so a partially
// seeded classroom never becomes visible.
func (r *TimeslotRepository) BulkCreate(ctx context.Context, slots []models.Timeslot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create timeslots: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i := range slots {
		payload := slots[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		payload.CreatedAt = now
		payload.UpdatedAt = now

		if _, err = sqlx.NamedExecContext(ctx, tx, `INSERT INTO timeslots (id, classroom_id, label, duration_minutes, sort_order, created_at, updated_at) VALUES (:id, :classroom_id, :label, :duration_minutes, :sort_order, :created_at, :updated_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert timeslot: %w", err)
		}
		slots[i] = payload
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create timeslots: %w", err)
	}
	return nil
}

// CountByClassroom returns how many slots the classroom catalog holds.
func (r *TimeslotRepository) CountByClassroom(ctx context.Context, classroomID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM timeslots WHERE classroom_id = $1`, classroomID); err != nil {
		return 0, fmt.Errorf("count timeslots: %w", err)
	}
	return total, nil
}

// Delete removes a timeslot by id.
func (r *TimeslotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timeslots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete timeslot: %w", err)
	}
	return nil
}
