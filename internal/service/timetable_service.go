package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sala-api/internal/models"
	appErrors "github.com/noah-isme/sala-api/pkg/errors"
)

type gridStore interface {
	GetGrid(ctx context.Context, classroomID string) ([]models.GridCell, error)
}

type timeslotLister interface {
	ListByClassroom(ctx context.Context, classroomID string) ([]models.Timeslot, error)
}

type gridCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// TimetableService serves weekly grid snapshots with a Redis read-through
// cache, invalidated on every successful cell write.
type TimetableService struct {
	store      gridStore
	timeslots  timeslotLister
	classrooms classroomReader
	cache      gridCache
	cacheTTL   time.Duration
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewTimetableService instantiates TimetableService.
func NewTimetableService(store gridStore, timeslots timeslotLister, classrooms classroomReader, cache gridCache, cacheTTL time.Duration, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &TimetableService{
		store:      store,
		timeslots:  timeslots,
		classrooms: classrooms,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// WithMetrics attaches cache hit/miss instrumentation.
func (s *TimetableService) WithMetrics(metrics *MetricsService) *TimetableService {
	s.metrics = metrics
	return s
}

func gridCacheKey(classroomID string) string {
	return "timetable:" + classroomID
}

// GetGrid returns the full weekly grid of a classroom: the ordered timeslot
// catalog, the six teaching days, and every populated cell.
func (s *TimetableService) GetGrid(ctx context.Context, yearID, classroomID string) (*models.Grid, error) {
	classroom, err := s.classrooms.FindByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	if classroom.YearID != yearID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found in year")
	}

	if s.cache != nil {
		var cached models.Grid
		if err := s.cache.Get(ctx, gridCacheKey(classroomID), &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("grid cache read failed", zap.String("classroom_id", classroomID), zap.Error(err))
		} else {
			s.metrics.RecordCacheLookup(false)
		}
	}

	slots, err := readTwice(func() ([]models.Timeslot, error) {
		return s.timeslots.ListByClassroom(ctx, classroomID)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeslots")
	}

	cells, err := readTwice(func() ([]models.GridCell, error) {
		return s.store.GetGrid(ctx, classroomID)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grid")
	}

	grid := &models.Grid{
		YearID:      yearID,
		ClassroomID: classroomID,
		Timeslots:   slots,
		Days:        models.Days,
		Cells:       cells,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, gridCacheKey(classroomID), grid, s.cacheTTL); err != nil {
			s.logger.Warn("grid cache write failed", zap.String("classroom_id", classroomID), zap.Error(err))
		}
	}

	return grid, nil
}

// Invalidate drops the cached grid of one classroom.
func (s *TimetableService) Invalidate(ctx context.Context, classroomID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteByPattern(ctx, gridCacheKey(classroomID))
}

// readTwice retries a read once. Grid reads are idempotent, so a second
// attempt on a transient store hiccup is safe.
func readTwice[T any](read func() ([]T, error)) ([]T, error) {
	result, err := read()
	if err == nil {
		return result, nil
	}
	return read()
}
