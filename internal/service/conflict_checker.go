package service

import (
	"context"
	"fmt"

	"github.com/noah-isme/sala-api/internal/models"
	appErrors "github.com/noah-isme/sala-api/pkg/errors"
)

type teacherBookingsReader interface {
	FindTeacherBookings(ctx context.Context, yearID, teacherID string, day models.Day, sortOrder int) ([]models.AssignmentDetail, error)
}

// ConflictChecker decides whether a proposed assignment would double-book the
// teacher within the year. Slots sharing a sort order across classrooms are
// treated as the same time of day.
type ConflictChecker struct {
	bookings teacherBookingsReader
}

// NewConflictChecker constructs a ConflictChecker.
func NewConflictChecker(bookings teacherBookingsReader) *ConflictChecker {
	return &ConflictChecker{bookings: bookings}
}

// Check returns the blocking booking, or nil when the teacher is free. The
// cell being overwritten is excluded so reassigning a teacher to their own
// cell is never a conflict. When several bookings exist the one with the
// lowest classroom id is reported.
func (c *ConflictChecker) Check(ctx context.Context, yearID, teacherID string, day models.Day, sortOrder int, targetClassroomID, targetTimeslotID string) (*models.AssignmentConflict, error) {
	existing, err := c.bookings.FindTeacherBookings(ctx, yearID, teacherID, day, sortOrder)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment conflicts")
	}

	for _, booking := range existing {
		if booking.ClassroomID == targetClassroomID && booking.TimeslotID == targetTimeslotID {
			continue
		}
		return &models.AssignmentConflict{
			TeacherID:              teacherID,
			Day:                    day,
			ConflictingClassroomID: booking.ClassroomID,
			ConflictingTimeslotID:  booking.TimeslotID,
		}, nil
	}
	return nil, nil
}

func wrapAssignmentConflict(conflict models.AssignmentConflict) error {
	detail := &models.AssignmentConflictError{
		Message:  fmt.Sprintf("teacher already booked in classroom %s on %s", conflict.ConflictingClassroomID, conflict.Day),
		Conflict: conflict,
	}
	return appErrors.Wrap(detail, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "assignment conflict detected")
}
