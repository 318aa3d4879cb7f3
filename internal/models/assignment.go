package models

import "time"

// AssignmentAction is the mutation requested for a grid cell.
type AssignmentAction string

const (
	ActionAssign AssignmentAction = "ASSIGN"
	ActionRemove AssignmentAction = "REMOVE"
)

// Valid reports whether the action is recognised.
func (a AssignmentAction) Valid() bool {
	return a == ActionAssign || a == ActionRemove
}

// Assignment binds a teacher (or nobody) to one classroom/timeslot/day cell.
// A NULL teacher id means the cell is unassigned; the row is kept so that
// overwrites can report the previous occupant.
type Assignment struct {
	ID          string    `db:"id" json:"id"`
	YearID      string    `db:"year_id" json:"year_id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	TimeslotID  string    `db:"timeslot_id" json:"timeslot_id"`
	Day         Day       `db:"day" json:"day"`
	TeacherID   *string   `db:"teacher_id" json:"teacher_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AssignmentDetail enriches an assignment with slot and teacher context for
// conflict reporting and exports.
type AssignmentDetail struct {
	Assignment
	SortOrder     int     `db:"sort_order" json:"sort_order"`
	TimeslotLabel string  `db:"timeslot_label" json:"timeslot_label"`
	ClassroomName string  `db:"classroom_name" json:"classroom_name"`
	TeacherName   *string `db:"teacher_name" json:"teacher_name,omitempty"`
}

// AssignmentConflict identifies the booking that blocks a proposed one.
type AssignmentConflict struct {
	TeacherID              string `json:"teacher_id"`
	Day                    Day    `json:"day"`
	ConflictingClassroomID string `json:"conflicting_classroom_id"`
	ConflictingTimeslotID  string `json:"conflicting_timeslot_id"`
}

// AssignmentConflictError is returned when a teacher is already booked in the
// same slot family on the same day elsewhere in the year.
type AssignmentConflictError struct {
	Message  string             `json:"message"`
	Conflict AssignmentConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *AssignmentConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// GridCell is one cell of the weekly grid keyed by timeslot and day.
type GridCell struct {
	TimeslotID  string  `db:"timeslot_id" json:"timeslot_id"`
	Day         Day     `db:"day" json:"day"`
	TeacherID   *string `db:"teacher_id" json:"teacher_id"`
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
}

// Grid is the point-in-time weekly view of one classroom: the ordered slot
// catalog plus every populated cell.
type Grid struct {
	YearID      string     `json:"year_id"`
	ClassroomID string     `json:"classroom_id"`
	Timeslots   []Timeslot `json:"timeslots"`
	Days        []Day      `json:"days"`
	Cells       []GridCell `json:"cells"`
}

// CellResult is the canonical cell state returned after a successful
// assignment mutation, including the occupant it replaced.
type CellResult struct {
	ClassroomID       string  `json:"classroom_id"`
	TimeslotID        string  `json:"timeslot_id"`
	Day               Day     `json:"day"`
	TeacherID         *string `json:"teacher_id"`
	PreviousTeacherID *string `json:"previous_teacher_id"`
}
