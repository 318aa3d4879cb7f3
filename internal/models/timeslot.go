package models

import "time"

// Timeslot is one teaching period in a classroom's ordered catalog.
//
// Slots with the same sort order across classrooms of a year are considered
// time-equivalent: they form the slot family conflict checking operates on.
type Timeslot struct {
	ID              string    `db:"id" json:"id"`
	ClassroomID     string    `db:"classroom_id" json:"classroom_id"`
	Label           string    `db:"label" json:"label"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	SortOrder       int       `db:"sort_order" json:"sort_order"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
