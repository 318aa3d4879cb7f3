package models

import "time"

// Classroom belongs to exactly one year. The lead teacher is administrative
// and independent of per-slot assignments.
type Classroom struct {
	ID            string    `db:"id" json:"id"`
	YearID        string    `db:"year_id" json:"year_id"`
	Name          string    `db:"name" json:"name"`
	LeadTeacherID *string   `db:"lead_teacher_id" json:"lead_teacher_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ClassroomDetail extends Classroom with the lead teacher's name and the
// assignment progress counters the classroom list page renders.
type ClassroomDetail struct {
	Classroom
	LeadTeacherName   *string `db:"lead_teacher_name" json:"lead_teacher_name,omitempty"`
	AssignedTimeslots int     `db:"assigned_timeslots" json:"assigned_timeslots"`
	TotalTimeslots    int     `db:"total_timeslots" json:"total_timeslots"`
}
