package models

import "time"

// Teacher represents an instructor record. The scheduling engine only relies
// on the identity fields; the rest is administrative metadata shown in the
// directory pages.
type Teacher struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Gender      *string   `db:"gender" json:"gender,omitempty"`
	DOB         *string   `db:"dob" json:"dob,omitempty"`
	Subject     *string   `db:"subject" json:"subject,omitempty"`
	Profession1 *string   `db:"profession1" json:"profession1,omitempty"`
	Profession2 *string   `db:"profession2" json:"profession2,omitempty"`
	Krobkan     *string   `db:"krobkan" json:"krobkan,omitempty"`
	Rank        *string   `db:"rank" json:"rank,omitempty"`
	Phone       string    `db:"phone" json:"phone"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherSummary is the compact shape served to picker components.
type TeacherSummary struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Code string `db:"code" json:"code"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
