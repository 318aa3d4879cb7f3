package models

import "time"

// ClassDuration is the length of a single teaching period within a year.
type ClassDuration string

const (
	ClassDurationOneHour     ClassDuration = "1_hour"
	ClassDurationOneHourHalf ClassDuration = "1_5_hour"
)

// Minutes returns the period length in minutes.
func (d ClassDuration) Minutes() int {
	if d == ClassDurationOneHourHalf {
		return 90
	}
	return 60
}

// Valid reports whether the duration is a recognised value.
func (d ClassDuration) Valid() bool {
	return d == ClassDurationOneHour || d == ClassDurationOneHourHalf
}

// Year models an academic year. Classrooms, timeslots and assignments are
// scoped to exactly one year; conflicts are never compared across years.
type Year struct {
	ID            string        `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	ClassDuration ClassDuration `db:"class_duration" json:"class_duration"`
	IsActive      bool          `db:"is_active" json:"is_active"`
	StartDateKh   string        `db:"start_date_kh" json:"start_date_kh"`
	StartDateEng  string        `db:"start_date_eng" json:"start_date_eng"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// YearFilter defines filters supported by list endpoints.
type YearFilter struct {
	IsActive  *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
