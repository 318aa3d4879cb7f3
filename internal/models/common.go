package models

// Pagination describes list metadata returned alongside collection payloads.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// Day identifies a teaching day. Sunday is not a school day.
type Day string

const (
	DayMonday    Day = "MONDAY"
	DayTuesday   Day = "TUESDAY"
	DayWednesday Day = "WEDNESDAY"
	DayThursday  Day = "THURSDAY"
	DayFriday    Day = "FRIDAY"
	DaySaturday  Day = "SATURDAY"
)

// Days lists the recognised teaching days in week order.
var Days = []Day{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday}

// Valid reports whether the day is one of the six recognised values.
func (d Day) Valid() bool {
	switch d {
	case DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday:
		return true
	}
	return false
}
