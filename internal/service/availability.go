package service

import "github.com/ardenlabs/timetable-api/internal/models"

// windowsCover reports whether the availability map permits teaching during
// the given period. Availability is hour-granular: a period fits only when a
// single declared window spans it entirely. Teachers with no availability
// data at all are treated as always available; teachers with data but no
// windows on the period's day are not.
func windowsCover(availability models.WeeklyAvailability, period models.TimePeriod) bool {
	if len(availability) == 0 {
		return true
	}
	windows, ok := availability[period.DayOfWeek]
	if !ok {
		return false
	}
	start, end := period.StartHour(), period.EndHour()
	for _, window := range windows {
		if window.StartHour() <= start && window.EndHour() >= end {
			return true
		}
	}
	return false
}
