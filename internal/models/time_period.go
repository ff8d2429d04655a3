package models

import "time"

// TimePeriod is an atomic schedulable slot on one weekday.
// Break periods are never scheduled.
type TimePeriod struct {
	ID         string    `db:"id" json:"id"`
	DayOfWeek  string    `db:"day_of_week" json:"day_of_week"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    string    `db:"end_time" json:"end_time"`
	OrderIndex int       `db:"order_index" json:"order_index"`
	IsBreak    bool      `db:"is_break" json:"is_break"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// StartHour returns the period start truncated to the hour.
func (p TimePeriod) StartHour() int {
	hour, _ := ClockHour(p.StartTime)
	return hour
}

// EndHour returns the period end truncated to the hour.
func (p TimePeriod) EndHour() int {
	hour, _ := ClockHour(p.EndTime)
	return hour
}

// Label renders the period for exports and conflict messages.
func (p TimePeriod) Label() string {
	return p.DayOfWeek + " " + p.StartTime + "-" + p.EndTime
}

// TimePeriodFilter defines filters for listing time periods.
type TimePeriodFilter struct {
	DayOfWeek     string
	ExcludeBreaks bool
}
