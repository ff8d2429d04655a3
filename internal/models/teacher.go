package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TimeWindow is one available teaching window on a day, "HH:MM" bounds.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// StartHour returns the window start truncated to the hour.
func (w TimeWindow) StartHour() int {
	hour, _ := ClockHour(w.Start)
	return hour
}

// EndHour returns the window end truncated to the hour.
func (w TimeWindow) EndHour() int {
	hour, _ := ClockHour(w.End)
	return hour
}

// Validate checks window bounds parse and are ordered.
func (w TimeWindow) Validate() error {
	start, err := ClockHour(w.Start)
	if err != nil {
		return fmt.Errorf("window start %q: %w", w.Start, err)
	}
	end, err := ClockHour(w.End)
	if err != nil {
		return fmt.Errorf("window end %q: %w", w.End, err)
	}
	if end <= start {
		return fmt.Errorf("window %s-%s must end after it starts", w.Start, w.End)
	}
	return nil
}

// WeeklyAvailability maps weekday names to ordered available windows.
// A nil or empty map means the teacher is fully available.
type WeeklyAvailability map[string][]TimeWindow

// Validate checks day keys and every window.
func (a WeeklyAvailability) Validate() error {
	for day, windows := range a {
		if !IsWeekday(day) {
			return fmt.Errorf("unknown availability day %q", day)
		}
		for _, window := range windows {
			if err := window.Validate(); err != nil {
				return fmt.Errorf("%s: %w", day, err)
			}
		}
	}
	return nil
}

// ParseWeeklyAvailability decodes and validates an availability JSON column.
// Empty payloads yield a nil map (fully available).
func ParseWeeklyAvailability(raw types.JSONText) (WeeklyAvailability, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var availability WeeklyAvailability
	if err := json.Unmarshal(raw, &availability); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	normalized := make(WeeklyAvailability, len(availability))
	for day, windows := range availability {
		normalized[strings.ToUpper(strings.TrimSpace(day))] = windows
	}
	if err := normalized.Validate(); err != nil {
		return nil, err
	}
	return normalized, nil
}

// ClockHour parses "HH:MM" and returns the hour component.
func ClockHour(raw string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour %d out of range", hour)
	}
	return hour, nil
}

// Teacher represents an instructor with workload caps and weekly availability.
type Teacher struct {
	ID                string         `db:"id" json:"id"`
	FullName          string         `db:"full_name" json:"full_name"`
	Email             string         `db:"email" json:"email"`
	MaxClassesPerDay  int            `db:"max_classes_per_day" json:"max_classes_per_day"`
	MaxClassesPerWeek int            `db:"max_classes_per_week" json:"max_classes_per_week"`
	Availability      types.JSONText `db:"availability" json:"availability,omitempty"`
	Active            bool           `db:"active" json:"active"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
