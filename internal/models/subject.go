package models

import "time"

// Subject represents an academic subject with a weekly hour requirement.
type Subject struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	WeeklyHours int       `db:"weekly_hours" json:"weekly_hours"`
	RequiresLab bool      `db:"requires_lab" json:"requires_lab"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
