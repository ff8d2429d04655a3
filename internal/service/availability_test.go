package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ardenlabs/timetable-api/internal/models"
)

func TestWindowsCover(t *testing.T) {
	period := models.TimePeriod{DayOfWeek: "MONDAY", StartTime: "09:00", EndTime: "10:00"}

	tests := []struct {
		name         string
		availability models.WeeklyAvailability
		want         bool
	}{
		{
			name:         "nil availability means always available",
			availability: nil,
			want:         true,
		},
		{
			name:         "empty availability means always available",
			availability: models.WeeklyAvailability{},
			want:         true,
		},
		{
			name: "window spanning the period",
			availability: models.WeeklyAvailability{
				"MONDAY": {{Start: "08:00", End: "12:00"}},
			},
			want: true,
		},
		{
			name: "window matching the period exactly",
			availability: models.WeeklyAvailability{
				"MONDAY": {{Start: "09:00", End: "10:00"}},
			},
			want: true,
		},
		{
			name: "window ending mid-period",
			availability: models.WeeklyAvailability{
				"MONDAY": {{Start: "08:00", End: "09:00"}},
			},
			want: false,
		},
		{
			name: "window starting mid-period",
			availability: models.WeeklyAvailability{
				"MONDAY": {{Start: "10:00", End: "12:00"}},
			},
			want: false,
		},
		{
			name: "day present in data but period day missing",
			availability: models.WeeklyAvailability{
				"TUESDAY": {{Start: "08:00", End: "16:00"}},
			},
			want: false,
		},
		{
			name: "second window covers after first misses",
			availability: models.WeeklyAvailability{
				"MONDAY": {{Start: "07:00", End: "08:00"}, {Start: "09:00", End: "11:00"}},
			},
			want: true,
		},
		{
			name: "day present with no windows",
			availability: models.WeeklyAvailability{
				"MONDAY": {},
			},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, windowsCover(tc.availability, period))
		})
	}
}
