package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ardenlabs/timetable-api/internal/models"
)

func TestWorkloadTrackerCaps(t *testing.T) {
	tracker := newWorkloadTracker([]string{"t1"})
	teacher := models.Teacher{ID: "t1", MaxClassesPerDay: 2, MaxClassesPerWeek: 3}

	assert.True(t, tracker.canAssign(teacher, "MONDAY", 0, 0))

	tracker.record("t1", "MONDAY")
	assert.True(t, tracker.canAssign(teacher, "MONDAY", 0, 0))

	tracker.record("t1", "MONDAY")
	assert.False(t, tracker.canAssign(teacher, "MONDAY", 0, 0), "daily cap reached")
	assert.True(t, tracker.canAssign(teacher, "TUESDAY", 0, 0), "other days still open")

	tracker.record("t1", "TUESDAY")
	assert.False(t, tracker.canAssign(teacher, "WEDNESDAY", 0, 0), "weekly cap reached")
}

func TestWorkloadTrackerPendingLoadCountsTowardCaps(t *testing.T) {
	tracker := newWorkloadTracker([]string{"t1"})
	teacher := models.Teacher{ID: "t1", MaxClassesPerDay: 2, MaxClassesPerWeek: 10}

	tracker.record("t1", "MONDAY")
	assert.True(t, tracker.canAssign(teacher, "MONDAY", 0, 0))
	assert.False(t, tracker.canAssign(teacher, "MONDAY", 1, 1), "pending candidate fills the day")
}

func TestWorkloadTrackerZeroCapMeansUnlimited(t *testing.T) {
	tracker := newWorkloadTracker([]string{"t1"})
	teacher := models.Teacher{ID: "t1"}

	for i := 0; i < 40; i++ {
		assert.True(t, tracker.canAssign(teacher, "MONDAY", 0, 0))
		tracker.record("t1", "MONDAY")
	}
	assert.Equal(t, 40, tracker.dayCount("t1", "MONDAY"))
	assert.Equal(t, 40, tracker.weekCount("t1"))
}

func TestWorkloadTrackerUnknownTeacherStartsAtZero(t *testing.T) {
	tracker := newWorkloadTracker(nil)

	assert.Equal(t, 0, tracker.dayCount("ghost", "MONDAY"))
	assert.Equal(t, 0, tracker.weekCount("ghost"))

	tracker.record("ghost", "MONDAY")
	assert.Equal(t, 1, tracker.dayCount("ghost", "MONDAY"))
}
