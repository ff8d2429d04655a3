package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardenlabs/timetable-api/internal/dto"
	"github.com/ardenlabs/timetable-api/internal/models"
)

func strptr(s string) *string { return &s }

func TestDetectConflicts(t *testing.T) {
	committed := []models.TimetableEntry{
		{ClassID: "c1", SubjectID: "math", TeacherID: "t1", RoomID: strptr("r1"), TimePeriodID: "p1"},
	}

	tests := []struct {
		name      string
		candidate models.TimetableEntry
		want      conflictReport
	}{
		{
			name:      "different period is clean",
			candidate: models.TimetableEntry{ClassID: "c1", TeacherID: "t1", RoomID: strptr("r1"), TimePeriodID: "p2"},
			want:      conflictReport{},
		},
		{
			name:      "same teacher same period",
			candidate: models.TimetableEntry{ClassID: "c2", TeacherID: "t1", RoomID: strptr("r2"), TimePeriodID: "p1"},
			want:      conflictReport{teacher: true},
		},
		{
			name:      "same class same period",
			candidate: models.TimetableEntry{ClassID: "c1", TeacherID: "t2", RoomID: strptr("r2"), TimePeriodID: "p1"},
			want:      conflictReport{class: true},
		},
		{
			name:      "same room same period",
			candidate: models.TimetableEntry{ClassID: "c2", TeacherID: "t2", RoomID: strptr("r1"), TimePeriodID: "p1"},
			want:      conflictReport{room: true},
		},
		{
			name:      "nil candidate room never collides",
			candidate: models.TimetableEntry{ClassID: "c2", TeacherID: "t2", TimePeriodID: "p1"},
			want:      conflictReport{},
		},
		{
			name:      "all three dimensions at once",
			candidate: models.TimetableEntry{ClassID: "c1", TeacherID: "t1", RoomID: strptr("r1"), TimePeriodID: "p1"},
			want:      conflictReport{teacher: true, room: true, class: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := detectConflicts(tc.candidate, committed)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want.teacher || tc.want.room || tc.want.class, got.any())
		})
	}
}

func TestResolveConflictSubstituteTeacher(t *testing.T) {
	run := newConflictRunFixture()
	run.entries = []models.TimetableEntry{
		{ClassID: "c1", SubjectID: "math", TeacherID: "t1", RoomID: strptr("r1"), TimePeriodID: "p1"},
	}

	entry := models.TimetableEntry{ClassID: "c2", SubjectID: "math", TeacherID: "t1", RoomID: strptr("r2"), TimePeriodID: "p1"}
	repaired, ok := run.resolveConflict(entry, "t1")
	require.True(t, ok)
	assert.Equal(t, "t2", repaired.TeacherID)
	assert.Equal(t, entry.ClassID, repaired.ClassID)
	assert.Equal(t, entry.RoomID, repaired.RoomID)
}

func TestResolveConflictSkipsTriedTeacher(t *testing.T) {
	run := newConflictRunFixture()
	run.entries = []models.TimetableEntry{
		{ClassID: "c1", SubjectID: "math", TeacherID: "t1", RoomID: strptr("r1"), TimePeriodID: "p1"},
	}

	// t2 was already tried by the scanner; with no third teacher there is no
	// teacher substitution and the room pass cannot clear a teacher conflict.
	entry := models.TimetableEntry{ClassID: "c2", SubjectID: "math", TeacherID: "t1", TimePeriodID: "p1"}
	_, ok := run.resolveConflict(entry, "t2")
	assert.False(t, ok)
}

func TestResolveConflictSubstituteRespectsAvailability(t *testing.T) {
	run := newConflictRunFixture()
	run.catalog.availability["t2"] = models.WeeklyAvailability{
		"FRIDAY": {{Start: "08:00", End: "16:00"}},
	}
	run.entries = []models.TimetableEntry{
		{ClassID: "c1", SubjectID: "math", TeacherID: "t1", RoomID: strptr("r1"), TimePeriodID: "p1"},
	}

	entry := models.TimetableEntry{ClassID: "c2", SubjectID: "math", TeacherID: "t1", TimePeriodID: "p1"}
	_, ok := run.resolveConflict(entry, "")
	assert.False(t, ok, "unavailable substitute must not be used")
}

func TestResolveConflictSubstituteRoom(t *testing.T) {
	run := newConflictRunFixture()
	// Only one qualified teacher, so repair must come from the room pass.
	run.catalog.subjectTeachers["math"] = []string{"t1"}
	run.entries = []models.TimetableEntry{
		{ClassID: "c1", SubjectID: "sci", TeacherID: "t2", RoomID: strptr("r1"), TimePeriodID: "p1"},
	}

	entry := models.TimetableEntry{ClassID: "c2", SubjectID: "math", TeacherID: "t1", RoomID: strptr("r1"), TimePeriodID: "p1"}
	repaired, ok := run.resolveConflict(entry, "t1")
	require.True(t, ok)
	require.NotNil(t, repaired.RoomID)
	assert.Equal(t, "r2", *repaired.RoomID)
	assert.Equal(t, "t1", repaired.TeacherID)
}

func TestResolveConflictUnknownPeriod(t *testing.T) {
	run := newConflictRunFixture()

	entry := models.TimetableEntry{ClassID: "c1", SubjectID: "math", TeacherID: "t1", TimePeriodID: "ghost"}
	_, ok := run.resolveConflict(entry, "")
	assert.False(t, ok)
}

func newConflictRunFixture() *generationRun {
	period := models.TimePeriod{ID: "p1", DayOfWeek: "MONDAY", StartTime: "08:00", EndTime: "09:00", OrderIndex: 1}
	cat := &catalog{
		teacherByID: map[string]models.Teacher{
			"t1": {ID: "t1"},
			"t2": {ID: "t2"},
		},
		availability: map[string]models.WeeklyAvailability{},
		teacherOrder: []string{"t1", "t2"},
		rooms: []models.Room{
			{ID: "r1", Name: "R1", IsAvailable: true},
			{ID: "r2", Name: "R2", IsAvailable: true},
		},
		roomByID: map[string]models.Room{
			"r1": {ID: "r1", IsAvailable: true},
			"r2": {ID: "r2", IsAvailable: true},
		},
		periods:    []models.TimePeriod{period},
		periodByID: map[string]models.TimePeriod{"p1": period},
		subjectTeachers: map[string][]string{
			"math": {"t1", "t2"},
		},
	}
	return newGenerationRun(cat, dto.GenerateOptions{})
}
