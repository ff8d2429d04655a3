package service

import "github.com/ardenlabs/timetable-api/internal/models"

// workloadTracker counts committed periods per teacher, per day and per week.
// Counters start at zero for every catalog teacher and only successful
// commits move them.
type workloadTracker struct {
	perDay  map[string]map[string]int
	perWeek map[string]int
}

func newWorkloadTracker(teacherIDs []string) *workloadTracker {
	t := &workloadTracker{
		perDay:  make(map[string]map[string]int, len(teacherIDs)),
		perWeek: make(map[string]int, len(teacherIDs)),
	}
	for _, id := range teacherIDs {
		t.perDay[id] = make(map[string]int)
		t.perWeek[id] = 0
	}
	return t
}

// canAssign reports whether one more period on the given day keeps the
// teacher under both caps. pendingDay and pendingWeek add load claimed by
// not-yet-committed candidates in the current scan. A cap of zero or less
// means unlimited.
func (t *workloadTracker) canAssign(teacher models.Teacher, day string, pendingDay, pendingWeek int) bool {
	if teacher.MaxClassesPerDay > 0 && t.perDay[teacher.ID][day]+pendingDay >= teacher.MaxClassesPerDay {
		return false
	}
	if teacher.MaxClassesPerWeek > 0 && t.perWeek[teacher.ID]+pendingWeek >= teacher.MaxClassesPerWeek {
		return false
	}
	return true
}

func (t *workloadTracker) record(teacherID, day string) {
	if t.perDay[teacherID] == nil {
		t.perDay[teacherID] = make(map[string]int)
	}
	t.perDay[teacherID][day]++
	t.perWeek[teacherID]++
}

func (t *workloadTracker) dayCount(teacherID, day string) int {
	return t.perDay[teacherID][day]
}

func (t *workloadTracker) weekCount(teacherID string) int {
	return t.perWeek[teacherID]
}
