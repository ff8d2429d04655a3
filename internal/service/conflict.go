package service

import "github.com/ardenlabs/timetable-api/internal/models"

// conflictReport flags the double-booking dimensions a candidate entry would
// violate against the committed entries of a run.
type conflictReport struct {
	teacher bool
	room    bool
	class   bool
}

func (c conflictReport) any() bool {
	return c.teacher || c.room || c.class
}

// detectConflicts checks a candidate against every committed entry sharing
// its period. It is a pure function over the candidate and the committed set.
func detectConflicts(candidate models.TimetableEntry, committed []models.TimetableEntry) conflictReport {
	var report conflictReport
	for _, entry := range committed {
		if entry.TimePeriodID != candidate.TimePeriodID {
			continue
		}
		if entry.TeacherID == candidate.TeacherID {
			report.teacher = true
		}
		if entry.ClassID == candidate.ClassID {
			report.class = true
		}
		if entry.RoomID != nil && candidate.RoomID != nil && *entry.RoomID == *candidate.RoomID {
			report.room = true
		}
	}
	return report
}

// resolveConflict tries one round of local repair on a rejected candidate:
// first a substitute teacher qualified for the subject and free this period,
// then, failing that, a substitute room. Substitute teachers are not checked
// against workload caps. The boolean is false when no substitution exists.
func (r *generationRun) resolveConflict(entry models.TimetableEntry, triedTeacherID string) (models.TimetableEntry, bool) {
	period, ok := r.catalog.periodByID[entry.TimePeriodID]
	if !ok {
		return models.TimetableEntry{}, false
	}

	for _, id := range r.catalog.subjectTeachers[entry.SubjectID] {
		if id == entry.TeacherID || id == triedTeacherID {
			continue
		}
		if _, ok := r.catalog.teacherByID[id]; !ok {
			continue
		}
		if !windowsCover(r.catalog.availability[id], period) {
			continue
		}
		candidate := entry
		candidate.TeacherID = id
		report := detectConflicts(candidate, r.entries)
		if !report.teacher && !report.class {
			return candidate, true
		}
	}

	if entry.RoomID != nil {
		for _, room := range r.catalog.rooms {
			if !room.IsAvailable || room.ID == *entry.RoomID {
				continue
			}
			candidate := entry
			id := room.ID
			candidate.RoomID = &id
			if !detectConflicts(candidate, r.entries).room {
				return candidate, true
			}
		}
	}

	return models.TimetableEntry{}, false
}
