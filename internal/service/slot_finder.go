package service

import (
	"sort"

	"github.com/ardenlabs/timetable-api/internal/models"
)

// candidateSlot is one placement proposal: a period, the teacher chosen for
// it, and the room picked at scan time (nil when no room was free).
type candidateSlot struct {
	period    models.TimePeriod
	teacherID string
	roomID    *string
}

// findSlots scans the week's teaching periods in order and collects up to
// needed candidate slots for the given class-subject assignment. The scan is
// strictly first-fit: the first eligible teacher with capacity wins a period
// and no alternative orderings are explored.
func (r *generationRun) findSlots(assignment models.ClassSubjectAssignment, needed int) []candidateSlot {
	eligible := r.catalog.subjectTeachers[assignment.SubjectID]
	if assignment.TeacherID != nil && *assignment.TeacherID != "" {
		// A pinned teacher replaces the eligibility list so the scan's
		// availability and workload checks run against the teacher that
		// will actually be recorded.
		eligible = []string{*assignment.TeacherID}
	}
	if len(eligible) == 0 {
		return nil
	}

	// pending tracks teacher load already claimed by earlier candidates in
	// this scan, since the shared tracker only moves on commit.
	pending := make(map[string]map[string]int)

	slots := make([]candidateSlot, 0, needed)
	for _, period := range r.orderedPeriods() {
		if len(slots) >= needed {
			break
		}

		teacherID := ""
		for _, id := range eligible {
			teacher, ok := r.catalog.teacherByID[id]
			if !ok {
				continue
			}
			if !windowsCover(r.catalog.availability[id], period) {
				continue
			}
			dayCount, weekCount := pendingLoad(pending, id, period.DayOfWeek)
			if !r.workload.canAssign(teacher, period.DayOfWeek, dayCount, weekCount) {
				continue
			}
			teacherID = id
			break
		}
		if teacherID == "" {
			continue
		}

		if pending[teacherID] == nil {
			pending[teacherID] = make(map[string]int)
		}
		pending[teacherID][period.DayOfWeek]++

		slots = append(slots, candidateSlot{
			period:    period,
			teacherID: teacherID,
			roomID:    r.pickRoom(assignment, period),
		})
	}
	return slots
}

func pendingLoad(pending map[string]map[string]int, teacherID, day string) (int, int) {
	days := pending[teacherID]
	week := 0
	for _, n := range days {
		week += n
	}
	return days[day], week
}

// pickRoom returns the assignment's preferred room when it is usable and
// unbooked for the period, otherwise the first free room in catalog order.
func (r *generationRun) pickRoom(assignment models.ClassSubjectAssignment, period models.TimePeriod) *string {
	if assignment.PreferredRoomID != nil && *assignment.PreferredRoomID != "" {
		if room, ok := r.catalog.roomByID[*assignment.PreferredRoomID]; ok && room.IsAvailable && !r.roomBooked(room.ID, period.ID) {
			id := room.ID
			return &id
		}
	}
	for _, room := range r.catalog.rooms {
		if room.IsAvailable && !r.roomBooked(room.ID, period.ID) {
			id := room.ID
			return &id
		}
	}
	return nil
}

func (r *generationRun) roomBooked(roomID, periodID string) bool {
	for _, entry := range r.entries {
		if entry.TimePeriodID == periodID && entry.RoomID != nil && *entry.RoomID == roomID {
			return true
		}
	}
	return false
}

// orderedPeriods returns the week's teaching periods (breaks excluded) in
// scan order. With PrioritizeMorningClasses set, earlier start hours come
// first; otherwise the configured order index decides.
func (r *generationRun) orderedPeriods() []models.TimePeriod {
	periods := make([]models.TimePeriod, 0, len(r.catalog.periods))
	for _, period := range r.catalog.periods {
		if period.IsBreak {
			continue
		}
		periods = append(periods, period)
	}
	if r.opts.PrioritizeMorningClasses {
		sort.SliceStable(periods, func(i, j int) bool {
			if periods[i].StartHour() != periods[j].StartHour() {
				return periods[i].StartHour() < periods[j].StartHour()
			}
			return periods[i].OrderIndex < periods[j].OrderIndex
		})
	} else {
		sort.SliceStable(periods, func(i, j int) bool {
			return periods[i].OrderIndex < periods[j].OrderIndex
		})
	}
	return periods
}
