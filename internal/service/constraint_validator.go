package service

import "github.com/ardenlabs/timetable-api/internal/models"

// entryValid gates a candidate entry through the active scheduling
// constraints. Active hard constraints block every entry they apply to when
// enforcement is on; soft constraints are acknowledged but never block.
// Constraint applicability is decided by scope and target alone.
func (r *generationRun) entryValid(entry models.TimetableEntry) bool {
	if !r.opts.EnforceHardConstraints && !r.opts.RespectSoftConstraints {
		return true
	}
	for _, spec := range r.catalog.constraints {
		if spec.Type == models.ConstraintSoft && !r.opts.RespectSoftConstraints {
			continue
		}
		if !constraintApplies(spec.Constraint, entry) {
			continue
		}
		if spec.Type == models.ConstraintHard && r.opts.EnforceHardConstraints {
			return false
		}
	}
	return true
}

// constraintApplies matches a constraint's scope and target against an
// entry. A scoped constraint without a target applies to every entry in
// that scope.
func constraintApplies(constraint models.Constraint, entry models.TimetableEntry) bool {
	if constraint.Scope == models.ScopeGlobal {
		return true
	}
	if constraint.TargetID == nil || *constraint.TargetID == "" {
		return true
	}
	target := *constraint.TargetID
	switch constraint.Scope {
	case models.ScopeTeacher:
		return entry.TeacherID == target
	case models.ScopeClass:
		return entry.ClassID == target
	case models.ScopeSubject:
		return entry.SubjectID == target
	case models.ScopeRoom:
		return entry.RoomID != nil && *entry.RoomID == target
	default:
		return false
	}
}
