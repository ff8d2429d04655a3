package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ardenlabs/timetable-api/internal/dto"
	"github.com/ardenlabs/timetable-api/internal/models"
)

type generatorClassReader interface {
	All(ctx context.Context) ([]models.Class, error)
}

type generatorSubjectReader interface {
	All(ctx context.Context) ([]models.Subject, error)
}

type generatorTeacherReader interface {
	All(ctx context.Context) ([]models.Teacher, error)
}

type generatorRoomReader interface {
	All(ctx context.Context) ([]models.Room, error)
}

type generatorPeriodReader interface {
	All(ctx context.Context) ([]models.TimePeriod, error)
}

type generatorAssignmentReader interface {
	AllClassSubjects(ctx context.Context) ([]models.ClassSubjectAssignment, error)
	AllTeacherSubjects(ctx context.Context) ([]models.TeacherSubjectAssignment, error)
}

type generatorConstraintReader interface {
	AllActive(ctx context.Context) ([]models.Constraint, error)
}

// TimetableGeneratorService builds a weekly timetable from the catalog using
// a deterministic greedy assignment with best-effort local conflict repair.
// It never persists anything; callers own the returned entries.
type TimetableGeneratorService struct {
	classes     generatorClassReader
	subjects    generatorSubjectReader
	teachers    generatorTeacherReader
	rooms       generatorRoomReader
	periods     generatorPeriodReader
	assignments generatorAssignmentReader
	constraints generatorConstraintReader
	// maxAssignments aborts runs over this many class-subject pairings;
	// zero or negative means unbounded.
	maxAssignments int
	logger         *zap.Logger
}

// NewTimetableGeneratorService wires generator dependencies.
func NewTimetableGeneratorService(
	classes generatorClassReader,
	subjects generatorSubjectReader,
	teachers generatorTeacherReader,
	rooms generatorRoomReader,
	periods generatorPeriodReader,
	assignments generatorAssignmentReader,
	constraints generatorConstraintReader,
	maxAssignments int,
	logger *zap.Logger,
) *TimetableGeneratorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableGeneratorService{
		classes:        classes,
		subjects:       subjects,
		teachers:       teachers,
		rooms:          rooms,
		periods:        periods,
		assignments:    assignments,
		constraints:    constraints,
		maxAssignments: maxAssignments,
		logger:         logger,
	}
}

// Generate runs one generation pass over a fresh catalog snapshot. Every call
// operates on its own run state so concurrent invocations never share entries
// or workload counters. Failures are reported on the result rather than as an
// error so callers receive the collected diagnostics either way.
func (s *TimetableGeneratorService) Generate(ctx context.Context, opts dto.GenerateOptions) *dto.GenerationResult {
	result := &dto.GenerationResult{
		RunID:     uuid.NewString(),
		Entries:   []models.TimetableEntry{},
		Conflicts: []string{},
	}

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		s.logger.Error("catalog load failed", zap.String("run_id", result.RunID), zap.Error(err))
		result.Errors = []string{err.Error()}
		return result
	}

	if len(cat.classSubjects) == 0 {
		result.Errors = []string{"no class-subject assignments defined; nothing to schedule"}
		return result
	}
	if s.maxAssignments > 0 && len(cat.classSubjects) > s.maxAssignments {
		result.Errors = []string{fmt.Sprintf("%d class-subject assignments exceed the configured maximum of %d",
			len(cat.classSubjects), s.maxAssignments)}
		return result
	}

	if opts.OptimizeTeacherWorkload || opts.MinimizeRoomChanges {
		s.logger.Debug("workload/room ranking options accepted but not applied",
			zap.Bool("optimize_teacher_workload", opts.OptimizeTeacherWorkload),
			zap.Bool("minimize_room_changes", opts.MinimizeRoomChanges))
	}

	run := newGenerationRun(cat, opts)
	for _, assignment := range cat.classSubjects {
		run.processAssignment(assignment)
	}

	result.Success = true
	result.Entries = run.entries
	result.Conflicts = run.conflicts
	result.Stats = dto.GenerationStats{
		TotalClasses:      len(cat.classes),
		TotalEntries:      len(run.entries),
		ConflictsResolved: run.resolved,
	}

	s.logger.Info("timetable generated",
		zap.String("run_id", result.RunID),
		zap.Int("entries", len(run.entries)),
		zap.Int("conflicts", len(run.conflicts)),
		zap.Int("resolved", run.resolved))
	return result
}

// constraintSpec pairs a constraint with its decoded rule payload.
type constraintSpec struct {
	models.Constraint
	rule models.ConstraintRule
}

// catalog is the immutable snapshot one run operates on.
type catalog struct {
	classes         []models.Class
	classByID       map[string]models.Class
	subjectByID     map[string]models.Subject
	teacherByID     map[string]models.Teacher
	availability    map[string]models.WeeklyAvailability
	teacherOrder    []string
	rooms           []models.Room
	roomByID        map[string]models.Room
	periods         []models.TimePeriod
	periodByID      map[string]models.TimePeriod
	classSubjects   []models.ClassSubjectAssignment
	subjectTeachers map[string][]string
	constraints     []constraintSpec
}

func (s *TimetableGeneratorService) loadCatalog(ctx context.Context) (*catalog, error) {
	classes, err := s.classes.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load classes: %w", err)
	}
	subjects, err := s.subjects.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	teachers, err := s.teachers.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load teachers: %w", err)
	}
	rooms, err := s.rooms.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	periods, err := s.periods.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load time periods: %w", err)
	}
	classSubjects, err := s.assignments.AllClassSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("load class-subject assignments: %w", err)
	}
	teacherSubjects, err := s.assignments.AllTeacherSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("load teacher-subject assignments: %w", err)
	}
	constraints, err := s.constraints.AllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load constraints: %w", err)
	}

	cat := &catalog{
		classes:         classes,
		classByID:       make(map[string]models.Class, len(classes)),
		subjectByID:     make(map[string]models.Subject, len(subjects)),
		teacherByID:     make(map[string]models.Teacher, len(teachers)),
		availability:    make(map[string]models.WeeklyAvailability, len(teachers)),
		teacherOrder:    make([]string, 0, len(teachers)),
		rooms:           rooms,
		roomByID:        make(map[string]models.Room, len(rooms)),
		periods:         periods,
		periodByID:      make(map[string]models.TimePeriod, len(periods)),
		classSubjects:   classSubjects,
		subjectTeachers: make(map[string][]string),
	}
	for _, class := range classes {
		cat.classByID[class.ID] = class
	}
	for _, subject := range subjects {
		cat.subjectByID[subject.ID] = subject
	}
	for _, teacher := range teachers {
		cat.teacherByID[teacher.ID] = teacher
		cat.teacherOrder = append(cat.teacherOrder, teacher.ID)
		availability, err := models.ParseWeeklyAvailability(teacher.Availability)
		if err != nil {
			return nil, fmt.Errorf("teacher %s availability: %w", teacher.ID, err)
		}
		cat.availability[teacher.ID] = availability
	}
	for _, room := range rooms {
		cat.roomByID[room.ID] = room
	}
	for _, period := range periods {
		cat.periodByID[period.ID] = period
	}
	for _, assignment := range teacherSubjects {
		cat.subjectTeachers[assignment.SubjectID] = append(cat.subjectTeachers[assignment.SubjectID], assignment.TeacherID)
	}
	for _, constraint := range constraints {
		rule, err := models.ParseConstraintRule(constraint.Rule)
		if err != nil {
			return nil, fmt.Errorf("constraint %s rule: %w", constraint.ID, err)
		}
		cat.constraints = append(cat.constraints, constraintSpec{Constraint: constraint, rule: rule})
	}
	return cat, nil
}

// generationRun holds all mutable state of one run. It is created fresh per
// Generate call and discarded with it.
type generationRun struct {
	catalog   *catalog
	opts      dto.GenerateOptions
	entries   []models.TimetableEntry
	workload  *workloadTracker
	conflicts []string
	resolved  int
}

func newGenerationRun(cat *catalog, opts dto.GenerateOptions) *generationRun {
	return &generationRun{
		catalog:   cat,
		opts:      opts,
		entries:   []models.TimetableEntry{},
		workload:  newWorkloadTracker(cat.teacherOrder),
		conflicts: []string{},
	}
}

// processAssignment schedules up to subject.WeeklyHours periods for one
// class-subject pairing. Failures are recorded as conflict messages; the run
// always continues with the next assignment.
func (r *generationRun) processAssignment(assignment models.ClassSubjectAssignment) {
	subject, ok := r.catalog.subjectByID[assignment.SubjectID]
	if !ok {
		r.conflicts = append(r.conflicts, fmt.Sprintf("unknown subject %s for class %s", assignment.SubjectID, r.className(assignment.ClassID)))
		return
	}

	needed := subject.WeeklyHours
	if needed <= 0 {
		return
	}

	slots := r.findSlots(assignment, needed)
	if len(slots) < needed {
		r.conflicts = append(r.conflicts, fmt.Sprintf("%s for %s: only %d of %d weekly periods could be placed",
			subject.Name, r.className(assignment.ClassID), len(slots), needed))
	}

	for _, slot := range slots {
		entry := models.TimetableEntry{
			ClassID:      assignment.ClassID,
			SubjectID:    assignment.SubjectID,
			TeacherID:    slot.teacherID,
			RoomID:       slot.roomID,
			TimePeriodID: slot.period.ID,
			WeekNumber:   1,
			IsGenerated:  true,
		}
		if assignment.PreferredRoomID != nil && *assignment.PreferredRoomID != "" {
			room := *assignment.PreferredRoomID
			entry.RoomID = &room
		}
		r.commitCandidate(entry, slot)
	}
}

// commitCandidate accepts an entry if it clears conflict detection and
// constraint validation, trying one round of local repair otherwise.
func (r *generationRun) commitCandidate(entry models.TimetableEntry, slot candidateSlot) {
	if r.accepts(entry) {
		r.commit(entry)
		return
	}

	repaired, ok := r.resolveConflict(entry, slot.teacherID)
	if ok && r.accepts(repaired) {
		r.commit(repaired)
		r.resolved++
		return
	}

	subject := r.catalog.subjectByID[entry.SubjectID]
	r.conflicts = append(r.conflicts, fmt.Sprintf("unresolved conflict: %s for %s at %s",
		subject.Name, r.className(entry.ClassID), slot.period.Label()))
}

func (r *generationRun) accepts(entry models.TimetableEntry) bool {
	return !detectConflicts(entry, r.entries).any() && r.entryValid(entry)
}

func (r *generationRun) commit(entry models.TimetableEntry) {
	r.entries = append(r.entries, entry)
	if period, ok := r.catalog.periodByID[entry.TimePeriodID]; ok {
		r.workload.record(entry.TeacherID, period.DayOfWeek)
	}
}

func (r *generationRun) className(id string) string {
	if class, ok := r.catalog.classByID[id]; ok {
		return class.Name
	}
	return id
}
