package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ardenlabs/timetable-api/internal/models"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
)

type assignmentRepository interface {
	ListClassSubjectDetails(ctx context.Context, classID string) ([]models.ClassSubjectAssignmentDetail, error)
	CreateClassSubject(ctx context.Context, assignment *models.ClassSubjectAssignment) error
	DeleteClassSubject(ctx context.Context, id string) error
	AllTeacherSubjects(ctx context.Context) ([]models.TeacherSubjectAssignment, error)
	CreateTeacherSubject(ctx context.Context, assignment *models.TeacherSubjectAssignment) error
	DeleteTeacherSubject(ctx context.Context, id string) error
}

type assignmentClassLookup interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type assignmentSubjectLookup interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type assignmentTeacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type assignmentRoomLookup interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

// ClassSubjectRequest binds a subject to a class, optionally pinning a
// teacher and a preferred room for generated entries.
type ClassSubjectRequest struct {
	ClassID         string  `json:"class_id" validate:"required"`
	SubjectID       string  `json:"subject_id" validate:"required"`
	TeacherID       *string `json:"teacher_id"`
	PreferredRoomID *string `json:"preferred_room_id"`
}

// TeacherSubjectRequest marks a teacher as qualified for a subject.
type TeacherSubjectRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
}

// AssignmentService manages the curriculum wiring the generator consumes:
// which subjects each class takes and which teachers may teach them.
type AssignmentService struct {
	repo      assignmentRepository
	classes   assignmentClassLookup
	subjects  assignmentSubjectLookup
	teachers  assignmentTeacherLookup
	rooms     assignmentRoomLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(
	repo assignmentRepository,
	classes assignmentClassLookup,
	subjects assignmentSubjectLookup,
	teachers assignmentTeacherLookup,
	rooms assignmentRoomLookup,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		repo:      repo,
		classes:   classes,
		subjects:  subjects,
		teachers:  teachers,
		rooms:     rooms,
		validator: validate,
		logger:    logger,
	}
}

// ListForClass returns a class's curriculum with display names resolved.
func (s *AssignmentService) ListForClass(ctx context.Context, classID string) ([]models.ClassSubjectAssignmentDetail, error) {
	assignments, err := s.repo.ListClassSubjectDetails(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class assignments")
	}
	return assignments, nil
}

// CreateClassSubject registers a class-subject pairing.
func (s *AssignmentService) CreateClassSubject(ctx context.Context, req ClassSubjectRequest) (*models.ClassSubjectAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		return nil, lookupError(err, "class not found", "failed to load class")
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		return nil, lookupError(err, "subject not found", "failed to load subject")
	}
	if req.TeacherID != nil && *req.TeacherID != "" {
		if _, err := s.teachers.FindByID(ctx, *req.TeacherID); err != nil {
			return nil, lookupError(err, "teacher not found", "failed to load teacher")
		}
	}
	if req.PreferredRoomID != nil && *req.PreferredRoomID != "" {
		if _, err := s.rooms.FindByID(ctx, *req.PreferredRoomID); err != nil {
			return nil, lookupError(err, "room not found", "failed to load room")
		}
	}

	assignment := &models.ClassSubjectAssignment{
		ClassID:         req.ClassID,
		SubjectID:       req.SubjectID,
		TeacherID:       normalizeID(req.TeacherID),
		PreferredRoomID: normalizeID(req.PreferredRoomID),
	}
	if err := s.repo.CreateClassSubject(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// DeleteClassSubject removes a class-subject pairing.
func (s *AssignmentService) DeleteClassSubject(ctx context.Context, id string) error {
	if err := s.repo.DeleteClassSubject(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}

// ListTeacherSubjects returns every teacher qualification.
func (s *AssignmentService) ListTeacherSubjects(ctx context.Context) ([]models.TeacherSubjectAssignment, error) {
	assignments, err := s.repo.AllTeacherSubjects(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher qualifications")
	}
	return assignments, nil
}

// CreateTeacherSubject registers a teacher qualification.
func (s *AssignmentService) CreateTeacherSubject(ctx context.Context, req TeacherSubjectRequest) (*models.TeacherSubjectAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid qualification payload")
	}
	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		return nil, lookupError(err, "teacher not found", "failed to load teacher")
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		return nil, lookupError(err, "subject not found", "failed to load subject")
	}

	assignment := &models.TeacherSubjectAssignment{
		TeacherID: req.TeacherID,
		SubjectID: req.SubjectID,
	}
	if err := s.repo.CreateTeacherSubject(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create qualification")
	}
	return assignment, nil
}

// DeleteTeacherSubject removes a teacher qualification.
func (s *AssignmentService) DeleteTeacherSubject(ctx context.Context, id string) error {
	if err := s.repo.DeleteTeacherSubject(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "qualification not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete qualification")
	}
	return nil
}

func lookupError(err error, notFound, internal string) error {
	if err == sql.ErrNoRows {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}

func normalizeID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	value := *id
	return &value
}
