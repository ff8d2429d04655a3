package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ardenlabs/timetable-api/internal/models"
)

// AssignmentRepository manages class-subject and teacher-subject assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// AllClassSubjects returns every class-subject assignment in catalog order.
func (r *AssignmentRepository) AllClassSubjects(ctx context.Context) ([]models.ClassSubjectAssignment, error) {
	const query = `SELECT id, class_id, subject_id, teacher_id, preferred_room_id, created_at FROM class_subject_assignments ORDER BY created_at, id`
	var assignments []models.ClassSubjectAssignment
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list class-subject assignments: %w", err)
	}
	return assignments, nil
}

// ListClassSubjectDetails returns class-subject assignments with display names.
func (r *AssignmentRepository) ListClassSubjectDetails(ctx context.Context, classID string) ([]models.ClassSubjectAssignmentDetail, error) {
	query := `SELECT a.id, a.class_id, a.subject_id, a.teacher_id, a.preferred_room_id, a.created_at,
			c.name AS class_name, s.name AS subject_name, s.code AS subject_code, t.full_name AS teacher_name
		FROM class_subject_assignments a
		JOIN classes c ON c.id = a.class_id
		JOIN subjects s ON s.id = a.subject_id
		LEFT JOIN teachers t ON t.id = a.teacher_id`
	var args []interface{}
	if classID != "" {
		query += " WHERE a.class_id = $1"
		args = append(args, classID)
	}
	query += " ORDER BY c.name, s.code"

	var details []models.ClassSubjectAssignmentDetail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, fmt.Errorf("list class-subject details: %w", err)
	}
	return details, nil
}

// CreateClassSubject inserts a class-subject assignment.
func (r *AssignmentRepository) CreateClassSubject(ctx context.Context, assignment *models.ClassSubjectAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO class_subject_assignments (id, class_id, subject_id, teacher_id, preferred_room_id, created_at)
		VALUES (:id, :class_id, :subject_id, :teacher_id, :preferred_room_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create class-subject assignment: %w", err)
	}
	return nil
}

// DeleteClassSubject removes a class-subject assignment.
func (r *AssignmentRepository) DeleteClassSubject(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM class_subject_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class-subject assignment: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AllTeacherSubjects returns every teacher-subject assignment.
func (r *AssignmentRepository) AllTeacherSubjects(ctx context.Context) ([]models.TeacherSubjectAssignment, error) {
	const query = `SELECT id, teacher_id, subject_id, created_at FROM teacher_subject_assignments ORDER BY created_at, id`
	var assignments []models.TeacherSubjectAssignment
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list teacher-subject assignments: %w", err)
	}
	return assignments, nil
}

// CreateTeacherSubject inserts a teacher-subject assignment.
func (r *AssignmentRepository) CreateTeacherSubject(ctx context.Context, assignment *models.TeacherSubjectAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teacher_subject_assignments (id, teacher_id, subject_id, created_at)
		VALUES (:id, :teacher_id, :subject_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create teacher-subject assignment: %w", err)
	}
	return nil
}

// DeleteTeacherSubject removes a teacher-subject assignment.
func (r *AssignmentRepository) DeleteTeacherSubject(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teacher_subject_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete teacher-subject assignment: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
