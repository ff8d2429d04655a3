package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ardenlabs/timetable-api/internal/models"
)

// TimetableRepository manages committed timetable entries and generation
// bookkeeping. Writes that belong to one generation run go through an
// explicit transaction so a failed store never leaves a half-replaced week.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// DeleteGeneratedWithTx removes all auto-generated entries inside tx.
func (r *TimetableRepository) DeleteGeneratedWithTx(ctx context.Context, tx *sqlx.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM timetable_entries WHERE is_generated = TRUE`); err != nil {
		return fmt.Errorf("clear generated entries: %w", err)
	}
	return nil
}

// BulkCreateWithTx inserts a run's entries inside tx.
func (r *TimetableRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, entries []models.TimetableEntry) error {
	if len(entries) == 0 {
		return nil
	}
	const query = `INSERT INTO timetable_entries (id, class_id, subject_id, teacher_id, room_id, time_period_id, week_number, is_generated, created_at)
		VALUES (:id, :class_id, :subject_id, :teacher_id, :room_id, :time_period_id, :week_number, :is_generated, :created_at)`
	now := time.Now().UTC()
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = now
		}
	}
	if _, err := tx.NamedExecContext(ctx, query, entries); err != nil {
		return fmt.Errorf("bulk create timetable entries: %w", err)
	}
	return nil
}

// TouchMetaWithTx stamps the last successful generation inside tx.
func (r *TimetableRepository) TouchMetaWithTx(ctx context.Context, tx *sqlx.Tx, runID string, generatedAt time.Time) error {
	const query = `INSERT INTO timetable_meta (id, last_run_id, last_generated_at)
		VALUES ('default', $1, $2)
		ON CONFLICT (id) DO UPDATE SET last_run_id = $1, last_generated_at = $2`
	if _, err := tx.ExecContext(ctx, query, runID, generatedAt); err != nil {
		return fmt.Errorf("touch timetable meta: %w", err)
	}
	return nil
}

const entryDetailQuery = `SELECT e.id, e.class_id, e.subject_id, e.teacher_id, e.room_id, e.time_period_id, e.week_number, e.is_generated, e.created_at,
		c.name AS class_name, s.name AS subject_name, s.code AS subject_code, t.full_name AS teacher_name, r.name AS room_name,
		p.day_of_week, p.start_time, p.end_time, p.order_index
	FROM timetable_entries e
	JOIN classes c ON c.id = e.class_id
	JOIN subjects s ON s.id = e.subject_id
	JOIN teachers t ON t.id = e.teacher_id
	LEFT JOIN rooms r ON r.id = e.room_id
	JOIN time_periods p ON p.id = e.time_period_id`

// ListByClass returns entry details for one class ordered by period.
func (r *TimetableRepository) ListByClass(ctx context.Context, classID string) ([]models.TimetableEntryDetail, error) {
	query := entryDetailQuery + ` WHERE e.class_id = $1 ORDER BY p.order_index`
	var entries []models.TimetableEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, classID); err != nil {
		return nil, fmt.Errorf("list timetable by class: %w", err)
	}
	return entries, nil
}

// ListByTeacher returns entry details for one teacher ordered by period.
func (r *TimetableRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntryDetail, error) {
	query := entryDetailQuery + ` WHERE e.teacher_id = $1 ORDER BY p.order_index`
	var entries []models.TimetableEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, teacherID); err != nil {
		return nil, fmt.Errorf("list timetable by teacher: %w", err)
	}
	return entries, nil
}

// Meta returns generation bookkeeping, or nil when no run has completed.
func (r *TimetableRepository) Meta(ctx context.Context) (*models.TimetableMeta, error) {
	const query = `SELECT id, last_run_id, last_generated_at FROM timetable_meta WHERE id = 'default'`
	var meta models.TimetableMeta
	if err := r.db.GetContext(ctx, &meta, query); err != nil {
		return nil, err
	}
	return &meta, nil
}
