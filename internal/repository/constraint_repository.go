package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ardenlabs/timetable-api/internal/models"
)

// ConstraintRepository manages persistence for scheduling constraints.
type ConstraintRepository struct {
	db *sqlx.DB
}

// NewConstraintRepository constructs a ConstraintRepository.
func NewConstraintRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db}
}

const constraintColumns = `id, type, scope, target_id, rule, priority, is_active, created_at, updated_at`

// AllActive returns active constraints ordered by priority (highest first).
func (r *ConstraintRepository) AllActive(ctx context.Context) ([]models.Constraint, error) {
	query := fmt.Sprintf(`SELECT %s FROM constraints WHERE is_active = TRUE ORDER BY priority DESC, created_at`, constraintColumns)
	var constraints []models.Constraint
	if err := r.db.SelectContext(ctx, &constraints, query); err != nil {
		return nil, fmt.Errorf("list active constraints: %w", err)
	}
	return constraints, nil
}

// List returns constraints matching the filter along with total count.
func (r *ConstraintRepository) List(ctx context.Context, filter models.ConstraintFilter) ([]models.Constraint, int, error) {
	base := "FROM constraints WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.Scope != "" {
		conditions = append(conditions, fmt.Sprintf("scope = $%d", len(args)+1))
		args = append(args, filter.Scope)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s %s ORDER BY priority DESC, created_at LIMIT %d OFFSET %d", constraintColumns, base, limit, offset)
	var constraints []models.Constraint
	if err := r.db.SelectContext(ctx, &constraints, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list constraints: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count constraints: %w", err)
	}
	return constraints, total, nil
}

// FindByID fetches a constraint by ID.
func (r *ConstraintRepository) FindByID(ctx context.Context, id string) (*models.Constraint, error) {
	query := fmt.Sprintf(`SELECT %s FROM constraints WHERE id = $1`, constraintColumns)
	var constraint models.Constraint
	if err := r.db.GetContext(ctx, &constraint, query, id); err != nil {
		return nil, err
	}
	return &constraint, nil
}

// Create inserts a new constraint record.
func (r *ConstraintRepository) Create(ctx context.Context, constraint *models.Constraint) error {
	if constraint.ID == "" {
		constraint.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if constraint.CreatedAt.IsZero() {
		constraint.CreatedAt = now
	}
	constraint.UpdatedAt = now

	const query = `INSERT INTO constraints (id, type, scope, target_id, rule, priority, is_active, created_at, updated_at)
		VALUES (:id, :type, :scope, :target_id, :rule, :priority, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, constraint); err != nil {
		return fmt.Errorf("create constraint: %w", err)
	}
	return nil
}

// Update modifies an existing constraint record.
func (r *ConstraintRepository) Update(ctx context.Context, constraint *models.Constraint) error {
	constraint.UpdatedAt = time.Now().UTC()
	const query = `UPDATE constraints SET type = :type, scope = :scope, target_id = :target_id, rule = :rule, priority = :priority, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, constraint); err != nil {
		return fmt.Errorf("update constraint: %w", err)
	}
	return nil
}

// Delete removes a constraint.
func (r *ConstraintRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM constraints WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete constraint: %w", err)
	}
	return nil
}
