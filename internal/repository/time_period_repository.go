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

// TimePeriodRepository manages persistence for time periods.
type TimePeriodRepository struct {
	db *sqlx.DB
}

// NewTimePeriodRepository constructs a TimePeriodRepository.
func NewTimePeriodRepository(db *sqlx.DB) *TimePeriodRepository {
	return &TimePeriodRepository{db: db}
}

const timePeriodColumns = `id, day_of_week, start_time, end_time, order_index, is_break, created_at, updated_at`

// All returns every time period ordered by order_index.
func (r *TimePeriodRepository) All(ctx context.Context) ([]models.TimePeriod, error) {
	query := fmt.Sprintf(`SELECT %s FROM time_periods ORDER BY order_index, id`, timePeriodColumns)
	var periods []models.TimePeriod
	if err := r.db.SelectContext(ctx, &periods, query); err != nil {
		return nil, fmt.Errorf("list all time periods: %w", err)
	}
	return periods, nil
}

// List returns time periods matching the filter.
func (r *TimePeriodRepository) List(ctx context.Context, filter models.TimePeriodFilter) ([]models.TimePeriod, error) {
	base := "FROM time_periods WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.DayOfWeek != "" {
		conditions = append(conditions, fmt.Sprintf("day_of_week = $%d", len(args)+1))
		args = append(args, strings.ToUpper(filter.DayOfWeek))
	}
	if filter.ExcludeBreaks {
		conditions = append(conditions, "is_break = FALSE")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY order_index, id", timePeriodColumns, base)
	var periods []models.TimePeriod
	if err := r.db.SelectContext(ctx, &periods, query, args...); err != nil {
		return nil, fmt.Errorf("list time periods: %w", err)
	}
	return periods, nil
}

// FindByID fetches a time period by ID.
func (r *TimePeriodRepository) FindByID(ctx context.Context, id string) (*models.TimePeriod, error) {
	query := fmt.Sprintf(`SELECT %s FROM time_periods WHERE id = $1`, timePeriodColumns)
	var period models.TimePeriod
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		return nil, err
	}
	return &period, nil
}

// Create inserts a new time period record.
func (r *TimePeriodRepository) Create(ctx context.Context, period *models.TimePeriod) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if period.CreatedAt.IsZero() {
		period.CreatedAt = now
	}
	period.UpdatedAt = now

	const query = `INSERT INTO time_periods (id, day_of_week, start_time, end_time, order_index, is_break, created_at, updated_at)
		VALUES (:id, :day_of_week, :start_time, :end_time, :order_index, :is_break, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("create time period: %w", err)
	}
	return nil
}

// Update modifies an existing time period record.
func (r *TimePeriodRepository) Update(ctx context.Context, period *models.TimePeriod) error {
	period.UpdatedAt = time.Now().UTC()
	const query = `UPDATE time_periods SET day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, order_index = :order_index, is_break = :is_break, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("update time period: %w", err)
	}
	return nil
}

// Delete removes a time period.
func (r *TimePeriodRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM time_periods WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete time period: %w", err)
	}
	return nil
}
