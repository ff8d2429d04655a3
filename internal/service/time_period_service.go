package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ardenlabs/timetable-api/internal/models"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
)

type timePeriodRepository interface {
	List(ctx context.Context, filter models.TimePeriodFilter) ([]models.TimePeriod, error)
	FindByID(ctx context.Context, id string) (*models.TimePeriod, error)
	Create(ctx context.Context, period *models.TimePeriod) error
	Update(ctx context.Context, period *models.TimePeriod) error
	Delete(ctx context.Context, id string) error
}

// TimePeriodRequest is the payload for creating or updating periods of the
// teaching week.
type TimePeriodRequest struct {
	DayOfWeek  string `json:"day_of_week" validate:"required"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
	OrderIndex int    `json:"order_index" validate:"gte=0"`
	IsBreak    bool   `json:"is_break"`
}

// TimePeriodService orchestrates the weekly period grid.
type TimePeriodService struct {
	repo      timePeriodRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimePeriodService constructs a TimePeriodService.
func NewTimePeriodService(repo timePeriodRepository, validate *validator.Validate, logger *zap.Logger) *TimePeriodService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimePeriodService{repo: repo, validator: validate, logger: logger}
}

// List returns periods matching the filter in configured week order.
func (s *TimePeriodService) List(ctx context.Context, filter models.TimePeriodFilter) ([]models.TimePeriod, error) {
	periods, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time periods")
	}
	return periods, nil
}

// Get returns a period by id.
func (s *TimePeriodService) Get(ctx context.Context, id string) (*models.TimePeriod, error) {
	period, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "time period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time period")
	}
	return period, nil
}

// Create registers a new period.
func (s *TimePeriodService) Create(ctx context.Context, req TimePeriodRequest) (*models.TimePeriod, error) {
	period, err := s.buildPeriod(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create time period")
	}
	return period, nil
}

// Update modifies an existing period.
func (s *TimePeriodService) Update(ctx context.Context, id string, req TimePeriodRequest) (*models.TimePeriod, error) {
	updated, err := s.buildPeriod(req)
	if err != nil {
		return nil, err
	}
	period, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "time period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time period")
	}

	period.DayOfWeek = updated.DayOfWeek
	period.StartTime = updated.StartTime
	period.EndTime = updated.EndTime
	period.OrderIndex = updated.OrderIndex
	period.IsBreak = updated.IsBreak

	if err := s.repo.Update(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update time period")
	}
	return period, nil
}

// Delete removes a period.
func (s *TimePeriodService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "time period not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time period")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete time period")
	}
	return nil
}

func (s *TimePeriodService) buildPeriod(req TimePeriodRequest) (*models.TimePeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time period payload")
	}
	day := strings.ToUpper(strings.TrimSpace(req.DayOfWeek))
	if !models.IsWeekday(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown day of week")
	}
	start, err := models.ClockHour(req.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time")
	}
	end, err := models.ClockHour(req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end time")
	}
	if end <= start {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period must end after it starts")
	}
	return &models.TimePeriod{
		DayOfWeek:  day,
		StartTime:  strings.TrimSpace(req.StartTime),
		EndTime:    strings.TrimSpace(req.EndTime),
		OrderIndex: req.OrderIndex,
		IsBreak:    req.IsBreak,
	}, nil
}
