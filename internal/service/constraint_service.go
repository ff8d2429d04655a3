package service

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/ardenlabs/timetable-api/internal/models"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
)

type constraintRepository interface {
	List(ctx context.Context, filter models.ConstraintFilter) ([]models.Constraint, int, error)
	FindByID(ctx context.Context, id string) (*models.Constraint, error)
	Create(ctx context.Context, constraint *models.Constraint) error
	Update(ctx context.Context, constraint *models.Constraint) error
	Delete(ctx context.Context, id string) error
}

// ConstraintRequest is the payload for creating or updating scheduling
// constraints. Rule carries the structured payload; it is validated on write
// so the generator never meets a malformed rule.
type ConstraintRequest struct {
	Type     string                `json:"type" validate:"required,oneof=hard soft"`
	Scope    string                `json:"scope" validate:"required,oneof=subject teacher class room global"`
	TargetID *string               `json:"target_id"`
	Rule     models.ConstraintRule `json:"rule"`
	Priority int                   `json:"priority" validate:"gte=0,lte=100"`
	IsActive *bool                 `json:"is_active"`
}

// ConstraintService orchestrates scheduling constraint operations.
type ConstraintService struct {
	repo      constraintRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConstraintService constructs a ConstraintService.
func NewConstraintService(repo constraintRepository, validate *validator.Validate, logger *zap.Logger) *ConstraintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstraintService{repo: repo, validator: validate, logger: logger}
}

// List returns constraints plus pagination data.
func (s *ConstraintService) List(ctx context.Context, filter models.ConstraintFilter) ([]models.Constraint, *models.Pagination, error) {
	constraints, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list constraints")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return constraints, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a constraint by id.
func (s *ConstraintService) Get(ctx context.Context, id string) (*models.Constraint, error) {
	constraint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "constraint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraint")
	}
	return constraint, nil
}

// Create registers a new constraint.
func (s *ConstraintService) Create(ctx context.Context, req ConstraintRequest) (*models.Constraint, error) {
	constraint, err := s.buildConstraint(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, constraint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create constraint")
	}
	return constraint, nil
}

// Update modifies an existing constraint.
func (s *ConstraintService) Update(ctx context.Context, id string, req ConstraintRequest) (*models.Constraint, error) {
	updated, err := s.buildConstraint(req)
	if err != nil {
		return nil, err
	}
	constraint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "constraint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraint")
	}

	constraint.Type = updated.Type
	constraint.Scope = updated.Scope
	constraint.TargetID = updated.TargetID
	constraint.Rule = updated.Rule
	constraint.Priority = updated.Priority
	constraint.IsActive = updated.IsActive

	if err := s.repo.Update(ctx, constraint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update constraint")
	}
	return constraint, nil
}

// Delete removes a constraint.
func (s *ConstraintService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "constraint not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraint")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete constraint")
	}
	return nil
}

func (s *ConstraintService) buildConstraint(req ConstraintRequest) (*models.Constraint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraint payload")
	}
	scope := models.ConstraintScope(req.Scope)
	if scope == models.ScopeGlobal && req.TargetID != nil && *req.TargetID != "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "global constraints cannot carry a target")
	}
	if err := req.Rule.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraint rule")
	}
	rule, err := json.Marshal(req.Rule)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraint rule")
	}

	constraint := &models.Constraint{
		Type:     models.ConstraintType(req.Type),
		Scope:    scope,
		Rule:     types.JSONText(rule),
		Priority: req.Priority,
		IsActive: true,
	}
	if req.TargetID != nil && *req.TargetID != "" {
		target := *req.TargetID
		constraint.TargetID = &target
	}
	if req.IsActive != nil {
		constraint.IsActive = *req.IsActive
	}
	return constraint, nil
}
