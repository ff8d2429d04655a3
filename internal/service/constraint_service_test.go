package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardenlabs/timetable-api/internal/models"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
)

func TestConstraintServiceCreate(t *testing.T) {
	repo := &constraintRepoStub{}
	service := NewConstraintService(repo, nil, nil)

	target := "teacher-1"
	constraint, err := service.Create(context.Background(), ConstraintRequest{
		Type:     "hard",
		Scope:    "teacher",
		TargetID: &target,
		Rule:     models.ConstraintRule{Kind: models.RuleKindTimeExclusion, Days: []string{"MONDAY"}},
		Priority: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConstraintHard, constraint.Type)
	assert.Equal(t, models.ScopeTeacher, constraint.Scope)
	require.NotNil(t, constraint.TargetID)
	assert.Equal(t, "teacher-1", *constraint.TargetID)
	assert.True(t, constraint.IsActive)
}

func TestConstraintServiceCreateGlobalWithTargetRejected(t *testing.T) {
	service := NewConstraintService(&constraintRepoStub{}, nil, nil)

	target := "teacher-1"
	_, err := service.Create(context.Background(), ConstraintRequest{
		Type:     "hard",
		Scope:    "global",
		TargetID: &target,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "global constraints cannot carry a target", appErr.Message)
}

func TestConstraintServiceCreateRejectsUnknownType(t *testing.T) {
	service := NewConstraintService(&constraintRepoStub{}, nil, nil)

	_, err := service.Create(context.Background(), ConstraintRequest{Type: "firm", Scope: "global"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestConstraintServiceCreateRejectsMalformedRule(t *testing.T) {
	service := NewConstraintService(&constraintRepoStub{}, nil, nil)

	_, err := service.Create(context.Background(), ConstraintRequest{
		Type:  "soft",
		Scope: "global",
		Rule:  models.ConstraintRule{Kind: "teleportation"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestConstraintServiceCreateRejectsBadRuleDay(t *testing.T) {
	service := NewConstraintService(&constraintRepoStub{}, nil, nil)

	_, err := service.Create(context.Background(), ConstraintRequest{
		Type:  "hard",
		Scope: "global",
		Rule:  models.ConstraintRule{Kind: models.RuleKindTimeExclusion, Days: []string{"SOMEDAY"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestConstraintServiceCreateInactive(t *testing.T) {
	inactive := false
	service := NewConstraintService(&constraintRepoStub{}, nil, nil)

	constraint, err := service.Create(context.Background(), ConstraintRequest{
		Type:     "soft",
		Scope:    "global",
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, constraint.IsActive)
}

func TestConstraintServiceUpdateNotFound(t *testing.T) {
	repo := &constraintRepoStub{findErr: sql.ErrNoRows}
	service := NewConstraintService(repo, nil, nil)

	_, err := service.Update(context.Background(), "ghost", ConstraintRequest{Type: "hard", Scope: "global"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestConstraintServiceDelete(t *testing.T) {
	repo := &constraintRepoStub{byID: &models.Constraint{ID: "c1"}}
	service := NewConstraintService(repo, nil, nil)

	require.NoError(t, service.Delete(context.Background(), "c1"))
	assert.True(t, repo.deleted)
}

// --- Fixtures ---

type constraintRepoStub struct {
	list    []models.Constraint
	total   int
	byID    *models.Constraint
	findErr error
	deleted bool
}

func (r *constraintRepoStub) List(ctx context.Context, filter models.ConstraintFilter) ([]models.Constraint, int, error) {
	return r.list, r.total, nil
}

func (r *constraintRepoStub) FindByID(ctx context.Context, id string) (*models.Constraint, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.byID == nil {
		return nil, sql.ErrNoRows
	}
	return r.byID, nil
}

func (r *constraintRepoStub) Create(ctx context.Context, constraint *models.Constraint) error {
	constraint.ID = "c-created"
	return nil
}

func (r *constraintRepoStub) Update(ctx context.Context, constraint *models.Constraint) error {
	return nil
}

func (r *constraintRepoStub) Delete(ctx context.Context, id string) error {
	r.deleted = true
	return nil
}
