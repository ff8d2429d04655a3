package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardenlabs/timetable-api/internal/models"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
)

func TestTeacherServiceCreate(t *testing.T) {
	repo := &teacherRepoStub{}
	service := NewTeacherService(repo, nil, nil)

	teacher, err := service.Create(context.Background(), CreateTeacherRequest{
		Email:             "  Ada@School.test ",
		FullName:          "Ada Prima",
		MaxClassesPerDay:  4,
		MaxClassesPerWeek: 20,
		Availability: models.WeeklyAvailability{
			"monday": {{Start: "08:00", End: "12:00"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@school.test", teacher.Email)
	assert.True(t, teacher.Active)

	var stored models.WeeklyAvailability
	require.NoError(t, json.Unmarshal(teacher.Availability, &stored))
	_, ok := stored["MONDAY"]
	assert.True(t, ok, "day keys must be normalised to upper case")
}

func TestTeacherServiceCreateInvalidPayload(t *testing.T) {
	service := NewTeacherService(&teacherRepoStub{}, nil, nil)

	_, err := service.Create(context.Background(), CreateTeacherRequest{Email: "not-an-email", FullName: "X"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceCreateInvalidAvailability(t *testing.T) {
	service := NewTeacherService(&teacherRepoStub{}, nil, nil)

	_, err := service.Create(context.Background(), CreateTeacherRequest{
		Email:    "ada@school.test",
		FullName: "Ada Prima",
		Availability: models.WeeklyAvailability{
			"MONDAY": {{Start: "12:00", End: "08:00"}},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceCreateDuplicateEmail(t *testing.T) {
	repo := &teacherRepoStub{emailExists: true}
	service := NewTeacherService(repo, nil, nil)

	_, err := service.Create(context.Background(), CreateTeacherRequest{
		Email:    "ada@school.test",
		FullName: "Ada Prima",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceCreateEmptyAvailabilityStoredAsNull(t *testing.T) {
	repo := &teacherRepoStub{}
	service := NewTeacherService(repo, nil, nil)

	teacher, err := service.Create(context.Background(), CreateTeacherRequest{
		Email:    "ada@school.test",
		FullName: "Ada Prima",
	})
	require.NoError(t, err)
	assert.Nil(t, teacher.Availability)
}

func TestTeacherServiceUpdate(t *testing.T) {
	active := false
	repo := &teacherRepoStub{
		byID: &models.Teacher{ID: "t1", Email: "old@school.test", FullName: "Old", Active: true},
	}
	service := NewTeacherService(repo, nil, nil)

	teacher, err := service.Update(context.Background(), "t1", UpdateTeacherRequest{
		Email:    "new@school.test",
		FullName: "New Name",
		Active:   &active,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@school.test", teacher.Email)
	assert.False(t, teacher.Active)
	assert.True(t, repo.updated)
}

func TestTeacherServiceUpdateNotFound(t *testing.T) {
	repo := &teacherRepoStub{findErr: sql.ErrNoRows}
	service := NewTeacherService(repo, nil, nil)

	_, err := service.Update(context.Background(), "ghost", UpdateTeacherRequest{
		Email:    "x@school.test",
		FullName: "X",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceDeactivate(t *testing.T) {
	repo := &teacherRepoStub{byID: &models.Teacher{ID: "t1"}}
	service := NewTeacherService(repo, nil, nil)

	require.NoError(t, service.Deactivate(context.Background(), "t1"))
	assert.True(t, repo.deactivated)
}

func TestTeacherServiceGetNotFound(t *testing.T) {
	repo := &teacherRepoStub{findErr: sql.ErrNoRows}
	service := NewTeacherService(repo, nil, nil)

	_, err := service.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceListDefaultsPagination(t *testing.T) {
	repo := &teacherRepoStub{list: []models.Teacher{{ID: "t1"}}, total: 1}
	service := NewTeacherService(repo, nil, nil)

	teachers, pagination, err := service.List(context.Background(), models.TeacherFilter{})
	require.NoError(t, err)
	assert.Len(t, teachers, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}

// --- Fixtures ---

type teacherRepoStub struct {
	list        []models.Teacher
	total       int
	byID        *models.Teacher
	findErr     error
	emailExists bool
	updated     bool
	deactivated bool
}

func (r *teacherRepoStub) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	return r.list, r.total, nil
}

func (r *teacherRepoStub) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.byID == nil {
		return nil, sql.ErrNoRows
	}
	return r.byID, nil
}

func (r *teacherRepoStub) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.emailExists, nil
}

func (r *teacherRepoStub) Create(ctx context.Context, teacher *models.Teacher) error {
	teacher.ID = "t-created"
	return nil
}

func (r *teacherRepoStub) Update(ctx context.Context, teacher *models.Teacher) error {
	r.updated = true
	return nil
}

func (r *teacherRepoStub) Deactivate(ctx context.Context, id string) error {
	r.deactivated = true
	return nil
}
