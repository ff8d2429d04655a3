package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardenlabs/timetable-api/internal/dto"
	"github.com/ardenlabs/timetable-api/internal/middleware"
	"github.com/ardenlabs/timetable-api/internal/models"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
)

type timetableOrchestratorMock struct {
	captured      dto.GenerateOptions
	result        *dto.GenerationResult
	storeErr      error
	classEntries  []models.TimetableEntryDetail
	classErr      error
	meta          *models.TimetableMeta
	previewCalled bool
}

func (m *timetableOrchestratorMock) Preview(ctx context.Context, opts dto.GenerateOptions) *dto.GenerationResult {
	m.previewCalled = true
	m.captured = opts
	return m.result
}

func (m *timetableOrchestratorMock) GenerateAndStore(ctx context.Context, opts dto.GenerateOptions) (*dto.GenerationResult, error) {
	m.captured = opts
	return m.result, m.storeErr
}

func (m *timetableOrchestratorMock) ClassTimetable(ctx context.Context, classID string) ([]models.TimetableEntryDetail, error) {
	return m.classEntries, m.classErr
}

func (m *timetableOrchestratorMock) TeacherTimetable(ctx context.Context, teacherID string) ([]models.TimetableEntryDetail, error) {
	return m.classEntries, m.classErr
}

func (m *timetableOrchestratorMock) Meta(ctx context.Context) (*models.TimetableMeta, error) {
	return m.meta, nil
}

func TestTimetableGenerateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableOrchestratorMock{result: &dto.GenerationResult{RunID: "run-1", Success: true}}
	h := &TimetableHandler{service: mockSvc}

	payload := []byte(`{"options":{"prioritizeMorningClasses":true,"enforceHardConstraints":true}}`)
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.captured.PrioritizeMorningClasses)
	assert.True(t, mockSvc.captured.EnforceHardConstraints)
	assert.False(t, mockSvc.captured.RespectSoftConstraints)
}

func TestTimetableGenerateEmptyBodyUsesConfiguredDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableOrchestratorMock{result: &dto.GenerationResult{RunID: "run-1", Success: true}}
	h := &TimetableHandler{
		service:  mockSvc,
		defaults: dto.GenerateOptions{EnforceHardConstraints: true, RespectSoftConstraints: true},
	}

	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.GenerateOptions{EnforceHardConstraints: true, RespectSoftConstraints: true}, mockSvc.captured)
}

func TestTimetableGenerateBodyOverridesDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableOrchestratorMock{result: &dto.GenerationResult{RunID: "run-1", Success: true}}
	h := &TimetableHandler{
		service:  mockSvc,
		defaults: dto.GenerateOptions{EnforceHardConstraints: true},
	}

	payload := []byte(`{"options":{"respectSoftConstraints":true}}`)
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mockSvc.captured.EnforceHardConstraints)
	assert.True(t, mockSvc.captured.RespectSoftConstraints)
}

func TestTimetableGenerateMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &TimetableHandler{service: &timetableOrchestratorMock{}}

	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", bytes.NewReader([]byte(`{"options":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableGenerateFailedRunReturnsDiagnostics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableOrchestratorMock{
		result:   &dto.GenerationResult{RunID: "run-2", Success: false, Errors: []string{"no class-subject assignments defined; nothing to schedule"}},
		storeErr: appErrors.Clone(appErrors.ErrPreconditionFailed, "timetable generation failed"),
	}
	h := &TimetableHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Generate(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var envelope struct {
		Data dto.GenerationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "run-2", envelope.Data.RunID)
	require.Len(t, envelope.Data.Errors, 1)
}

func TestTimetablePreview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableOrchestratorMock{result: &dto.GenerationResult{RunID: "run-3", Success: true}}
	h := &TimetableHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodPost, "/timetable/preview", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Preview(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.previewCalled)
}

func TestTimetableClassTimetable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableOrchestratorMock{
		classEntries: []models.TimetableEntryDetail{{SubjectName: "Mathematics"}},
	}
	h := &TimetableHandler{service: mockSvc}
	router := gin.New()
	router.GET("/timetable/classes/:id", h.ClassTimetable)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/timetable/classes/c1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mathematics")
}

func TestTimetableClassTimetableError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableOrchestratorMock{classErr: appErrors.Clone(appErrors.ErrInternal, "failed to load class timetable")}
	h := &TimetableHandler{service: mockSvc}
	router := gin.New()
	router.GET("/timetable/classes/:id", h.ClassTimetable)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/timetable/classes/c1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTimetableGenerateUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &TimetableHandler{service: &timetableOrchestratorMock{}}
	router := gin.New()
	router.POST("/timetable/generate", middleware.RequireRoles(models.RoleAdmin, models.RoleScheduler), h.Generate)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTimetableGenerateForbiddenForViewer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &TimetableHandler{service: &timetableOrchestratorMock{}}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleViewer})
		c.Next()
	})
	router.POST("/timetable/generate", middleware.RequireRoles(models.RoleAdmin, models.RoleScheduler), h.Generate)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTimetableMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableOrchestratorMock{meta: &models.TimetableMeta{LastRunID: "run-9"}}
	h := &TimetableHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodGet, "/timetable/meta", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Meta(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "run-9")
}
