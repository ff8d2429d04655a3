package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ardenlabs/timetable-api/internal/dto"
	"github.com/ardenlabs/timetable-api/internal/models"
	"github.com/ardenlabs/timetable-api/internal/service"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
	"github.com/ardenlabs/timetable-api/pkg/response"
)

type timetableOrchestrator interface {
	Preview(ctx context.Context, opts dto.GenerateOptions) *dto.GenerationResult
	GenerateAndStore(ctx context.Context, opts dto.GenerateOptions) (*dto.GenerationResult, error)
	ClassTimetable(ctx context.Context, classID string) ([]models.TimetableEntryDetail, error)
	TeacherTimetable(ctx context.Context, teacherID string) ([]models.TimetableEntryDetail, error)
	Meta(ctx context.Context) (*models.TimetableMeta, error)
}

// TimetableHandler exposes timetable generation and viewing endpoints.
type TimetableHandler struct {
	service  timetableOrchestrator
	metrics  *service.MetricsService
	defaults dto.GenerateOptions
}

// NewTimetableHandler constructs the handler. defaults are the configured
// generation options applied when a request body omits them.
func NewTimetableHandler(svc *service.TimetableService, metrics *service.MetricsService, defaults dto.GenerateOptions) *TimetableHandler {
	return &TimetableHandler{service: svc, metrics: metrics, defaults: defaults}
}

// Generate godoc
// @Summary Generate and store the weekly timetable
// @Description Runs a full generation pass and replaces previously generated entries on success.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation options"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	req, ok := h.bindOptions(c)
	if !ok {
		return
	}

	start := time.Now()
	result, err := h.service.GenerateAndStore(c.Request.Context(), req.Options)
	if result != nil {
		h.metrics.ObserveGenerationRun(result.Success, len(result.Entries), result.Stats.ConflictsResolved, time.Since(start))
	}
	if err != nil {
		if result != nil && !result.Success {
			response.JSON(c, http.StatusUnprocessableEntity, result, nil)
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Preview godoc
// @Summary Generate a timetable without persisting it
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation options"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetable/preview [post]
func (h *TimetableHandler) Preview(c *gin.Context) {
	req, ok := h.bindOptions(c)
	if !ok {
		return
	}
	start := time.Now()
	result := h.service.Preview(c.Request.Context(), req.Options)
	h.metrics.ObserveGenerationRun(result.Success, len(result.Entries), result.Stats.ConflictsResolved, time.Since(start))
	response.JSON(c, http.StatusOK, result, nil)
}

// ClassTimetable godoc
// @Summary Weekly timetable for one class
// @Tags Timetable
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetable/classes/{id} [get]
func (h *TimetableHandler) ClassTimetable(c *gin.Context) {
	entries, err := h.service.ClassTimetable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// TeacherTimetable godoc
// @Summary Weekly timetable for one teacher
// @Tags Timetable
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetable/teachers/{id} [get]
func (h *TimetableHandler) TeacherTimetable(c *gin.Context) {
	entries, err := h.service.TeacherTimetable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Meta godoc
// @Summary Last generation run metadata
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetable/meta [get]
func (h *TimetableHandler) Meta(c *gin.Context) {
	meta, err := h.service.Meta(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meta, nil)
}

func (h *TimetableHandler) bindOptions(c *gin.Context) (dto.GenerateTimetableRequest, bool) {
	var req dto.GenerateTimetableRequest
	if c.Request.ContentLength == 0 {
		req.Options = h.defaults
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return req, false
	}
	return req, true
}
