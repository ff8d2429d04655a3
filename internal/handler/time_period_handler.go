package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ardenlabs/timetable-api/internal/models"
	"github.com/ardenlabs/timetable-api/internal/service"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
	"github.com/ardenlabs/timetable-api/pkg/response"
)

// TimePeriodHandler wires time period services to HTTP routes.
type TimePeriodHandler struct {
	periods *service.TimePeriodService
}

// NewTimePeriodHandler constructs a new TimePeriodHandler.
func NewTimePeriodHandler(periods *service.TimePeriodService) *TimePeriodHandler {
	return &TimePeriodHandler{periods: periods}
}

// List godoc
// @Summary List time periods
// @Tags TimePeriods
// @Produce json
// @Param day query string false "Filter by day of week"
// @Param teaching query bool false "Exclude breaks when true"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /time-periods [get]
func (h *TimePeriodHandler) List(c *gin.Context) {
	filter := models.TimePeriodFilter{
		DayOfWeek:     strings.ToUpper(strings.TrimSpace(c.Query("day"))),
		ExcludeBreaks: strings.EqualFold(c.Query("teaching"), "true"),
	}
	periods, err := h.periods.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// Get godoc
// @Summary Get time period detail
// @Tags TimePeriods
// @Produce json
// @Param id path string true "Time period ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /time-periods/{id} [get]
func (h *TimePeriodHandler) Get(c *gin.Context) {
	period, err := h.periods.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, period, nil)
}

// Create godoc
// @Summary Create time period
// @Tags TimePeriods
// @Accept json
// @Produce json
// @Param payload body service.TimePeriodRequest true "Time period payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /time-periods [post]
func (h *TimePeriodHandler) Create(c *gin.Context) {
	var req service.TimePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid time period payload"))
		return
	}
	period, err := h.periods.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// Update godoc
// @Summary Update time period
// @Tags TimePeriods
// @Accept json
// @Produce json
// @Param id path string true "Time period ID"
// @Param payload body service.TimePeriodRequest true "Time period payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /time-periods/{id} [put]
func (h *TimePeriodHandler) Update(c *gin.Context) {
	var req service.TimePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid time period payload"))
		return
	}
	period, err := h.periods.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, period, nil)
}

// Delete godoc
// @Summary Delete time period
// @Tags TimePeriods
// @Produce json
// @Param id path string true "Time period ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /time-periods/{id} [delete]
func (h *TimePeriodHandler) Delete(c *gin.Context) {
	if err := h.periods.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
