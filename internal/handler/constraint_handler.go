package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ardenlabs/timetable-api/internal/models"
	"github.com/ardenlabs/timetable-api/internal/service"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
	"github.com/ardenlabs/timetable-api/pkg/response"
)

// ConstraintHandler wires constraint services to HTTP routes.
type ConstraintHandler struct {
	constraints *service.ConstraintService
}

// NewConstraintHandler constructs a new ConstraintHandler.
func NewConstraintHandler(constraints *service.ConstraintService) *ConstraintHandler {
	return &ConstraintHandler{constraints: constraints}
}

// List godoc
// @Summary List scheduling constraints
// @Tags Constraints
// @Produce json
// @Param type query string false "Filter by type (hard/soft)"
// @Param scope query string false "Filter by scope"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /constraints [get]
func (h *ConstraintHandler) List(c *gin.Context) {
	filter := models.ConstraintFilter{
		Type:  models.ConstraintType(strings.ToLower(strings.TrimSpace(c.Query("type")))),
		Scope: models.ConstraintScope(strings.ToLower(strings.TrimSpace(c.Query("scope")))),
	}
	if active := c.Query("active"); active != "" {
		switch strings.ToLower(active) {
		case "true":
			val := true
			filter.Active = &val
		case "false":
			val := false
			filter.Active = &val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	constraints, pagination, err := h.constraints.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraints, pagination)
}

// Get godoc
// @Summary Get constraint detail
// @Tags Constraints
// @Produce json
// @Param id path string true "Constraint ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /constraints/{id} [get]
func (h *ConstraintHandler) Get(c *gin.Context) {
	constraint, err := h.constraints.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraint, nil)
}

// Create godoc
// @Summary Create constraint
// @Tags Constraints
// @Accept json
// @Produce json
// @Param payload body service.ConstraintRequest true "Constraint payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /constraints [post]
func (h *ConstraintHandler) Create(c *gin.Context) {
	var req service.ConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid constraint payload"))
		return
	}
	constraint, err := h.constraints.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, constraint)
}

// Update godoc
// @Summary Update constraint
// @Tags Constraints
// @Accept json
// @Produce json
// @Param id path string true "Constraint ID"
// @Param payload body service.ConstraintRequest true "Constraint payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /constraints/{id} [put]
func (h *ConstraintHandler) Update(c *gin.Context) {
	var req service.ConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid constraint payload"))
		return
	}
	constraint, err := h.constraints.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraint, nil)
}

// Delete godoc
// @Summary Delete constraint
// @Tags Constraints
// @Produce json
// @Param id path string true "Constraint ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /constraints/{id} [delete]
func (h *ConstraintHandler) Delete(c *gin.Context) {
	if err := h.constraints.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
