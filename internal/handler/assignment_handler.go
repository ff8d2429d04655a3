package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ardenlabs/timetable-api/internal/service"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
	"github.com/ardenlabs/timetable-api/pkg/response"
)

// AssignmentHandler wires curriculum assignment services to HTTP routes.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler constructs a new AssignmentHandler.
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// ListForClass godoc
// @Summary List a class's subject assignments
// @Tags Assignments
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /classes/{id}/assignments [get]
func (h *AssignmentHandler) ListForClass(c *gin.Context) {
	assignments, err := h.assignments.ListForClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// CreateClassSubject godoc
// @Summary Assign a subject to a class
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.ClassSubjectRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/class-subjects [post]
func (h *AssignmentHandler) CreateClassSubject(c *gin.Context) {
	var req service.ClassSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	assignment, err := h.assignments.CreateClassSubject(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// DeleteClassSubject godoc
// @Summary Remove a class-subject assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /assignments/class-subjects/{id} [delete]
func (h *AssignmentHandler) DeleteClassSubject(c *gin.Context) {
	if err := h.assignments.DeleteClassSubject(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListTeacherSubjects godoc
// @Summary List teacher subject qualifications
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/teacher-subjects [get]
func (h *AssignmentHandler) ListTeacherSubjects(c *gin.Context) {
	assignments, err := h.assignments.ListTeacherSubjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// CreateTeacherSubject godoc
// @Summary Qualify a teacher for a subject
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.TeacherSubjectRequest true "Qualification payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/teacher-subjects [post]
func (h *AssignmentHandler) CreateTeacherSubject(c *gin.Context) {
	var req service.TeacherSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid qualification payload"))
		return
	}
	assignment, err := h.assignments.CreateTeacherSubject(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// DeleteTeacherSubject godoc
// @Summary Remove a teacher qualification
// @Tags Assignments
// @Produce json
// @Param id path string true "Qualification ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /assignments/teacher-subjects/{id} [delete]
func (h *AssignmentHandler) DeleteTeacherSubject(c *gin.Context) {
	if err := h.assignments.DeleteTeacherSubject(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
