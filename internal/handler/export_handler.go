package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ardenlabs/timetable-api/internal/dto"
	"github.com/ardenlabs/timetable-api/internal/service"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
	"github.com/ardenlabs/timetable-api/pkg/response"
)

// ExportHandler exposes synchronous and asynchronous timetable exports.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs a new ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ExportClass godoc
// @Summary Download a class timetable inline
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Class ID"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /classes/{id}/export [get]
func (h *ExportHandler) ExportClass(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	data, filename, contentType, err := h.exports.RenderClass(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

// CreateJob godoc
// @Summary Queue an asynchronous timetable export
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Export request"
// @Success 202 {object} response.Envelope
// @Security BearerAuth
// @Router /exports [post]
func (h *ExportHandler) CreateJob(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export request"))
		return
	}
	var requestedBy *string
	if claims := claimsFromContext(c); claims != nil {
		requestedBy = &claims.UserID
	}
	job, err := h.exports.CreateJob(c.Request.Context(), req, requestedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Job godoc
// @Summary Export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Export job ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exports/{id} [get]
func (h *ExportHandler) Job(c *gin.Context) {
	job, err := h.exports.Job(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a completed export artifact
// @Tags Exports
// @Produce application/octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	path, filename, err := h.exports.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, filename)
}
