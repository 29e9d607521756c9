package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dverenik/coursegrade/internal/service"
	"github.com/dverenik/coursegrade/pkg/response"
)

// ExportHandler serves course review exports.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// CourseReviews godoc
// @Summary Download a course's reviews as CSV or PDF
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Course ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /courses/{id}/reviews/export [get]
func (h *ExportHandler) CourseReviews(c *gin.Context) {
	result, err := h.exports.CourseReviews(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(200, result.ContentType, result.Content)
}
