package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dverenik/coursegrade/internal/models"
)

// Enrollments renders the enrollment list.
func (h *Handler) Enrollments(c *gin.Context) {
	filter := models.EnrollmentFilter{ListFilter: listFilter()}
	enrollments, _, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		c.HTML(http.StatusOK, "enrollments.html", gin.H{"Error": errMessage(err)})
		return
	}
	c.HTML(http.StatusOK, "enrollments.html", gin.H{"Enrollments": enrollments})
}

// EnrollmentDetail renders one enrollment.
func (h *Handler) EnrollmentDetail(c *gin.Context) {
	enrollment, err := h.enrollments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.HTML(http.StatusOK, "enrollment.html", gin.H{"Error": errMessage(err)})
		return
	}
	c.HTML(http.StatusOK, "enrollment.html", gin.H{"Enrollment": enrollment})
}
