package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dverenik/coursegrade/internal/models"
	"github.com/dverenik/coursegrade/internal/service"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
	"github.com/dverenik/coursegrade/pkg/response"
)

// CourseHandler exposes course CRUD endpoints.
type CourseHandler struct {
	courses     *service.CourseService
	enrollments *service.EnrollmentService
	reviews     *service.ReviewService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses *service.CourseService, enrollments *service.EnrollmentService, reviews *service.ReviewService) *CourseHandler {
	return &CourseHandler{courses: courses, enrollments: enrollments, reviews: reviews}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Filter by title substring"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	filter := models.CourseFilter{
		ListFilter: listFilter(c),
		Search:     c.Query("search"),
	}
	courses, pagination, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// Get godoc
// @Summary Get one course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Create a course owned by the caller
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Replace a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body service.UpdateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var req service.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Patch godoc
// @Summary Partially update a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body service.PatchCourseRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id} [patch]
func (h *CourseHandler) Patch(c *gin.Context) {
	var req service.PatchCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Patch(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Delete godoc
// @Summary Delete a course and its enrollments and reviews
// @Tags Courses
// @Param id path string true "Course ID"
// @Success 204 {string} string "no content"
// @Security BearerAuth
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Students godoc
// @Summary List students enrolled in a course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id}/students [get]
func (h *CourseHandler) Students(c *gin.Context) {
	if _, err := h.courses.Get(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.enrollments.StudentsByCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Reviews godoc
// @Summary List reviews of a course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id}/reviews [get]
func (h *CourseHandler) Reviews(c *gin.Context) {
	if _, err := h.courses.Get(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	filter := models.ReviewFilter{
		ListFilter: listFilter(c),
		CourseID:   c.Param("id"),
	}
	reviews, pagination, err := h.reviews.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reviews, pagination)
}
