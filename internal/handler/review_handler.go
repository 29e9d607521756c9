package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dverenik/coursegrade/internal/models"
	"github.com/dverenik/coursegrade/internal/service"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
	"github.com/dverenik/coursegrade/pkg/response"
)

// ReviewHandler exposes review CRUD endpoints.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// List godoc
// @Summary List reviews
// @Tags Reviews
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param course_id query string false "Filter by course"
// @Param student_id query string false "Filter by student"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	filter := models.ReviewFilter{
		ListFilter: listFilter(c),
		CourseID:   c.Query("course_id"),
		StudentID:  c.Query("student_id"),
	}
	reviews, pagination, err := h.reviews.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reviews, pagination)
}

// Get godoc
// @Summary Get one review
// @Tags Reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reviews/{id} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	review, err := h.reviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, review, nil)
}

// Create godoc
// @Summary Create a review authored by the caller's student profile
// @Tags Reviews
// @Accept json
// @Produce json
// @Param payload body service.CreateReviewRequest true "Review payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var req service.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	review, err := h.reviews.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, review)
}

// Update godoc
// @Summary Replace a review's text and grade
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param payload body service.UpdateReviewRequest true "Review payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reviews/{id} [put]
func (h *ReviewHandler) Update(c *gin.Context) {
	var req service.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	review, err := h.reviews.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, review, nil)
}

// Patch godoc
// @Summary Partially update a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param payload body service.PatchReviewRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reviews/{id} [patch]
func (h *ReviewHandler) Patch(c *gin.Context) {
	var req service.PatchReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	review, err := h.reviews.Patch(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, review, nil)
}

// Delete godoc
// @Summary Delete a review
// @Tags Reviews
// @Param id path string true "Review ID"
// @Success 204 {string} string "no content"
// @Security BearerAuth
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.reviews.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
