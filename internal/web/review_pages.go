package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dverenik/coursegrade/internal/models"
	"github.com/dverenik/coursegrade/internal/service"
)

var gradeChoices = []int{1, 2, 3, 4, 5}

// Reviews renders the review list.
func (h *Handler) Reviews(c *gin.Context) {
	h.renderReviews(c, "")
}

func (h *Handler) renderReviews(c *gin.Context, errMsg string) {
	filter := models.ReviewFilter{ListFilter: listFilter()}
	reviews, _, err := h.reviews.List(c.Request.Context(), filter)
	if err != nil {
		c.HTML(http.StatusOK, "reviews.html", gin.H{"Error": errMessage(err)})
		return
	}
	data := gin.H{"Reviews": reviews}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	c.HTML(http.StatusOK, "reviews.html", data)
}

// ReviewDetail renders one review.
func (h *Handler) ReviewDetail(c *gin.Context) {
	review, err := h.reviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.HTML(http.StatusOK, "review.html", gin.H{"Error": errMessage(err)})
		return
	}
	c.HTML(http.StatusOK, "review.html", gin.H{"Review": review})
}

// CreateReviewForm renders the empty review form for a course.
func (h *Handler) CreateReviewForm(c *gin.Context) {
	c.HTML(http.StatusOK, "review_form.html", gin.H{
		"Action": "/create_review/" + c.Param("id") + "/",
		"Grades": gradeChoices, "Grade": models.DefaultGrade,
	})
}

// CreateReview handles the review form post. The reviewing student is
// the viewer's own; without a profile the viewer is sent to create one.
func (h *Handler) CreateReview(c *gin.Context) {
	var req service.CreateReviewRequest
	_ = c.ShouldBind(&req)
	req.CourseID = c.Param("id")
	if _, err := h.reviews.Create(c.Request.Context(), actor(c), req); err != nil {
		if isNoProfile(err) {
			c.Redirect(http.StatusFound, "/create_student/")
			return
		}
		text := ""
		if req.ReviewText != nil {
			text = *req.ReviewText
		}
		c.HTML(http.StatusOK, "review_form.html", gin.H{
			"Error": errMessage(err), "Action": "/create_review/" + c.Param("id") + "/",
			"Grades": gradeChoices, "Grade": req.Grade, "ReviewText": text,
		})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// EditReviewForm renders the review form prefilled.
func (h *Handler) EditReviewForm(c *gin.Context) {
	review, err := h.reviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.HTML(http.StatusOK, "review_form.html", gin.H{"Error": errMessage(err), "Grades": gradeChoices})
		return
	}
	text := ""
	if review.ReviewText != nil {
		text = *review.ReviewText
	}
	c.HTML(http.StatusOK, "review_form.html", gin.H{
		"Action": "/edit_review/" + review.ID + "/",
		"Grades": gradeChoices, "Grade": review.Grade, "ReviewText": text,
	})
}

// EditReview handles the review edit form post.
func (h *Handler) EditReview(c *gin.Context) {
	var req service.UpdateReviewRequest
	_ = c.ShouldBind(&req)
	if _, err := h.reviews.Update(c.Request.Context(), actor(c), c.Param("id"), req); err != nil {
		text := ""
		if req.ReviewText != nil {
			text = *req.ReviewText
		}
		c.HTML(http.StatusOK, "review_form.html", gin.H{
			"Error": errMessage(err), "Action": "/edit_review/" + c.Param("id") + "/",
			"Grades": gradeChoices, "Grade": req.Grade, "ReviewText": text,
		})
		return
	}
	c.Redirect(http.StatusFound, "/courses/")
}

// DeleteReview removes a review from a plain link.
func (h *Handler) DeleteReview(c *gin.Context) {
	if err := h.reviews.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		h.renderReviews(c, errMessage(err))
		return
	}
	c.Redirect(http.StatusFound, "/courses/")
}
