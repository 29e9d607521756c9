package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dverenik/coursegrade/internal/models"
	"github.com/dverenik/coursegrade/internal/service"
)

// Courses renders the course list.
func (h *Handler) Courses(c *gin.Context) {
	h.renderCourses(c, "")
}

func (h *Handler) renderCourses(c *gin.Context, errMsg string) {
	filter := models.CourseFilter{ListFilter: listFilter()}
	courses, _, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		c.HTML(http.StatusOK, "courses.html", gin.H{"Error": errMessage(err)})
		return
	}
	data := gin.H{"Courses": courses}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	c.HTML(http.StatusOK, "courses.html", data)
}

// CourseDetail renders one course. A viewer without a student profile
// is sent to the profile form first; enrollment state is shown for the
// viewer's own student.
func (h *Handler) CourseDetail(c *gin.Context) {
	student, err := h.students.GetByOwner(c.Request.Context(), actor(c).UserID)
	if err != nil {
		if isNoProfile(err) {
			c.Redirect(http.StatusFound, "/create_student/")
			return
		}
		c.HTML(http.StatusOK, "course.html", gin.H{"Error": errMessage(err)})
		return
	}

	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.HTML(http.StatusOK, "course.html", gin.H{"Error": errMessage(err)})
		return
	}
	enrolled, err := h.enrollments.IsEnrolled(c.Request.Context(), course.ID, student.ID)
	if err != nil {
		c.HTML(http.StatusOK, "course.html", gin.H{"Error": errMessage(err)})
		return
	}
	c.HTML(http.StatusOK, "course.html", gin.H{"Course": course, "Enrolled": enrolled})
}

// CreateCourseForm renders the empty course form.
func (h *Handler) CreateCourseForm(c *gin.Context) {
	c.HTML(http.StatusOK, "course_form.html", gin.H{"Action": "/create_course/"})
}

// CreateCourse handles the course creation form post.
func (h *Handler) CreateCourse(c *gin.Context) {
	var req service.CreateCourseRequest
	_ = c.ShouldBind(&req)
	if _, err := h.courses.Create(c.Request.Context(), actor(c), req); err != nil {
		c.HTML(http.StatusOK, "course_form.html", gin.H{
			"Error": errMessage(err), "Action": "/create_course/",
			"Title": req.Title, "Description": req.Description,
		})
		return
	}
	c.Redirect(http.StatusFound, "/courses/")
}

// EditCourseForm renders the course form prefilled.
func (h *Handler) EditCourseForm(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.HTML(http.StatusOK, "course_form.html", gin.H{"Error": errMessage(err)})
		return
	}
	c.HTML(http.StatusOK, "course_form.html", gin.H{
		"Action": "/edit_course/" + course.ID + "/",
		"Title":  course.Title, "Description": course.Description,
	})
}

// EditCourse handles the course edit form post. A non-owner sees an
// inline error, not a status code.
func (h *Handler) EditCourse(c *gin.Context) {
	var req service.UpdateCourseRequest
	_ = c.ShouldBind(&req)
	if _, err := h.courses.Update(c.Request.Context(), actor(c), c.Param("id"), req); err != nil {
		c.HTML(http.StatusOK, "course_form.html", gin.H{
			"Error": errMessage(err), "Action": "/edit_course/" + c.Param("id") + "/",
			"Title": req.Title, "Description": req.Description,
		})
		return
	}
	c.Redirect(http.StatusFound, "/courses/")
}

// DeleteCourse removes a course from a plain link.
func (h *Handler) DeleteCourse(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		h.renderCourses(c, errMessage(err))
		return
	}
	c.Redirect(http.StatusFound, "/courses/")
}

// Enroll puts the viewer's student into the course. Conflicts render
// inline on the course list.
func (h *Handler) Enroll(c *gin.Context) {
	if _, err := h.enrollments.Enroll(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		if isNoProfile(err) {
			c.Redirect(http.StatusFound, "/create_student/")
			return
		}
		h.renderCourses(c, errMessage(err))
		return
	}
	c.Redirect(http.StatusFound, "/courses/")
}

// Unenroll removes the viewer's student from the course.
func (h *Handler) Unenroll(c *gin.Context) {
	if err := h.enrollments.Unenroll(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		if isNoProfile(err) {
			c.Redirect(http.StatusFound, "/create_student/")
			return
		}
		h.renderCourses(c, errMessage(err))
		return
	}
	c.Redirect(http.StatusFound, "/courses/")
}

// CourseStudents lists the students enrolled in a course.
func (h *Handler) CourseStudents(c *gin.Context) {
	if _, err := h.courses.Get(c.Request.Context(), c.Param("id")); err != nil {
		c.HTML(http.StatusOK, "students.html", gin.H{"Error": errMessage(err)})
		return
	}
	students, err := h.enrollments.StudentsByCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.HTML(http.StatusOK, "students.html", gin.H{"Error": errMessage(err)})
		return
	}
	c.HTML(http.StatusOK, "students.html", gin.H{"Students": students})
}

// CourseReviews lists the reviews of a course.
func (h *Handler) CourseReviews(c *gin.Context) {
	if _, err := h.courses.Get(c.Request.Context(), c.Param("id")); err != nil {
		c.HTML(http.StatusOK, "reviews.html", gin.H{"Error": errMessage(err)})
		return
	}
	filter := models.ReviewFilter{ListFilter: listFilter(), CourseID: c.Param("id")}
	reviews, _, err := h.reviews.List(c.Request.Context(), filter)
	if err != nil {
		c.HTML(http.StatusOK, "reviews.html", gin.H{"Error": errMessage(err)})
		return
	}
	c.HTML(http.StatusOK, "reviews.html", gin.H{"Reviews": reviews})
}
