package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dverenik/coursegrade/internal/models"
	"github.com/dverenik/coursegrade/internal/service"
)

// Students renders the student list.
func (h *Handler) Students(c *gin.Context) {
	h.renderStudents(c, "")
}

func (h *Handler) renderStudents(c *gin.Context, errMsg string) {
	filter := models.StudentFilter{ListFilter: listFilter()}
	students, _, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		c.HTML(http.StatusOK, "students.html", gin.H{"Error": errMessage(err)})
		return
	}
	data := gin.H{"Students": students}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	c.HTML(http.StatusOK, "students.html", data)
}

// StudentDetail renders one student profile.
func (h *Handler) StudentDetail(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.HTML(http.StatusOK, "student.html", gin.H{"Error": errMessage(err)})
		return
	}
	c.HTML(http.StatusOK, "student.html", gin.H{"Student": student})
}

// CreateStudentForm renders the empty student profile form.
func (h *Handler) CreateStudentForm(c *gin.Context) {
	c.HTML(http.StatusOK, "student_form.html", gin.H{"Action": "/create_student/"})
}

// CreateStudent handles the student profile form post. A second
// profile attempt renders the already-created message inline.
func (h *Handler) CreateStudent(c *gin.Context) {
	var req service.CreateStudentRequest
	_ = c.ShouldBind(&req)
	if _, err := h.students.Create(c.Request.Context(), actor(c), req); err != nil {
		c.HTML(http.StatusOK, "student_form.html", gin.H{
			"Error": errMessage(err), "Action": "/create_student/",
			"FirstName": req.FirstName, "LastName": req.LastName, "DateOfReceipt": req.DateOfReceipt,
		})
		return
	}
	c.Redirect(http.StatusFound, "/students/")
}

// EditStudentForm renders the student form prefilled.
func (h *Handler) EditStudentForm(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.HTML(http.StatusOK, "student_form.html", gin.H{"Error": errMessage(err)})
		return
	}
	c.HTML(http.StatusOK, "student_form.html", gin.H{
		"Action":    "/edit_student/" + student.ID + "/",
		"FirstName": student.FirstName, "LastName": student.LastName,
		"DateOfReceipt": student.DateOfReceipt.Format("2006-01-02"),
	})
}

// EditStudent handles the student edit form post.
func (h *Handler) EditStudent(c *gin.Context) {
	var req service.UpdateStudentRequest
	_ = c.ShouldBind(&req)
	if _, err := h.students.Update(c.Request.Context(), actor(c), c.Param("id"), req); err != nil {
		c.HTML(http.StatusOK, "student_form.html", gin.H{
			"Error": errMessage(err), "Action": "/edit_student/" + c.Param("id") + "/",
			"FirstName": req.FirstName, "LastName": req.LastName, "DateOfReceipt": req.DateOfReceipt,
		})
		return
	}
	c.Redirect(http.StatusFound, "/students/")
}

// DeleteStudent removes a student profile from a plain link.
func (h *Handler) DeleteStudent(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		h.renderStudents(c, errMessage(err))
		return
	}
	c.Redirect(http.StatusFound, "/students/")
}

// StudentCourses lists the courses a student is enrolled in.
func (h *Handler) StudentCourses(c *gin.Context) {
	if _, err := h.students.Get(c.Request.Context(), c.Param("id")); err != nil {
		c.HTML(http.StatusOK, "courses.html", gin.H{"Error": errMessage(err)})
		return
	}
	courses, err := h.enrollments.CoursesByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.HTML(http.StatusOK, "courses.html", gin.H{"Error": errMessage(err)})
		return
	}
	c.HTML(http.StatusOK, "courses.html", gin.H{"Courses": courses})
}
