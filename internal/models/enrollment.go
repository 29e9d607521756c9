package models

import "time"

// Enrollment links one student to one course. The (course, student)
// pair is unique at the database level.
type Enrollment struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EnrollmentDetail is an enrollment joined with contextual names.
type EnrollmentDetail struct {
	Enrollment
	CourseTitle      string `db:"course_title" json:"course_title"`
	StudentFirstName string `db:"student_first_name" json:"student_first_name"`
	StudentLastName  string `db:"student_last_name" json:"student_last_name"`
}

// EnrollmentFilter captures filtering criteria for listing enrollments.
type EnrollmentFilter struct {
	ListFilter
	CourseID  string
	StudentID string
}
