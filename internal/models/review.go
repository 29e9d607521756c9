package models

import "time"

// Grade bounds. A review without an explicit grade gets DefaultGrade.
const (
	MinGrade     = 1
	MaxGrade     = 5
	DefaultGrade = 5
)

// Review is one student's graded opinion of one course.
type Review struct {
	ID         string    `db:"id" json:"id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	ReviewText *string   `db:"review_text" json:"review_text"`
	Grade      int       `db:"grade" json:"grade"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ReviewDetail is a review joined with its course title, the reviewing
// student's name and the user owning that student.
type ReviewDetail struct {
	Review
	CourseTitle      string `db:"course_title" json:"course_title"`
	StudentFirstName string `db:"student_first_name" json:"student_first_name"`
	OwnerUserID      string `db:"owner_user_id" json:"-"`
}

// ReviewFilter captures filtering criteria for listing reviews.
type ReviewFilter struct {
	ListFilter
	CourseID  string
	StudentID string
}
