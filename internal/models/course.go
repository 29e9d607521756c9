package models

import "time"

// Field length limits shared by the API and the page forms.
const (
	MaxTitleLen       = 30
	MaxNameLen        = 30
	MaxDescriptionLen = 1000
	MaxReviewTextLen  = 100
)

// Course represents a course owned by a user.
type Course struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseDetail is a course joined with its owner's username.
type CourseDetail struct {
	Course
	OwnerUsername string `db:"owner_username" json:"user"`
}

// CourseFilter captures filtering criteria for listing courses.
type CourseFilter struct {
	ListFilter
	Search string
}
