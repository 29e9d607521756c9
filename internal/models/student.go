package models

import "time"

// Student represents a student profile. Each user owns at most one.
type Student struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	DateOfReceipt time.Time `db:"date_of_receipt" json:"date_of_receipt"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail is a student joined with its owner's username.
type StudentDetail struct {
	Student
	OwnerUsername string `db:"owner_username" json:"user"`
}

// StudentFilter captures filtering criteria for listing students.
type StudentFilter struct {
	ListFilter
	Search string
}
