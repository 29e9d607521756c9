package models

import "time"

// User represents an application account stored in the users table.
// Staff accounts bypass ownership checks on every entity.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Staff        bool      `db:"staff" json:"staff"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// ListFilter captures common paging and sorting criteria for list queries.
type ListFilter struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
