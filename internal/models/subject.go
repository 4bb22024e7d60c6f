package models

import "time"

// Subject is an examined subject. MaxMarks selects the grading scale.
type Subject struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Description *string   `db:"description" json:"description,omitempty"`
	MaxMarks    int       `db:"max_marks" json:"max_marks"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Search    string
	MaxMarks  int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
