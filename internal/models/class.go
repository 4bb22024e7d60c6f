package models

import "time"

// Class is a class or section that students belong to.
type Class struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ClassSubject assigns a subject to a class.
type ClassSubject struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClassSubjectDetail adds class and subject labels for listings.
type ClassSubjectDetail struct {
	ClassSubject
	ClassName   string `db:"class_name" json:"class_name"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
	MaxMarks    int    `db:"max_marks" json:"max_marks"`
}

type ClassSubjectFilter struct {
	ClassID   string
	SubjectID string
}
