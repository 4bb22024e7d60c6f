package models

import "time"

// Student is a learner identified by roll within a class.
type Student struct {
	ID          string     `db:"id" json:"id"`
	Roll        string     `db:"roll" json:"roll"`
	Name        string     `db:"name" json:"name"`
	FatherName  *string    `db:"father_name" json:"father_name,omitempty"`
	MotherName  *string    `db:"mother_name" json:"mother_name,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      *string    `db:"gender" json:"gender,omitempty"`
	Address     *string    `db:"address" json:"address,omitempty"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	ClassID     string     `db:"class_id" json:"class_id"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// StudentDetail contains student information with the class name.
type StudentDetail struct {
	Student
	ClassName string `db:"class_name" json:"class_name"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	ClassID   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
