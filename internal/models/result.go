package models

import "time"

// Result is a student's marks in one subject for one exam type.
// Grade and GPA are derived from Marks and the subject's MaxMarks.
type Result struct {
	ID        string     `db:"id" json:"id"`
	StudentID string     `db:"student_id" json:"student_id"`
	SubjectID string     `db:"subject_id" json:"subject_id"`
	ClassID   string     `db:"class_id" json:"class_id"`
	Marks     float64    `db:"marks" json:"marks"`
	Grade     string     `db:"grade" json:"grade"`
	GPA       float64    `db:"gpa" json:"gpa"`
	ExamType  string     `db:"exam_type" json:"exam_type"`
	ExamDate  *time.Time `db:"exam_date" json:"exam_date,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// ResultDetail joins a result with its student, subject and class.
type ResultDetail struct {
	Result
	StudentRoll string `db:"student_roll" json:"student_roll"`
	StudentName string `db:"student_name" json:"student_name"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
	MaxMarks    int    `db:"max_marks" json:"max_marks"`
	ClassName   string `db:"class_name" json:"class_name"`
}

// ResultFilter defines filter criteria for listing results.
type ResultFilter struct {
	StudentID string
	SubjectID string
	ClassID   string
	ExamType  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
