package dto

import "github.com/noah-isme/school-results-api/internal/models"

// StudentResultView is the public result sheet of one student.
type StudentResultView struct {
	Student    models.StudentDetail `json:"student"`
	ExamType   string               `json:"examType,omitempty"`
	Results    []ResultLine         `json:"results"`
	OverallGPA float64              `json:"overallGPA"`
	Passed     bool                 `json:"passed"`
}

// ResultLine is one subject row with a grade derived from the subject's current max marks.
type ResultLine struct {
	ResultID     string  `json:"resultId"`
	SubjectID    string  `json:"subjectId"`
	SubjectName  string  `json:"subjectName"`
	SubjectCode  string  `json:"subjectCode"`
	ExamType     string  `json:"examType"`
	Marks        float64 `json:"marks"`
	MaxMarks     int     `json:"maxMarks"`
	DisplayMarks string  `json:"displayMarks"`
	Grade        string  `json:"grade"`
	GradePoint   float64 `json:"gradePoint"`
	Passed       bool    `json:"passed"`
}
