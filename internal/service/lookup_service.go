package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-results-api/internal/dto"
	"github.com/noah-isme/school-results-api/internal/models"
	appErrors "github.com/noah-isme/school-results-api/pkg/errors"
	"github.com/noah-isme/school-results-api/pkg/grading"
)

type lookupStudentRepository interface {
	FindByRollAndClass(ctx context.Context, roll, classID string) (*models.StudentDetail, error)
}

type lookupResultRepository interface {
	ListByStudent(ctx context.Context, studentID, classID, examType string) ([]models.ResultDetail, error)
}

type lookupRecorder interface {
	RecordLookup(outcome string)
}

// SearchRequest identifies a student by roll within a class.
type SearchRequest struct {
	Roll     string `form:"roll" validate:"required"`
	ClassID  string `form:"classId" validate:"required"`
	ExamType string `form:"examType"`
}

// LookupService builds the public view of a student's results.
type LookupService struct {
	students  lookupStudentRepository
	results   lookupResultRepository
	metrics   lookupRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

func NewLookupService(students lookupStudentRepository, results lookupResultRepository, metrics lookupRecorder, validate *validator.Validate, logger *zap.Logger) *LookupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{students: students, results: results, metrics: metrics, validator: validate, logger: logger}
}

// SearchStudent resolves the student profile for roll and class.
func (s *LookupService) SearchStudent(ctx context.Context, req SearchRequest) (*models.StudentDetail, error) {
	req.Roll = strings.TrimSpace(req.Roll)
	req.ClassID = strings.TrimSpace(req.ClassID)
	if err := s.validator.Struct(req); err != nil {
		s.record(LookupInvalid)
		return nil, validationError(err, "roll and classId are required")
	}

	student, err := s.students.FindByRollAndClass(ctx, req.Roll, req.ClassID)
	if err != nil {
		if err == sql.ErrNoRows {
			s.record(LookupNotFound)
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		s.record(LookupError)
		return nil, storeError(err, "failed to search student")
	}
	return student, nil
}

// SearchResults grades every result on its subject's current max marks. The stored
// grade and gpa are ignored and never written back.
func (s *LookupService) SearchResults(ctx context.Context, req SearchRequest) (*dto.StudentResultView, error) {
	student, err := s.SearchStudent(ctx, req)
	if err != nil {
		return nil, err
	}

	examType := strings.TrimSpace(req.ExamType)
	results, err := s.results.ListByStudent(ctx, student.ID, student.ClassID, examType)
	if err != nil {
		s.record(LookupError)
		return nil, storeError(err, "failed to load results")
	}

	view := &dto.StudentResultView{
		Student:  *student,
		ExamType: examType,
		Results:  make([]dto.ResultLine, 0, len(results)),
		Passed:   len(results) > 0,
	}
	entries := make([]grading.Entry, 0, len(results))
	for _, r := range results {
		maxMarks := r.MaxMarks
		if maxMarks <= 0 {
			maxMarks = grading.DefaultMaxMarks
		}
		derived := grading.Calculate(r.Marks, maxMarks)
		passed := grading.IsPassing(r.Marks, maxMarks)

		view.Results = append(view.Results, dto.ResultLine{
			ResultID:     r.ID,
			SubjectID:    r.SubjectID,
			SubjectName:  r.SubjectName,
			SubjectCode:  r.SubjectCode,
			ExamType:     r.ExamType,
			Marks:        r.Marks,
			MaxMarks:     maxMarks,
			DisplayMarks: grading.FormatMarks(r.Marks, maxMarks),
			Grade:        derived.Grade,
			GradePoint:   derived.GPA,
			Passed:       passed,
		})
		entries = append(entries, grading.Entry{Marks: r.Marks, MaxMarks: maxMarks})
		view.Passed = view.Passed && passed
	}
	view.OverallGPA = grading.Round2(grading.OverallGPA(entries))

	s.record(LookupFound)
	return view, nil
}

func (s *LookupService) record(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordLookup(outcome)
	}
}
