package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-results-api/internal/models"
	appErrors "github.com/noah-isme/school-results-api/pkg/errors"
	"github.com/noah-isme/school-results-api/pkg/grading"
)

type resultRepository interface {
	List(ctx context.Context, filter models.ResultFilter) ([]models.ResultDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.ResultDetail, error)
	Exists(ctx context.Context, studentID, subjectID, examType, excludeID string) (bool, error)
	Create(ctx context.Context, result *models.Result) error
	Update(ctx context.Context, result *models.Result) error
	Delete(ctx context.Context, id string) error
}

// ResultRequest is the create and update payload for a result.
type ResultRequest struct {
	StudentID string   `json:"student_id" validate:"required"`
	SubjectID string   `json:"subject_id" validate:"required"`
	ClassID   string   `json:"class_id" validate:"required"`
	Marks     *float64 `json:"marks" validate:"required,gte=0"`
	ExamType  string   `json:"exam_type" validate:"required,max=100"`
	ExamDate  *string  `json:"exam_date" validate:"omitempty,datetime=2006-01-02"`
}

const duplicateResultMessage = "result already exists for this student, subject and exam type"

// ResultService records marks and stores the grade derived from them.
type ResultService struct {
	repo      resultRepository
	students  studentRepository
	subjects  subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

func NewResultService(repo resultRepository, students studentRepository, subjects subjectRepository, validate *validator.Validate, logger *zap.Logger) *ResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{repo: repo, students: students, subjects: subjects, validator: validate, logger: logger}
}

func (s *ResultService) List(ctx context.Context, filter models.ResultFilter) ([]models.ResultDetail, *models.Pagination, error) {
	results, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "failed to list results")
	}
	return results, pagination(filter.Page, filter.PageSize, total), nil
}

func (s *ResultService) Get(ctx context.Context, id string) (*models.ResultDetail, error) {
	result, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return nil, storeError(err, "failed to load result")
	}
	return result, nil
}

func (s *ResultService) Create(ctx context.Context, req ResultRequest) (*models.ResultDetail, error) {
	result, err := s.prepare(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, result); err != nil {
		return nil, writeError(err, "failed to create result", duplicateResultMessage)
	}
	s.logger.Info("result recorded",
		zap.String("result_id", result.ID),
		zap.String("student_id", result.StudentID),
		zap.String("subject_id", result.SubjectID),
		zap.String("grade", result.Grade))
	return s.Get(ctx, result.ID)
}

func (s *ResultService) Update(ctx context.Context, id string, req ResultRequest) (*models.ResultDetail, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	result, err := s.prepare(ctx, req, id)
	if err != nil {
		return nil, err
	}
	result.ID = existing.ID
	result.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, result); err != nil {
		return nil, writeError(err, "failed to update result", duplicateResultMessage)
	}
	return s.Get(ctx, id)
}

func (s *ResultService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "failed to delete result")
	}
	return nil
}

// prepare validates the payload against the student and subject and derives the grade
// from the subject's current max marks.
func (s *ResultService) prepare(ctx context.Context, req ResultRequest, excludeID string) (*models.Result, error) {
	req.ExamType = strings.TrimSpace(req.ExamType)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid result payload")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student does not exist")
		}
		return nil, storeError(err, "failed to load student")
	}
	if student.ClassID != req.ClassID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student does not belong to the given class")
	}

	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "subject does not exist")
		}
		return nil, storeError(err, "failed to load subject")
	}

	maxMarks := subject.MaxMarks
	if maxMarks <= 0 {
		maxMarks = grading.DefaultMaxMarks
	}
	marks := *req.Marks
	if marks > float64(maxMarks) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("marks must be between 0 and %d", maxMarks))
	}

	exists, err := s.repo.Exists(ctx, req.StudentID, req.SubjectID, req.ExamType, excludeID)
	if err != nil {
		return nil, storeError(err, "failed to check result")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, duplicateResultMessage)
	}

	derived := grading.Calculate(marks, maxMarks)
	result := &models.Result{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		ClassID:   req.ClassID,
		Marks:     marks,
		Grade:     derived.Grade,
		GPA:       derived.GPA,
		ExamType:  req.ExamType,
	}
	if req.ExamDate != nil {
		examDate, err := time.Parse(dateLayout, *req.ExamDate)
		if err != nil {
			return nil, validationError(err, "exam_date must be YYYY-MM-DD")
		}
		result.ExamDate = &examDate
	}
	return result, nil
}
