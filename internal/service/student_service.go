package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-results-api/internal/models"
	appErrors "github.com/noah-isme/school-results-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	FindByRollAndClass(ctx context.Context, roll, classID string) (*models.StudentDetail, error)
	ExistsByRoll(ctx context.Context, roll, classID, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// StudentRequest is the create and update payload for a student.
type StudentRequest struct {
	Roll        string  `json:"roll" validate:"required,max=20"`
	Name        string  `json:"name" validate:"required,max=150"`
	ClassID     string  `json:"class_id" validate:"required"`
	FatherName  *string `json:"father_name" validate:"omitempty,max=150"`
	MotherName  *string `json:"mother_name" validate:"omitempty,max=150"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=male female other"`
	Address     *string `json:"address" validate:"omitempty,max=300"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
}

// StudentService manages student records.
type StudentService struct {
	repo      studentRepository
	classes   classRepository
	validator *validator.Validate
	logger    *zap.Logger
}

func NewStudentService(repo studentRepository, classes classRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, classes: classes, validator: validate, logger: logger}
}

func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "failed to list students")
	}
	return students, pagination(filter.Page, filter.PageSize, total), nil
}

func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, storeError(err, "failed to load student")
	}
	return student, nil
}

func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.StudentDetail, error) {
	student, err := s.prepare(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, writeError(err, "failed to create student", "roll already exists in this class")
	}
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("class_id", student.ClassID))
	return s.Get(ctx, student.ID)
}

func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) (*models.StudentDetail, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	student, err := s.prepare(ctx, req, id)
	if err != nil {
		return nil, err
	}
	student.ID = existing.ID
	student.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, writeError(err, "failed to update student", "roll already exists in this class")
	}
	return s.Get(ctx, id)
}

// Delete removes a student and, through the store, all of their results.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "failed to delete student")
	}
	return nil
}

func (s *StudentService) prepare(ctx context.Context, req StudentRequest, excludeID string) (*models.Student, error) {
	req.Roll = strings.TrimSpace(req.Roll)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}

	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "class does not exist")
		}
		return nil, storeError(err, "failed to load class")
	}

	exists, err := s.repo.ExistsByRoll(ctx, req.Roll, req.ClassID, excludeID)
	if err != nil {
		return nil, storeError(err, "failed to check student roll")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "roll already exists in this class")
	}

	student := &models.Student{
		Roll:       req.Roll,
		Name:       req.Name,
		ClassID:    req.ClassID,
		FatherName: req.FatherName,
		MotherName: req.MotherName,
		Gender:     req.Gender,
		Address:    req.Address,
		Phone:      req.Phone,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			return nil, validationError(err, "date_of_birth must be YYYY-MM-DD")
		}
		student.DateOfBirth = &dob
	}
	return student, nil
}
