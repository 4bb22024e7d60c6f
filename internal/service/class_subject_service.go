package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-results-api/internal/models"
	appErrors "github.com/noah-isme/school-results-api/pkg/errors"
)

type classSubjectRepository interface {
	List(ctx context.Context, filter models.ClassSubjectFilter) ([]models.ClassSubjectDetail, error)
	FindByID(ctx context.Context, id string) (*models.ClassSubjectDetail, error)
	Exists(ctx context.Context, classID, subjectID string) (bool, error)
	Create(ctx context.Context, item *models.ClassSubject) error
	Delete(ctx context.Context, id string) error
}

// AssignSubjectRequest assigns one subject to one class.
type AssignSubjectRequest struct {
	ClassID   string `json:"class_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
}

// ClassSubjectService manages which subjects each class takes.
type ClassSubjectService struct {
	repo      classSubjectRepository
	classes   classRepository
	subjects  subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

func NewClassSubjectService(repo classSubjectRepository, classes classRepository, subjects subjectRepository, validate *validator.Validate, logger *zap.Logger) *ClassSubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassSubjectService{repo: repo, classes: classes, subjects: subjects, validator: validate, logger: logger}
}

func (s *ClassSubjectService) List(ctx context.Context, filter models.ClassSubjectFilter) ([]models.ClassSubjectDetail, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "failed to list class subjects")
	}
	return items, nil
}

// Assign links a subject to a class. Assigning the same pair twice is a conflict.
func (s *ClassSubjectService) Assign(ctx context.Context, req AssignSubjectRequest) (*models.ClassSubjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid class subject payload")
	}

	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "class does not exist")
		}
		return nil, storeError(err, "failed to load class")
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "subject does not exist")
		}
		return nil, storeError(err, "failed to load subject")
	}

	exists, err := s.repo.Exists(ctx, req.ClassID, req.SubjectID)
	if err != nil {
		return nil, storeError(err, "failed to check class subject")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject already assigned to this class")
	}

	item := &models.ClassSubject{ClassID: req.ClassID, SubjectID: req.SubjectID}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, writeError(err, "failed to assign subject", "subject already assigned to this class")
	}

	detail, err := s.repo.FindByID(ctx, item.ID)
	if err != nil {
		return nil, storeError(err, "failed to load class subject")
	}
	return detail, nil
}

func (s *ClassSubjectService) Remove(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "class subject not found")
		}
		return storeError(err, "failed to load class subject")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "failed to remove class subject")
	}
	return nil
}
