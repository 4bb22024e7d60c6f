package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-results-api/internal/models"
	appErrors "github.com/noah-isme/school-results-api/pkg/errors"
	"github.com/noah-isme/school-results-api/pkg/grading"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
	CountResults(ctx context.Context, subjectID string) (int, error)
}

// SubjectRequest is the create and update payload for a subject.
// MaxMarks defaults to 100 when omitted.
type SubjectRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Code        string  `json:"code" validate:"required,max=20"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	MaxMarks    int     `json:"max_marks"`
}

// SubjectService manages subjects and their grading scale.
type SubjectService struct {
	repo      subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

func NewSubjectService(repo subjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, validator: validate, logger: logger}
}

func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "failed to list subjects")
	}
	return subjects, pagination(filter.Page, filter.PageSize, total), nil
}

func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, storeError(err, "failed to load subject")
	}
	return subject, nil
}

func (s *SubjectService) normalize(req *SubjectRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.MaxMarks == 0 {
		req.MaxMarks = grading.DefaultMaxMarks
	}
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid subject payload")
	}
	if !grading.IsSupportedMaxMarks(req.MaxMarks) {
		return appErrors.Clone(appErrors.ErrValidation, "max_marks must be 50 or 100")
	}
	return nil
}

func (s *SubjectService) Create(ctx context.Context, req SubjectRequest) (*models.Subject, error) {
	if err := s.normalize(&req); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCode(ctx, req.Code, "")
	if err != nil {
		return nil, storeError(err, "failed to check subject code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject code already exists")
	}

	subject := &models.Subject{Name: req.Name, Code: req.Code, Description: req.Description, MaxMarks: req.MaxMarks}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, writeError(err, "failed to create subject", "subject code already exists")
	}
	return subject, nil
}

// Update changes a subject. Changing MaxMarks regrades existing results at read time;
// stored grades follow after the next recalculation.
func (s *SubjectService) Update(ctx context.Context, id string, req SubjectRequest) (*models.Subject, error) {
	if err := s.normalize(&req); err != nil {
		return nil, err
	}

	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCode(ctx, req.Code, id)
	if err != nil {
		return nil, storeError(err, "failed to check subject code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject code already exists")
	}

	if subject.MaxMarks != req.MaxMarks {
		count, err := s.repo.CountResults(ctx, id)
		if err != nil {
			return nil, storeError(err, "failed to count subject results")
		}
		if count > 0 {
			s.logger.Warn("subject scale changed with existing results",
				zap.String("subject_id", id),
				zap.Int("from_max_marks", subject.MaxMarks),
				zap.Int("to_max_marks", req.MaxMarks),
				zap.Int("results", count))
		}
	}

	subject.Name = req.Name
	subject.Code = req.Code
	subject.Description = req.Description
	subject.MaxMarks = req.MaxMarks
	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, writeError(err, "failed to update subject", "subject code already exists")
	}
	return subject, nil
}

func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "failed to delete subject")
	}
	return nil
}
