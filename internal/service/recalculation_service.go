package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-results-api/internal/dto"
	"github.com/noah-isme/school-results-api/internal/models"
	"github.com/noah-isme/school-results-api/pkg/grading"
)

type recalculationRepository interface {
	ListAll(ctx context.Context) ([]models.ResultDetail, error)
	UpdateGrade(ctx context.Context, id, grade string, gpa float64) error
}

type recalculationRecorder interface {
	RecordRecalculation(scanned, updated int, duration time.Duration, err error)
}

// RecalculationOptions tunes the grade repair run.
type RecalculationOptions struct {
	// UseSubjectScale grades each result on its subject's max marks instead of the 100-mark scale.
	UseSubjectScale bool
}

// RecalculationService rewrites stored grades that no longer match their marks.
type RecalculationService struct {
	repo    recalculationRepository
	metrics recalculationRecorder
	opts    RecalculationOptions
	logger  *zap.Logger
	now     func() time.Time
}

func NewRecalculationService(repo recalculationRepository, metrics recalculationRecorder, opts RecalculationOptions, logger *zap.Logger) *RecalculationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecalculationService{repo: repo, metrics: metrics, opts: opts, logger: logger, now: time.Now}
}

// Run scans every result and updates only those whose stored grade or gpa differs
// from the recomputed value. Any store failure aborts the remaining work; rows
// already updated stay updated.
func (s *RecalculationService) Run(ctx context.Context) (*dto.RecalculationSummary, error) {
	started := s.now()
	summary := &dto.RecalculationSummary{UseSubjectScale: s.opts.UseSubjectScale, StartedAt: started.UTC()}

	results, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, s.finish(summary, started, storeError(err, "failed to load results for recalculation"))
	}
	summary.TotalResults = len(results)

	for _, result := range results {
		if err := ctx.Err(); err != nil {
			return nil, s.finish(summary, started, err)
		}

		maxMarks := grading.DefaultMaxMarks
		if s.opts.UseSubjectScale && result.MaxMarks > 0 {
			maxMarks = result.MaxMarks
		}
		derived := grading.Calculate(result.Marks, maxMarks)
		if derived.Grade == result.Grade && derived.GPA == result.GPA {
			continue
		}

		if err := s.repo.UpdateGrade(ctx, result.ID, derived.Grade, derived.GPA); err != nil {
			s.logger.Error("recalculation aborted",
				zap.String("result_id", result.ID),
				zap.Int("updated", summary.UpdatedResults),
				zap.Error(err))
			return nil, s.finish(summary, started, storeError(err, "failed to update result grade"))
		}
		summary.UpdatedResults++
	}

	if err := s.finish(summary, started, nil); err != nil {
		return nil, err
	}
	s.logger.Info("recalculation completed",
		zap.Int("total_results", summary.TotalResults),
		zap.Int("updated_results", summary.UpdatedResults),
		zap.Bool("use_subject_scale", summary.UseSubjectScale),
		zap.Int64("duration_ms", summary.DurationMillis))
	return summary, nil
}

func (s *RecalculationService) finish(summary *dto.RecalculationSummary, started time.Time, err error) error {
	elapsed := s.now().Sub(started)
	summary.DurationMillis = elapsed.Milliseconds()
	if s.metrics != nil {
		s.metrics.RecordRecalculation(summary.TotalResults, summary.UpdatedResults, elapsed, err)
	}
	return err
}
