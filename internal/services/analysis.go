package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tabwatch/tabwatch/internal/engine"
	"github.com/tabwatch/tabwatch/internal/models"
)

// Evaluator evaluates one metric request into a compared series.
type Evaluator interface {
	Evaluate(ctx context.Context, req engine.Request) (engine.Series, error)
}

// ReportWriter persists a composed report.
type ReportWriter interface {
	// Save materializes the report, replacing any previous one.
	Save(ctx context.Context, report *models.Report) error
}

// Notifier delivers flagged rows to an alert consumer.
type Notifier interface {
	Notify(ctx context.Context, rows []models.ReportRow) error
}

// AnalysisService runs one full analysis pass: evaluate every metric of
// the job, compose and flag the joined series, persist the report and
// notify about flagged rows. Each pass is a pure function of the source
// snapshots and the read-only registry, so passes are safe to repeat.
type AnalysisService struct {
	evaluator Evaluator
	job       models.AnalysisJob
	writers   []ReportWriter
	notifier  Notifier
	logger    *zap.Logger
	now       func() time.Time
}

// AnalysisServiceOpt customizes an AnalysisService.
type AnalysisServiceOpt func(*AnalysisService)

// WithNotifier attaches an alert notifier for flagged rows.
func WithNotifier(n Notifier) AnalysisServiceOpt {
	return func(s *AnalysisService) { s.notifier = n }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) AnalysisServiceOpt {
	return func(s *AnalysisService) { s.logger = l }
}

// WithClock overrides the window clock.
func WithClock(now func() time.Time) AnalysisServiceOpt {
	return func(s *AnalysisService) { s.now = now }
}

// NewAnalysisService creates an AnalysisService for the given job.
func NewAnalysisService(
	evaluator Evaluator,
	job models.AnalysisJob,
	writers []ReportWriter,
	opts ...AnalysisServiceOpt,
) *AnalysisService {
	s := &AnalysisService{
		evaluator: evaluator,
		job:       job,
		writers:   writers,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one analysis pass. Configuration-time errors and source
// failures abort the run with no partial output; numeric edge cases
// inside the engine never do.
func (s *AnalysisService) Run(ctx context.Context) error {
	now := s.now()
	window := models.Window{From: now.AddDate(0, 0, -s.job.WindowDays), To: now}

	series := make([]engine.Series, 0, len(s.job.Metrics))
	for _, m := range s.job.Metrics {
		evaluated, err := s.evaluator.Evaluate(ctx, engine.Request{
			Metric:      m.Name,
			Grain:       s.job.Grain,
			Window:      window,
			Comparisons: m.Comparisons,
		})
		if err != nil {
			return fmt.Errorf("evaluate metric %s: %w", m.Name, err)
		}
		s.logger.Debug("metric evaluated",
			zap.String("metric", m.Name),
			zap.String("grain", s.job.Grain),
			zap.Int("points", len(evaluated.Points)),
		)
		series = append(series, evaluated)
	}

	report, err := engine.Compose(series, s.job.Rules)
	if err != nil {
		return fmt.Errorf("compose report: %w", err)
	}

	for _, w := range s.writers {
		if err := w.Save(ctx, report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}

	flagged := report.FlaggedRows()
	s.logger.Info("analysis pass finished",
		zap.String("grain", report.Grain),
		zap.Int("rows", len(report.Rows)),
		zap.Int("flagged", len(flagged)),
	)

	if s.notifier != nil && len(flagged) > 0 {
		if err := s.notifier.Notify(ctx, flagged); err != nil {
			return fmt.Errorf("notify flagged rows: %w", err)
		}
	}
	return nil
}
