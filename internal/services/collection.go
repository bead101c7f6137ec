package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tabwatch/tabwatch/internal/models"
)

// StatsLister samples current table stats from a monitored instance.
type StatsLister interface {
	List(ctx context.Context) ([]models.TableSnapshot, error)
}

// SnapshotWriter appends one snapshot to the capture history.
type SnapshotWriter interface {
	Save(ctx context.Context, snapshot *models.TableSnapshot) error
}

// CollectionService captures one round of table snapshots: sample the
// monitored instance, append every snapshot to each configured store.
type CollectionService struct {
	lister  StatsLister
	writers []SnapshotWriter
	logger  *zap.Logger
}

// CollectionServiceOpt customizes a CollectionService.
type CollectionServiceOpt func(*CollectionService)

// WithCollectionLogger sets the service logger.
func WithCollectionLogger(l *zap.Logger) CollectionServiceOpt {
	return func(s *CollectionService) { s.logger = l }
}

// NewCollectionService creates a CollectionService.
func NewCollectionService(lister StatsLister, writers []SnapshotWriter, opts ...CollectionServiceOpt) *CollectionService {
	s := &CollectionService{
		lister:  lister,
		writers: writers,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one capture pass.
func (s *CollectionService) Run(ctx context.Context) error {
	start := time.Now()

	snapshots, err := s.lister.List(ctx)
	if err != nil {
		return fmt.Errorf("list table stats: %w", err)
	}

	for i := range snapshots {
		for _, w := range s.writers {
			if err := w.Save(ctx, &snapshots[i]); err != nil {
				return fmt.Errorf("save snapshot %s.%s: %w", snapshots[i].Schema, snapshots[i].Table, err)
			}
		}
	}

	s.logger.Info("capture pass finished",
		zap.Int("tables", len(snapshots)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
