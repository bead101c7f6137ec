package memory

import (
	"context"
	"sync"

	"github.com/tabwatch/tabwatch/internal/models"
)

// ReportRepository keeps the most recent composed report in memory. The
// HTTP handlers read whatever the last analysis run produced.
type ReportRepository struct {
	mu     sync.RWMutex
	report *models.Report
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository() *ReportRepository {
	return &ReportRepository{}
}

// Save replaces the stored report.
func (r *ReportRepository) Save(ctx context.Context, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.report = report
	return nil
}

// Get returns the last saved report, or nil when no run has completed yet.
func (r *ReportRepository) Get(ctx context.Context) (*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.report, nil
}
