package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/tabwatch/tabwatch/internal/models"
)

// reportFile holds the most recent composed report as a single JSON
// document. Each save replaces the previous run's output.
const reportFile = "report.json"

// ReportWriteRepository persists composed reports to a JSON file.
type ReportWriteRepository struct {
	dir string
	mu  sync.RWMutex
}

// NewReportWriteRepository creates a new write repository rooted at dir.
func NewReportWriteRepository(dir string) *ReportWriteRepository {
	return &ReportWriteRepository{dir: dir}
}

// Save replaces the stored report with the given one.
func (r *ReportWriteRepository) Save(ctx context.Context, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.dir, reportFile), data, 0644)
}

// ReportReadRepository reads back the most recently saved report.
type ReportReadRepository struct {
	dir string
	mu  sync.RWMutex
}

// NewReportReadRepository creates a new read repository rooted at dir.
func NewReportReadRepository(dir string) *ReportReadRepository {
	return &ReportReadRepository{dir: dir}
}

// Get returns the stored report, or nil when no report has been saved yet.
func (r *ReportReadRepository) Get(ctx context.Context) (*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(r.dir, reportFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var report models.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
