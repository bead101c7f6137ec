package configs

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tabwatch/tabwatch/internal/models"
)

// AnalysisConfig is the declarative input of the analyzer: the metric
// definitions to register and the job to run against them.
type AnalysisConfig struct {
	Definitions []models.MetricDefinition `json:"definitions"`
	Job         models.AnalysisJob        `json:"job"`
}

// LoadAnalysis reads an AnalysisConfig from a JSON file.
func LoadAnalysis(path string) (*AnalysisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analysis config: %w", err)
	}

	var cfg AnalysisConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse analysis config %s: %w", path, err)
	}

	if cfg.Job.Grain == "" {
		return nil, fmt.Errorf("analysis config %s: job grain is required", path)
	}
	if cfg.Job.WindowDays <= 0 {
		return nil, fmt.Errorf("analysis config %s: job window_days must be positive", path)
	}
	if len(cfg.Job.Metrics) == 0 {
		return nil, fmt.Errorf("analysis config %s: job names no metrics", path)
	}
	for _, m := range cfg.Job.Metrics {
		for _, c := range m.Comparisons {
			if c.Strategy != models.StrategyRatio && c.Strategy != models.StrategyDelta {
				return nil, fmt.Errorf("analysis config %s: metric %s: unknown comparison strategy %q", path, m.Name, c.Strategy)
			}
			if c.Interval < 1 {
				return nil, fmt.Errorf("analysis config %s: metric %s: comparison interval must be at least 1", path, m.Name)
			}
		}
	}
	return &cfg, nil
}
