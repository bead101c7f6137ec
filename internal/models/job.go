package models

// MetricRequest names one registered metric to evaluate within a job and
// the period-over-period comparisons to attach to it.
type MetricRequest struct {
	Name        string           `json:"name"`
	Comparisons []ComparisonSpec `json:"comparisons"`
}

// AnalysisJob is the declarative description of one composition run: the
// shared grain, how far back to read, the metrics to evaluate and the
// flag rules applied to the joined result. Loaded once at startup
// together with the metric definitions.
type AnalysisJob struct {
	Grain      string          `json:"grain"`
	WindowDays int             `json:"window_days"`
	Metrics    []MetricRequest `json:"metrics"`
	Rules      []FlagRule      `json:"rules"`
}
