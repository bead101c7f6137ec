package models

import (
	"strings"
	"time"
)

// Time grains supported for bucketing raw snapshots.
const (
	GrainDay   = "day"   // buckets start at midnight
	GrainWeek  = "week"  // buckets start on Monday (ISO 8601)
	GrainMonth = "month" // buckets start on the first of the month
)

// Aggregation methods supported by metric definitions.
const (
	MethodAverage = "average"
	MethodSum     = "sum"
	MethodCount   = "count"
	MethodMin     = "min"
	MethodMax     = "max"
)

// Comparison strategies for period-over-period calculations.
const (
	StrategyRatio = "ratio" // current / prior
	StrategyDelta = "delta" // current - prior
)

// MetricDefinition describes how a metric is derived from a raw source.
// Definitions are immutable once registered.
type MetricDefinition struct {
	Name           string   `json:"name"`            // unique metric identifier
	Source         string   `json:"source"`          // source table or dataset reference
	Method         string   `json:"method"`          // aggregation method, one of the Method* constants
	Expression     string   `json:"expression"`      // numeric field to aggregate
	TimestampField string   `json:"timestamp_field"` // field carrying the snapshot timestamp
	Grains         []string `json:"grains"`          // time grains the metric may be evaluated at
	Dimensions     []string `json:"dimensions"`      // ordered dimension fields forming the key
}

// AllowsGrain reports whether the definition permits evaluation at grain g.
func (d MetricDefinition) AllowsGrain(g string) bool {
	for _, allowed := range d.Grains {
		if allowed == g {
			return true
		}
	}
	return false
}

// Window is the half-open-ended time range a metric evaluation reads from,
// inclusive on both ends.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// SourceRow is one raw snapshot row handed to the engine by a source
// repository. Dimensions and Values carry every field the source exposes;
// the metric definition selects which of them participate.
type SourceRow struct {
	Timestamp  time.Time          `json:"timestamp"`
	Dimensions map[string]string  `json:"dimensions"`
	Values     map[string]float64 `json:"values"`
}

// keySeparator joins dimension values into a DimensionKey. A unit
// separator cannot appear in sane dimension values, so keys never collide.
const keySeparator = "\x1f"

// DimensionKey builds the ordered key identifying one logical entity's
// series from its dimension values, following the field order of the
// metric definition.
func DimensionKey(dims map[string]string, fields []string) string {
	vals := make([]string, len(fields))
	for i, f := range fields {
		vals[i] = dims[f]
	}
	return strings.Join(vals, keySeparator)
}

// ComparisonSpec describes one period-over-period calculation attached to
// a metric evaluation request.
type ComparisonSpec struct {
	Strategy string `json:"strategy"` // StrategyRatio or StrategyDelta
	Interval int    `json:"interval"` // grain-buckets to look back, >= 1
	Alias    string `json:"alias"`    // output field name
}

// MetricPoint is one aggregated value for a (DimensionKey, grain bucket)
// pair.
type MetricPoint struct {
	Metric     string            `json:"metric"`
	Dimensions map[string]string `json:"dimensions"`
	Bucket     time.Time         `json:"bucket"` // left-aligned grain boundary
	Value      float64           `json:"value"`
}

// ComparedMetricPoint annotates a MetricPoint with one comparison value
// per ComparisonSpec, keyed by alias. A nil value means the comparison is
// undefined
// for that point (missing prior period, or division by zero for ratios).
type ComparedMetricPoint struct {
	MetricPoint
	Comparisons map[string]*float64 `json:"comparisons"`
}
