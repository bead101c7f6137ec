package models

import "time"

// FlagCondition is a single numeric bound on a comparison field. Bounds
// left nil are not checked. A condition on a field whose value is absent
// never matches.
type FlagCondition struct {
	Field string   `json:"field"`
	GT    *float64 `json:"gt,omitempty"`
	GE    *float64 `json:"ge,omitempty"`
	LT    *float64 `json:"lt,omitempty"`
	LE    *float64 `json:"le,omitempty"`
}

// Matches reports whether v satisfies every bound of the condition.
func (c FlagCondition) Matches(v *float64) bool {
	if v == nil {
		return false
	}
	if c.GT != nil && !(*v > *c.GT) {
		return false
	}
	if c.GE != nil && !(*v >= *c.GE) {
		return false
	}
	if c.LT != nil && !(*v < *c.LT) {
		return false
	}
	if c.LE != nil && !(*v <= *c.LE) {
		return false
	}
	return true
}

// FlagRule derives a boolean output column from already-computed
// comparison fields. All conditions must hold for the flag to be set.
type FlagRule struct {
	Name   string          `json:"name"`
	Output string          `json:"output"` // boolean column name in the report
	When   []FlagCondition `json:"when"`
}

// Evaluate applies the rule to a row's comparison fields. Rules are pure:
// they only read fields computed earlier, never trigger aggregation.
func (r FlagRule) Evaluate(fields map[string]*float64) bool {
	if len(r.When) == 0 {
		return false
	}
	for _, cond := range r.When {
		if !cond.Matches(fields[cond.Field]) {
			return false
		}
	}
	return true
}

// ReportRow is one composed output row: the dimension values, the grain
// bucket, one value per metric, one value per qualified comparison column
// and one boolean per flag rule.
type ReportRow struct {
	Dimensions  map[string]string   `json:"dimensions"`
	MetricDate  time.Time           `json:"metric_date"`
	Values      map[string]float64  `json:"values"`
	Comparisons map[string]*float64 `json:"comparisons"`
	Flags       map[string]bool     `json:"flags"`
}

// Flagged reports whether any flag on the row is set.
func (r ReportRow) Flagged() bool {
	for _, v := range r.Flags {
		if v {
			return true
		}
	}
	return false
}

// Report is the materialized output of one composition run. Column slices
// keep the stable output order: dimension fields, metric_date, metric
// values, comparisons, flags.
type Report struct {
	GeneratedAt       time.Time   `json:"generated_at"`
	Grain             string      `json:"grain"`
	DimensionFields   []string    `json:"dimension_fields"`
	MetricColumns     []string    `json:"metric_columns"`
	ComparisonColumns []string    `json:"comparison_columns"`
	FlagColumns       []string    `json:"flag_columns"`
	Rows              []ReportRow `json:"rows"`
}

// Columns returns the full ordered column list of the materialized table.
func (r *Report) Columns() []string {
	cols := make([]string, 0, len(r.DimensionFields)+1+len(r.MetricColumns)+len(r.ComparisonColumns)+len(r.FlagColumns))
	cols = append(cols, r.DimensionFields...)
	cols = append(cols, "metric_date")
	cols = append(cols, r.MetricColumns...)
	cols = append(cols, r.ComparisonColumns...)
	cols = append(cols, r.FlagColumns...)
	return cols
}

// FlaggedRows returns the rows with at least one flag set.
func (r *Report) FlaggedRows() []ReportRow {
	var rows []ReportRow
	for _, row := range r.Rows {
		if row.Flagged() {
			rows = append(rows, row)
		}
	}
	return rows
}
