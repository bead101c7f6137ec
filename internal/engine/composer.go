package engine

import (
	"errors"
	"sort"
	"time"

	"github.com/tabwatch/tabwatch/internal/models"
)

// ErrNoSeries is returned when composing zero series.
var ErrNoSeries = errors.New("no series to compose")

// Compose inner-joins evaluated series on (DimensionKey, bucket) and
// applies the flag rules to each joined row. A key/bucket pair present in
// only some of the series is dropped from the result; this lossy join is
// deliberate and mirrors the behavior downstream consumers rely on.
// Comparison fields are qualified as <metric>_<alias> so identical
// aliases across metrics never collide; flag rules reference the
// qualified name. Rows are ordered by bucket descending, then dimension
// values ascending. All series are presumed to share the same dimension
// field set; when they do not, the join simply matches nothing.
func Compose(series []Series, rules []models.FlagRule) (*models.Report, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}

	dims := series[0].Dimensions

	type joinKey struct {
		key    string
		bucket int64
	}
	indexes := make([]map[joinKey]models.ComparedMetricPoint, len(series))
	for i, s := range series {
		idx := make(map[joinKey]models.ComparedMetricPoint, len(s.Points))
		for _, p := range s.Points {
			idx[joinKey{models.DimensionKey(p.Dimensions, s.Dimensions), p.Bucket.Unix()}] = p
		}
		indexes[i] = idx
	}

	report := &models.Report{
		GeneratedAt:     time.Now(),
		Grain:           series[0].Grain,
		DimensionFields: dims,
	}
	for _, s := range series {
		report.MetricColumns = append(report.MetricColumns, s.Metric)
		for _, alias := range s.Aliases {
			report.ComparisonColumns = append(report.ComparisonColumns, s.Metric+"_"+alias)
		}
	}
	for _, rule := range rules {
		report.FlagColumns = append(report.FlagColumns, rule.Output)
	}

	for jk, first := range indexes[0] {
		matched := make([]models.ComparedMetricPoint, 0, len(series))
		matched = append(matched, first)
		for _, idx := range indexes[1:] {
			p, ok := idx[jk]
			if !ok {
				matched = nil
				break
			}
			matched = append(matched, p)
		}
		if matched == nil {
			continue
		}

		row := models.ReportRow{
			Dimensions:  first.Dimensions,
			MetricDate:  first.Bucket,
			Values:      make(map[string]float64, len(series)),
			Comparisons: make(map[string]*float64),
			Flags:       make(map[string]bool, len(rules)),
		}
		for i, p := range matched {
			row.Values[series[i].Metric] = p.Value
			for _, alias := range series[i].Aliases {
				row.Comparisons[series[i].Metric+"_"+alias] = p.Comparisons[alias]
			}
		}
		for _, rule := range rules {
			row.Flags[rule.Output] = rule.Evaluate(row.Comparisons)
		}
		report.Rows = append(report.Rows, row)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		if !report.Rows[i].MetricDate.Equal(report.Rows[j].MetricDate) {
			return report.Rows[i].MetricDate.After(report.Rows[j].MetricDate)
		}
		ki := models.DimensionKey(report.Rows[i].Dimensions, dims)
		kj := models.DimensionKey(report.Rows[j].Dimensions, dims)
		return ki < kj
	})

	return report, nil
}
