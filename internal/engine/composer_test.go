package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabwatch/tabwatch/internal/models"
)

func f64(v float64) *float64 { return &v }

func comparedPoint(metric, table string, bucket time.Time, value float64, comparisons map[string]*float64) models.ComparedMetricPoint {
	return models.ComparedMetricPoint{
		MetricPoint: models.MetricPoint{
			Metric:     metric,
			Dimensions: map[string]string{"schema_name": "public", "table_name": table},
			Bucket:     bucket,
			Value:      value,
		},
		Comparisons: comparisons,
	}
}

func stalenessRules() []models.FlagRule {
	return []models.FlagRule{
		{
			Name:   "stale",
			Output: "is_stale",
			When: []models.FlagCondition{
				{Field: "row_count_wow_change", GE: f64(0.99), LE: f64(1.01)},
				{Field: "row_count_mom_change", GE: f64(0.99), LE: f64(1.01)},
			},
		},
		{
			Name:   "rapid growth",
			Output: "has_rapid_growth",
			When: []models.FlagCondition{
				{Field: "row_count_wow_change", GT: f64(1.5)},
			},
		},
	}
}

func TestCompose_NoSeries(t *testing.T) {
	_, err := Compose(nil, nil)
	assert.ErrorIs(t, err, ErrNoSeries)
}

// End-to-end scenario: orders holds steady on row count (wow 1.0) while
// its size grows 2% (wow 1.02). It must not be flagged as rapid growth,
// and stays a stale candidate only while its mom figure is also flat.
func TestCompose_FlagsSteadyTable(t *testing.T) {
	week1 := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)
	dims := []string{"schema_name", "table_name"}

	rowCount := Series{
		Metric:     "row_count",
		Grain:      models.GrainWeek,
		Dimensions: dims,
		Aliases:    []string{"wow_change", "mom_change"},
		Points: []models.ComparedMetricPoint{
			comparedPoint("row_count", "orders", week1, 100, map[string]*float64{"wow_change": nil, "mom_change": nil}),
			comparedPoint("row_count", "orders", week2, 100, map[string]*float64{"wow_change": f64(1.0), "mom_change": f64(1.0)}),
		},
	}
	sizeBytes := Series{
		Metric:     "size_bytes",
		Grain:      models.GrainWeek,
		Dimensions: dims,
		Aliases:    []string{"wow_change"},
		Points: []models.ComparedMetricPoint{
			comparedPoint("size_bytes", "orders", week1, 1000, map[string]*float64{"wow_change": nil}),
			comparedPoint("size_bytes", "orders", week2, 1020, map[string]*float64{"wow_change": f64(1.02)}),
		},
	}

	report, err := Compose([]Series{rowCount, sizeBytes}, stalenessRules())
	require.NoError(t, err)

	assert.Equal(t, []string{"row_count", "size_bytes"}, report.MetricColumns)
	assert.Equal(t, []string{"row_count_wow_change", "row_count_mom_change", "size_bytes_wow_change"}, report.ComparisonColumns)
	assert.Equal(t, []string{"is_stale", "has_rapid_growth"}, report.FlagColumns)
	require.Len(t, report.Rows, 2)

	// Ordered newest bucket first.
	latest := report.Rows[0]
	assert.Equal(t, week2, latest.MetricDate)
	assert.Equal(t, 100.0, latest.Values["row_count"])
	assert.Equal(t, 1020.0, latest.Values["size_bytes"])
	require.NotNil(t, latest.Comparisons["row_count_wow_change"])
	assert.Equal(t, 1.0, *latest.Comparisons["row_count_wow_change"])
	require.NotNil(t, latest.Comparisons["size_bytes_wow_change"])
	assert.Equal(t, 1.02, *latest.Comparisons["size_bytes_wow_change"])

	assert.True(t, latest.Flags["is_stale"], "flat wow and mom ratios mark the table stale")
	assert.False(t, latest.Flags["has_rapid_growth"], "1.0 is not above the 1.5 threshold")

	// Week 1 has no priors: null comparison fields never set a flag.
	first := report.Rows[1]
	assert.Equal(t, week1, first.MetricDate)
	assert.False(t, first.Flags["is_stale"])
	assert.False(t, first.Flags["has_rapid_growth"])
}

func TestCompose_RapidGrowth(t *testing.T) {
	week2 := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	dims := []string{"schema_name", "table_name"}

	rowCount := Series{
		Metric:     "row_count",
		Grain:      models.GrainWeek,
		Dimensions: dims,
		Aliases:    []string{"wow_change", "mom_change"},
		Points: []models.ComparedMetricPoint{
			comparedPoint("row_count", "events", week2, 400, map[string]*float64{"wow_change": f64(2.0), "mom_change": nil}),
		},
	}

	report, err := Compose([]Series{rowCount}, stalenessRules())
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.True(t, report.Rows[0].Flags["has_rapid_growth"])
	assert.False(t, report.Rows[0].Flags["is_stale"], "nil mom field keeps the stale rule false")
}

// Join-drop scenario: a bucket present in one series but missing in the
// other yields no composed row at all.
func TestCompose_DropsUnmatchedPairs(t *testing.T) {
	week2 := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	week3 := week2.AddDate(0, 0, 7)
	dims := []string{"schema_name", "table_name"}

	rowCount := Series{
		Metric: "row_count", Grain: models.GrainWeek, Dimensions: dims,
		Points: []models.ComparedMetricPoint{
			comparedPoint("row_count", "orders", week2, 100, nil),
			comparedPoint("row_count", "orders", week3, 110, nil),
		},
	}
	sizeBytes := Series{
		Metric: "size_bytes", Grain: models.GrainWeek, Dimensions: dims,
		Points: []models.ComparedMetricPoint{
			comparedPoint("size_bytes", "orders", week2, 1000, nil),
			// week3 size snapshot is missing
		},
	}

	report, err := Compose([]Series{rowCount, sizeBytes}, nil)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, week2, report.Rows[0].MetricDate)
}

func TestCompose_OrdersByBucketDescThenKeyAsc(t *testing.T) {
	week1 := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)
	dims := []string{"schema_name", "table_name"}

	series := Series{
		Metric: "row_count", Grain: models.GrainWeek, Dimensions: dims,
		Points: []models.ComparedMetricPoint{
			comparedPoint("row_count", "users", week1, 1, nil),
			comparedPoint("row_count", "orders", week2, 2, nil),
			comparedPoint("row_count", "orders", week1, 3, nil),
			comparedPoint("row_count", "users", week2, 4, nil),
		},
	}

	report, err := Compose([]Series{series}, nil)
	require.NoError(t, err)
	require.Len(t, report.Rows, 4)

	assert.Equal(t, week2, report.Rows[0].MetricDate)
	assert.Equal(t, "orders", report.Rows[0].Dimensions["table_name"])
	assert.Equal(t, "users", report.Rows[1].Dimensions["table_name"])
	assert.Equal(t, week1, report.Rows[2].MetricDate)
	assert.Equal(t, "orders", report.Rows[2].Dimensions["table_name"])
	assert.Equal(t, "users", report.Rows[3].Dimensions["table_name"])
}
