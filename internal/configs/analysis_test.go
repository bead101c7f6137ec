package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabwatch/tabwatch/internal/models"
)

func writeAnalysisFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analysis.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAnalysis(t *testing.T) {
	path := writeAnalysisFile(t, `{
		"definitions": [
			{
				"name": "row_count",
				"source": "table_snapshots",
				"method": "average",
				"expression": "row_count",
				"timestamp_field": "captured_at",
				"grains": ["week"],
				"dimensions": ["schema_name", "table_name"]
			}
		],
		"job": {
			"grain": "week",
			"window_days": 90,
			"metrics": [
				{
					"name": "row_count",
					"comparisons": [{"strategy": "ratio", "interval": 1, "alias": "wow"}]
				}
			],
			"rules": [
				{
					"name": "stale table",
					"output": "is_stale",
					"when": [
						{"field": "row_count_wow", "ge": 0.995},
						{"field": "row_count_wow", "le": 1.005}
					]
				}
			]
		}
	}`)

	cfg, err := LoadAnalysis(path)
	require.NoError(t, err)

	require.Len(t, cfg.Definitions, 1)
	assert.Equal(t, "row_count", cfg.Definitions[0].Name)
	assert.Equal(t, models.MethodAverage, cfg.Definitions[0].Method)

	assert.Equal(t, models.GrainWeek, cfg.Job.Grain)
	assert.Equal(t, 90, cfg.Job.WindowDays)
	require.Len(t, cfg.Job.Metrics, 1)
	require.Len(t, cfg.Job.Metrics[0].Comparisons, 1)
	assert.Equal(t, "wow", cfg.Job.Metrics[0].Comparisons[0].Alias)
	require.Len(t, cfg.Job.Rules, 1)
	assert.Equal(t, "is_stale", cfg.Job.Rules[0].Output)
	require.Len(t, cfg.Job.Rules[0].When, 2)
	assert.Equal(t, 0.995, *cfg.Job.Rules[0].When[0].GE)
}

func TestLoadAnalysis_MissingFile(t *testing.T) {
	_, err := LoadAnalysis(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadAnalysis_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad json", `{`},
		{"missing grain", `{"job": {"window_days": 30, "metrics": [{"name": "m"}]}}`},
		{"zero window", `{"job": {"grain": "day", "metrics": [{"name": "m"}]}}`},
		{"no metrics", `{"job": {"grain": "day", "window_days": 30}}`},
		{"unknown comparison strategy", `{"job": {"grain": "day", "window_days": 30,
			"metrics": [{"name": "m", "comparisons": [{"strategy": "detla", "interval": 1, "alias": "wow"}]}]}}`},
		{"zero comparison interval", `{"job": {"grain": "day", "window_days": 30,
			"metrics": [{"name": "m", "comparisons": [{"strategy": "ratio", "interval": 0, "alias": "wow"}]}]}}`},
		{"negative comparison interval", `{"job": {"grain": "day", "window_days": 30,
			"metrics": [{"name": "m", "comparisons": [{"strategy": "delta", "interval": -1, "alias": "wow"}]}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAnalysis(writeAnalysisFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}
