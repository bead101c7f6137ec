package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tabwatch/tabwatch/internal/models"
)

// ErrUnsupportedGrain is returned when a requested grain is not in the
// definition's allowed grains.
var ErrUnsupportedGrain = errors.New("unsupported grain")

// AlignedRow is a raw source row annotated with its dimension key and
// grain bucket, ready for aggregation.
type AlignedRow struct {
	Key        string
	Dimensions map[string]string
	Bucket     time.Time
	Value      float64
}

// Align buckets source rows into the requested grain. Rows missing any
// dimension value cannot form a DimensionKey and are excluded, as are
// rows missing the expression value. The source's own timezone is kept:
// truncation happens in the timestamp's location, no inference.
func Align(rows []models.SourceRow, def models.MetricDefinition, grain string) ([]AlignedRow, error) {
	if !def.AllowsGrain(grain) {
		return nil, fmt.Errorf("%w: %s for metric %s", ErrUnsupportedGrain, grain, def.Name)
	}

	aligned := make([]AlignedRow, 0, len(rows))
rowLoop:
	for _, row := range rows {
		for _, dim := range def.Dimensions {
			if row.Dimensions[dim] == "" {
				continue rowLoop
			}
		}
		value, ok := row.Values[def.Expression]
		if !ok {
			continue
		}
		aligned = append(aligned, AlignedRow{
			Key:        models.DimensionKey(row.Dimensions, def.Dimensions),
			Dimensions: row.Dimensions,
			Bucket:     Truncate(row.Timestamp, grain),
			Value:      value,
		})
	}
	return aligned, nil
}

// Truncate aligns t downward to the left boundary of its grain bucket.
// Day buckets start at midnight, week buckets on Monday (ISO 8601) and
// month buckets on the first of the month. Truncation is idempotent.
func Truncate(t time.Time, grain string) time.Time {
	switch grain {
	case models.GrainWeek:
		midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		// Weekday() counts Sunday as 0; shift so Monday is the bucket start.
		offset := (int(t.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -offset)
	case models.GrainMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default: // models.GrainDay
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// PriorBucket steps a bucket start back n grain-steps. Stepping operates
// on the grain calendar, so month steps land on the first of the earlier
// month regardless of month length.
func PriorBucket(bucket time.Time, grain string, n int) time.Time {
	switch grain {
	case models.GrainWeek:
		return bucket.AddDate(0, 0, -7*n)
	case models.GrainMonth:
		return bucket.AddDate(0, -n, 0)
	default:
		return bucket.AddDate(0, 0, -n)
	}
}
