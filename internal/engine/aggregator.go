package engine

import (
	"sort"
	"time"

	"github.com/tabwatch/tabwatch/internal/models"
)

// Aggregate collapses aligned rows into one MetricPoint per
// (DimensionKey, bucket) group using the definition's method. Output is
// sorted by key then bucket, so the result is deterministic regardless
// of input row order. Groups only exist where rows exist, so empty-group
// division never occurs.
func Aggregate(rows []AlignedRow, def models.MetricDefinition) []models.MetricPoint {
	type groupKey struct {
		key    string
		bucket int64
	}
	groups := make(map[groupKey]*group)
	for _, row := range rows {
		gk := groupKey{key: row.Key, bucket: row.Bucket.Unix()}
		g, ok := groups[gk]
		if !ok {
			g = &group{dimensions: row.Dimensions, bucket: row.Bucket}
			groups[gk] = g
		}
		g.add(row.Value)
	}

	points := make([]models.MetricPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, models.MetricPoint{
			Metric:     def.Name,
			Dimensions: g.dimensions,
			Bucket:     g.bucket,
			Value:      g.value(def.Method),
		})
	}

	sort.Slice(points, func(i, j int) bool {
		ki := models.DimensionKey(points[i].Dimensions, def.Dimensions)
		kj := models.DimensionKey(points[j].Dimensions, def.Dimensions)
		if ki != kj {
			return ki < kj
		}
		return points[i].Bucket.Before(points[j].Bucket)
	})
	return points
}

// group accumulates the running stats every method can be answered from.
type group struct {
	dimensions map[string]string
	bucket     time.Time
	sum        float64
	count      int
	min        float64
	max        float64
}

func (g *group) add(v float64) {
	if g.count == 0 || v < g.min {
		g.min = v
	}
	if g.count == 0 || v > g.max {
		g.max = v
	}
	g.sum += v
	g.count++
}

func (g *group) value(method string) float64 {
	switch method {
	case models.MethodSum:
		return g.sum
	case models.MethodCount:
		return float64(g.count)
	case models.MethodMin:
		return g.min
	case models.MethodMax:
		return g.max
	default: // models.MethodAverage
		return g.sum / float64(g.count)
	}
}
