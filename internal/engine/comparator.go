package engine

import (
	"github.com/tabwatch/tabwatch/internal/models"
)

// Compare annotates each point with one period-over-period value per
// spec. The prior point is looked up at the bucket n grain-steps back
// within the same DimensionKey; lookback never crosses dimension
// boundaries. A missing prior (series start or gap) yields a nil value,
// as does a zero prior under the ratio strategy. Comparisons never fail.
func Compare(points []models.MetricPoint, def models.MetricDefinition, grain string, specs []models.ComparisonSpec) []models.ComparedMetricPoint {
	type seriesKey struct {
		key    string
		bucket int64
	}
	index := make(map[seriesKey]float64, len(points))
	for _, p := range points {
		index[seriesKey{models.DimensionKey(p.Dimensions, def.Dimensions), p.Bucket.Unix()}] = p.Value
	}

	compared := make([]models.ComparedMetricPoint, 0, len(points))
	for _, p := range points {
		key := models.DimensionKey(p.Dimensions, def.Dimensions)
		comparisons := make(map[string]*float64, len(specs))
		for _, spec := range specs {
			priorBucket := PriorBucket(p.Bucket, grain, spec.Interval)
			prior, ok := index[seriesKey{key, priorBucket.Unix()}]
			if !ok {
				comparisons[spec.Alias] = nil
				continue
			}
			switch spec.Strategy {
			case models.StrategyDelta:
				v := p.Value - prior
				comparisons[spec.Alias] = &v
			default: // models.StrategyRatio
				if prior == 0 {
					comparisons[spec.Alias] = nil
					continue
				}
				v := p.Value / prior
				comparisons[spec.Alias] = &v
			}
		}
		compared = append(compared, models.ComparedMetricPoint{
			MetricPoint: p,
			Comparisons: comparisons,
		})
	}
	return compared
}
