package engine

import (
	"context"
	"fmt"

	"github.com/tabwatch/tabwatch/internal/models"
)

// Resolver resolves metric names into definitions.
type Resolver interface {
	Resolve(name string) (models.MetricDefinition, error)
}

// SourceReader reads raw rows for a metric's declared source within a
// window. The engine treats it as a read-only cursor over already
// captured snapshots.
type SourceReader interface {
	Read(ctx context.Context, def models.MetricDefinition, window models.Window) ([]models.SourceRow, error)
}

// Request is one metric evaluation: a metric name, a grain, a source
// window and the comparisons to compute on the aggregated series.
type Request struct {
	Metric      string
	Grain       string
	Window      models.Window
	Comparisons []models.ComparisonSpec
}

// Series is a fully evaluated metric: the compared points for every
// DimensionKey present in the source window, plus the shape metadata the
// composer joins on.
type Series struct {
	Metric     string
	Grain      string
	Dimensions []string
	Aliases    []string // comparison aliases in request order
	Points     []models.ComparedMetricPoint
}

// Evaluator runs the align -> aggregate -> compare pipeline for one
// request at a time. It holds no mutable state; concurrent evaluations
// are safe because both the registry and the source are read-only.
type Evaluator struct {
	resolver Resolver
	source   SourceReader
}

// NewEvaluator creates an Evaluator over the given registry and source.
func NewEvaluator(resolver Resolver, source SourceReader) *Evaluator {
	return &Evaluator{resolver: resolver, source: source}
}

// Evaluate resolves the metric, reads its source rows and runs the
// pipeline. Errors from any stage propagate unchanged.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (Series, error) {
	def, err := e.resolver.Resolve(req.Metric)
	if err != nil {
		return Series{}, err
	}

	rows, err := e.source.Read(ctx, def, req.Window)
	if err != nil {
		return Series{}, fmt.Errorf("read source %s: %w", def.Source, err)
	}

	aligned, err := Align(rows, def, req.Grain)
	if err != nil {
		return Series{}, err
	}

	points := Aggregate(aligned, def)
	compared := Compare(points, def, req.Grain, req.Comparisons)

	aliases := make([]string, len(req.Comparisons))
	for i, spec := range req.Comparisons {
		aliases[i] = spec.Alias
	}

	return Series{
		Metric:     def.Name,
		Grain:      req.Grain,
		Dimensions: def.Dimensions,
		Aliases:    aliases,
		Points:     compared,
	}, nil
}
