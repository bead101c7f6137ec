package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabwatch/tabwatch/internal/models"
)

func TestEvaluator_Evaluate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	def := testDefinition()
	window := models.Window{
		From: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
	}

	t.Run("runs the full pipeline", func(t *testing.T) {
		resolver := NewMockResolver(ctrl)
		source := NewMockSourceReader(ctrl)

		resolver.EXPECT().Resolve("row_count").Return(def, nil)
		source.EXPECT().Read(ctx, def, window).Return([]models.SourceRow{
			snapshotRow(time.Date(2024, 5, 7, 6, 0, 0, 0, time.UTC), "orders", 100),
			snapshotRow(time.Date(2024, 5, 14, 6, 0, 0, 0, time.UTC), "orders", 150),
		}, nil)

		series, err := NewEvaluator(resolver, source).Evaluate(ctx, Request{
			Metric:      "row_count",
			Grain:       models.GrainWeek,
			Window:      window,
			Comparisons: wowRatio(),
		})
		require.NoError(t, err)

		assert.Equal(t, "row_count", series.Metric)
		assert.Equal(t, models.GrainWeek, series.Grain)
		assert.Equal(t, def.Dimensions, series.Dimensions)
		assert.Equal(t, []string{"wow_change"}, series.Aliases)
		require.Len(t, series.Points, 2)
		assert.Nil(t, series.Points[0].Comparisons["wow_change"])
		require.NotNil(t, series.Points[1].Comparisons["wow_change"])
		assert.Equal(t, 1.5, *series.Points[1].Comparisons["wow_change"])
	})

	t.Run("propagates resolver error", func(t *testing.T) {
		resolver := NewMockResolver(ctrl)
		source := NewMockSourceReader(ctrl)
		wantErr := errors.New("unknown metric")

		resolver.EXPECT().Resolve("missing").Return(models.MetricDefinition{}, wantErr)

		_, err := NewEvaluator(resolver, source).Evaluate(ctx, Request{Metric: "missing", Grain: models.GrainWeek, Window: window})
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("propagates source error", func(t *testing.T) {
		resolver := NewMockResolver(ctrl)
		source := NewMockSourceReader(ctrl)
		wantErr := errors.New("connection refused")

		resolver.EXPECT().Resolve("row_count").Return(def, nil)
		source.EXPECT().Read(ctx, def, window).Return(nil, wantErr)

		_, err := NewEvaluator(resolver, source).Evaluate(ctx, Request{Metric: "row_count", Grain: models.GrainWeek, Window: window})
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("rejects disallowed grain", func(t *testing.T) {
		resolver := NewMockResolver(ctrl)
		source := NewMockSourceReader(ctrl)
		narrowDef := def
		narrowDef.Grains = []string{models.GrainWeek}

		resolver.EXPECT().Resolve("row_count").Return(narrowDef, nil)
		source.EXPECT().Read(ctx, narrowDef, window).Return(nil, nil)

		_, err := NewEvaluator(resolver, source).Evaluate(ctx, Request{Metric: "row_count", Grain: models.GrainDay, Window: window})
		assert.ErrorIs(t, err, ErrUnsupportedGrain)
	})
}
