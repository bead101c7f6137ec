package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabwatch/tabwatch/internal/models"
)

func alignedRow(table string, bucket time.Time, value float64) AlignedRow {
	dims := map[string]string{"schema_name": "public", "table_name": table}
	return AlignedRow{
		Key:        models.DimensionKey(dims, []string{"schema_name", "table_name"}),
		Dimensions: dims,
		Bucket:     bucket,
		Value:      value,
	}
}

func TestAggregate_Methods(t *testing.T) {
	bucket := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	rows := []AlignedRow{
		alignedRow("orders", bucket, 10),
		alignedRow("orders", bucket, 20),
		alignedRow("orders", bucket, 60),
	}

	tests := []struct {
		method string
		want   float64
	}{
		{models.MethodAverage, 30},
		{models.MethodSum, 90},
		{models.MethodCount, 3},
		{models.MethodMin, 10},
		{models.MethodMax, 60},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			def := testDefinition()
			def.Method = tt.method

			points := Aggregate(rows, def)
			require.Len(t, points, 1)
			assert.Equal(t, tt.want, points[0].Value)
			assert.Equal(t, bucket, points[0].Bucket)
			assert.Equal(t, "row_count", points[0].Metric)
		})
	}
}

func TestAggregate_GroupsByKeyAndBucket(t *testing.T) {
	monday := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	nextMonday := monday.AddDate(0, 0, 7)
	rows := []AlignedRow{
		alignedRow("orders", monday, 100),
		alignedRow("orders", nextMonday, 120),
		alignedRow("users", monday, 50),
	}

	points := Aggregate(rows, testDefinition())
	require.Len(t, points, 3)

	// Sorted by key then bucket: orders comes before users.
	assert.Equal(t, "orders", points[0].Dimensions["table_name"])
	assert.Equal(t, monday, points[0].Bucket)
	assert.Equal(t, "orders", points[1].Dimensions["table_name"])
	assert.Equal(t, nextMonday, points[1].Bucket)
	assert.Equal(t, "users", points[2].Dimensions["table_name"])
}

func TestAggregate_OrderIndependent(t *testing.T) {
	bucket := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	rows := []AlignedRow{
		alignedRow("orders", bucket, 1),
		alignedRow("orders", bucket, 2),
		alignedRow("orders", bucket, 3),
		alignedRow("users", bucket, 7),
	}

	want := Aggregate(rows, testDefinition())

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]AlignedRow, len(rows))
		copy(shuffled, rows)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, Aggregate(shuffled, testDefinition()))
	}
}
