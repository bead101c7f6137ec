package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	runs atomic.Int32
	err  error
}

func (r *countingRunner) Run(ctx context.Context) error {
	r.runs.Add(1)
	return r.err
}

func TestIntervalWorker_OneShot(t *testing.T) {
	runner := &countingRunner{}
	w := NewIntervalWorker(runner, nil, nil)

	err := w.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), runner.runs.Load())
}

func TestIntervalWorker_OneShotError(t *testing.T) {
	wantErr := errors.New("run failed")
	w := NewIntervalWorker(&countingRunner{err: wantErr}, nil, nil)

	err := w.Start(context.Background())
	assert.ErrorIs(t, err, wantErr)
}

func TestIntervalWorker_RunsOnTicks(t *testing.T) {
	runner := &countingRunner{}
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	w := NewIntervalWorker(runner, ticker, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	err := w.Start(ctx)
	require.NoError(t, err)

	// One run at start plus at least two ticks.
	assert.GreaterOrEqual(t, runner.runs.Load(), int32(3))
}

func TestIntervalWorker_KeepsGoingAfterError(t *testing.T) {
	runner := &countingRunner{err: errors.New("transient")}
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	w := NewIntervalWorker(runner, ticker, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()

	err := w.Start(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, runner.runs.Load(), int32(2))
}
