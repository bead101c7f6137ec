package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Runner is one unit of periodic work, an analysis run or a snapshot
// capture.
type Runner interface {
	Run(ctx context.Context) error
}

// IntervalWorker drives a Runner on a fixed schedule. The runner fires
// once at start, then once per tick. A nil ticker means one-shot mode:
// run once and return.
//
// A failed scheduled run is logged and the schedule keeps going;
// transient storage errors must not kill the loop.
type IntervalWorker struct {
	runner Runner
	ticker *time.Ticker
	logger *zap.Logger
}

// NewIntervalWorker creates a new IntervalWorker. The ticker may be nil
// for one-shot execution.
func NewIntervalWorker(runner Runner, ticker *time.Ticker, logger *zap.Logger) *IntervalWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntervalWorker{
		runner: runner,
		ticker: ticker,
		logger: logger,
	}
}

// Start runs the schedule until the context is cancelled. In one-shot
// mode the first run's error is returned directly.
func (w *IntervalWorker) Start(ctx context.Context) error {
	if w.ticker == nil {
		return w.runner.Run(ctx)
	}

	if err := w.runner.Run(ctx); err != nil {
		w.logger.Error("run failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.ticker.C:
			if err := w.runner.Run(ctx); err != nil {
				w.logger.Error("run failed", zap.Error(err))
			}
		}
	}
}
