package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ayo6706/transfer-simulator/internal/observability"
	"go.uber.org/zap"
)

// Progress is a sample of a running simulation.
type Progress struct {
	State        string
	Transactions uint64
	Elapsed      time.Duration
}

// ProgressSource is sampled on every tick. It must be safe to call while
// transfers are running.
type ProgressSource interface {
	Progress() Progress
}

// ProgressWorker periodically logs run progress and throughput.
type ProgressWorker struct {
	source   ProgressSource
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	last     Progress
}

// NewProgressWorker constructs a worker with a default 5s interval.
func NewProgressWorker(source ProgressSource) *ProgressWorker {
	return &ProgressWorker{
		source:   source,
		interval: 5 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// WithInterval updates the log interval.
func (w *ProgressWorker) WithInterval(interval time.Duration) *ProgressWorker {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

// Start blocks and logs progress at the configured interval.
func (w *ProgressWorker) Start(ctx context.Context) {
	zap.L().Debug("progress worker starting", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Debug("progress worker context canceled")
			return
		case <-w.stopCh:
			zap.L().Debug("progress worker stop signal received")
			return
		case <-ticker.C:
			w.runOnce()
		}
	}
}

// Stop stops the running worker loop.
func (w *ProgressWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run starts the worker in a goroutine and returns a stop function.
func (w *ProgressWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

// runOnce logs one sample and returns the throughput since the previous one.
func (w *ProgressWorker) runOnce() float64 {
	p := w.source.Progress()
	var perSecond float64
	if window := p.Elapsed - w.last.Elapsed; window > 0 && p.Transactions >= w.last.Transactions {
		perSecond = float64(p.Transactions-w.last.Transactions) / window.Seconds()
	}
	w.last = p

	zap.L().Info("simulation progress",
		zap.String("state", p.State),
		zap.Uint64("transactions", p.Transactions),
		zap.Float64("transactions_per_second", perSecond),
		zap.Duration("elapsed", p.Elapsed),
	)
	observability.IncrementWorkerRun("progress", "success")
	return perSecond
}
