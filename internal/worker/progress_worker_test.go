package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	samples  atomic.Int64
	progress []Progress
}

func (s *countingSource) Progress() Progress {
	n := s.samples.Add(1)
	if int(n) <= len(s.progress) {
		return s.progress[n-1]
	}
	return Progress{State: "running"}
}

func TestProgressWorker_Throughput(t *testing.T) {
	src := &countingSource{progress: []Progress{
		{State: "running", Transactions: 1000, Elapsed: time.Second},
		{State: "running", Transactions: 4000, Elapsed: 3 * time.Second},
		{State: "done", Transactions: 4000, Elapsed: 3 * time.Second},
	}}
	w := NewProgressWorker(src)

	assert.InDelta(t, 1000, w.runOnce(), 0.001)
	assert.InDelta(t, 1500, w.runOnce(), 0.001)
	assert.Zero(t, w.runOnce())
}

func TestProgressWorker_TicksUntilStopped(t *testing.T) {
	src := &countingSource{}
	w := NewProgressWorker(src).WithInterval(5 * time.Millisecond)

	stop := w.Run(context.Background())
	require.Eventually(t, func() bool { return src.samples.Load() >= 3 }, 2*time.Second, time.Millisecond)
	stop()
	stop()

	time.Sleep(20 * time.Millisecond)
	settled := src.samples.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, src.samples.Load())
}

func TestProgressWorker_StopsOnContext(t *testing.T) {
	src := &countingSource{}
	w := NewProgressWorker(src).WithInterval(time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("progress worker did not stop")
	}
}

func TestProgressWorker_IgnoresNonPositiveInterval(t *testing.T) {
	w := NewProgressWorker(&countingSource{}).WithInterval(0)
	assert.Equal(t, 5*time.Second, w.interval)
}
