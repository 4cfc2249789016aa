package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ayo6706/transfer-simulator/internal/engine"
	"github.com/ayo6706/transfer-simulator/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedEngine halts after a fixed number of attempts.
type scriptedEngine struct {
	haltAfter int64
	failAt    int64
	calls     atomic.Int64
	pairs     [][2]int
	mu        sync.Mutex
}

func (e *scriptedEngine) Attempt(src, dst int) (engine.Outcome, error) {
	n := e.calls.Add(1)
	e.mu.Lock()
	e.pairs = append(e.pairs, [2]int{src, dst})
	e.mu.Unlock()
	if e.failAt > 0 && n == e.failAt {
		return 0, errors.New("boom")
	}
	if src == dst {
		return engine.OutcomeSameAccount, nil
	}
	return engine.OutcomeTransferred, nil
}

func (e *scriptedEngine) Halted() bool {
	return e.haltAfter > 0 && e.calls.Load() >= e.haltAfter
}

func TestTransferWorker_StopsWhenHalted(t *testing.T) {
	eng := &scriptedEngine{haltAfter: 100}
	w := NewTransferWorker(0, eng, 5).WithSeed(1)

	require.NoError(t, w.Run(context.Background()))
	stats := w.Stats()
	assert.Equal(t, uint64(100), stats.Attempts)
	assert.Equal(t, stats.Attempts, stats.Count(engine.OutcomeTransferred)+stats.Count(engine.OutcomeSameAccount))

	for _, p := range eng.pairs {
		assert.GreaterOrEqual(t, p[0], 1000)
		assert.Less(t, p[0], 1005)
		assert.GreaterOrEqual(t, p[1], 1000)
		assert.Less(t, p[1], 1005)
	}
}

func TestTransferWorker_SeedIsReproducible(t *testing.T) {
	a := &scriptedEngine{haltAfter: 50}
	b := &scriptedEngine{haltAfter: 50}
	require.NoError(t, NewTransferWorker(3, a, 100).WithSeed(7).Run(context.Background()))
	require.NoError(t, NewTransferWorker(3, b, 100).WithSeed(7).Run(context.Background()))
	assert.Equal(t, a.pairs, b.pairs)
}

func TestTransferWorker_ReturnsAttemptError(t *testing.T) {
	eng := &scriptedEngine{failAt: 3}
	w := NewTransferWorker(1, eng, 4).WithSeed(1)

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, uint64(2), w.Stats().Attempts)
}

func TestTransferWorker_StopsOnCancel(t *testing.T) {
	eng := &scriptedEngine{}
	w := NewTransferWorker(2, eng, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestTransferWorker_AgainstEngine(t *testing.T) {
	set, err := ledger.NewAccountSet([]decimal.Decimal{
		decimal.NewFromInt(30), decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	eng := engine.New(set, decimal.NewFromInt(10))

	w := NewTransferWorker(0, eng, set.Len()).WithSeed(99).WithFlushEvery(1)
	require.NoError(t, w.Run(context.Background()))

	require.NotNil(t, eng.Terminal())
	assert.True(t, eng.Terminal().Balance().IsZero())
	assert.Equal(t, uint64(1), w.Stats().Count(engine.OutcomeClaimed))
	assert.Equal(t, 2*w.Stats().Count(engine.OutcomeTransferred), set.Counter().Load())
}

func TestTransferWorker_String(t *testing.T) {
	w := NewTransferWorker(4, &scriptedEngine{}, 12)
	assert.Equal(t, "TransferWorker(id=4, accounts=12)", w.String())
	assert.Equal(t, 4, w.ID())
}
