package worker

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/ayo6706/transfer-simulator/internal/domain"
	"github.com/ayo6706/transfer-simulator/internal/engine"
	"github.com/ayo6706/transfer-simulator/internal/observability"
	"go.uber.org/zap"
)

const numOutcomes = int(engine.OutcomeSameAccount) + 1

// Engine is the part of engine.Engine a worker drives.
type Engine interface {
	Attempt(srcID, dstID int) (engine.Outcome, error)
	Halted() bool
}

// Stats counts the attempts a worker made, per outcome.
type Stats struct {
	Attempts uint64
	Outcomes [numOutcomes]uint64
}

// Count returns the number of attempts that ended with o.
func (s Stats) Count(o engine.Outcome) uint64 {
	if int(o) < 0 || int(o) >= numOutcomes {
		return 0
	}
	return s.Outcomes[o]
}

// TransferWorker repeatedly picks two random accounts and attempts a transfer
// between them until the engine reports that an account has been claimed.
// A worker is owned by a single goroutine.
type TransferWorker struct {
	id         int
	engine     Engine
	accounts   int
	rng        *rand.Rand
	flushEvery uint64

	stats   Stats
	flushed [numOutcomes]uint64
}

// NewTransferWorker creates a worker that samples among accounts ids starting
// at domain.AccountIDBase.
func NewTransferWorker(id int, eng Engine, accounts int) *TransferWorker {
	return &TransferWorker{
		id:         id,
		engine:     eng,
		accounts:   accounts,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), uint64(id))),
		flushEvery: 4096,
	}
}

// WithSeed makes the worker's account sampling reproducible.
func (w *TransferWorker) WithSeed(seed uint64) *TransferWorker {
	w.rng = rand.New(rand.NewPCG(seed, uint64(w.id)+1))
	return w
}

// WithFlushEvery sets how many attempts are batched before the per-outcome
// counts are published to metrics.
func (w *TransferWorker) WithFlushEvery(n uint64) *TransferWorker {
	if n > 0 {
		w.flushEvery = n
	}
	return w
}

// ID returns the worker's index in the pool.
func (w *TransferWorker) ID() int {
	return w.id
}

// Stats returns the worker's attempt counts. Only valid once Run has returned.
func (w *TransferWorker) Stats() Stats {
	return w.stats
}

// Run attempts transfers until an account is claimed, ctx is done, or an
// attempt fails.
func (w *TransferWorker) Run(ctx context.Context) error {
	zap.L().Debug("transfer worker starting", zap.Int("worker", w.id))
	defer w.flush()

	for !w.engine.Halted() {
		select {
		case <-ctx.Done():
			observability.IncrementWorkerRun("transfer", "canceled")
			zap.L().Debug("transfer worker context canceled", zap.Int("worker", w.id))
			return ctx.Err()
		default:
		}

		src, dst := w.pick(), w.pick()
		out, err := w.engine.Attempt(src, dst)
		if err != nil {
			observability.IncrementWorkerRun("transfer", "failed")
			zap.L().Error("transfer attempt failed", zap.Int("worker", w.id), zap.Int("src", src), zap.Int("dst", dst), zap.Error(err))
			return fmt.Errorf("attempt %d -> %d: %w", src, dst, err)
		}
		w.record(out)
	}

	observability.IncrementWorkerRun("transfer", "success")
	zap.L().Debug("transfer worker stopped",
		zap.Int("worker", w.id),
		zap.Uint64("attempts", w.stats.Attempts),
		zap.Uint64("transfers", w.stats.Count(engine.OutcomeTransferred)),
	)
	return nil
}

func (w *TransferWorker) pick() int {
	return domain.AccountIDBase + w.rng.IntN(w.accounts)
}

func (w *TransferWorker) record(out engine.Outcome) {
	w.stats.Attempts++
	if int(out) >= 0 && int(out) < numOutcomes {
		w.stats.Outcomes[out]++
	}
	if w.stats.Attempts%w.flushEvery == 0 {
		w.flush()
	}
}

func (w *TransferWorker) flush() {
	for i := range w.stats.Outcomes {
		delta := w.stats.Outcomes[i] - w.flushed[i]
		if delta == 0 {
			continue
		}
		observability.AddTransferAttempts(engine.Outcome(i).String(), delta)
		w.flushed[i] = w.stats.Outcomes[i]
	}
}

// String returns a string representation of the worker.
func (w *TransferWorker) String() string {
	return fmt.Sprintf("TransferWorker(id=%d, accounts=%d)", w.id, w.accounts)
}
