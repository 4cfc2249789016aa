// Package simulation runs a pool of transfer workers over an in-memory account
// set until one account is driven to zero, then reports on the run.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayo6706/transfer-simulator/internal/domain"
	"github.com/ayo6706/transfer-simulator/internal/engine"
	"github.com/ayo6706/transfer-simulator/internal/ledger"
	"github.com/ayo6706/transfer-simulator/internal/observability"
	"github.com/ayo6706/transfer-simulator/internal/worker"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Settings are the three values a simulation is configured with.
type Settings struct {
	Workers  int
	Amount   decimal.Decimal
	Accounts int
}

// Validate checks every setting and reports all violations together.
func (s Settings) Validate() error {
	var err error
	if s.Workers < domain.MinWorkers || s.Workers > domain.MaxWorkers {
		err = multierr.Append(err, &ConfigError{
			Field:  "workers",
			Value:  s.Workers,
			Reason: fmt.Sprintf("must be between %d and %d", domain.MinWorkers, domain.MaxWorkers),
		})
	}
	if !s.Amount.IsPositive() {
		err = multierr.Append(err, &ConfigError{
			Field:  "amount",
			Value:  domain.FormatAmount(s.Amount),
			Reason: "must be greater than 0",
		})
	}
	if s.Accounts < domain.MinAccounts || s.Accounts > domain.MaxAccounts {
		err = multierr.Append(err, &ConfigError{
			Field:  "accounts",
			Value:  s.Accounts,
			Reason: fmt.Sprintf("must be between %d and %d", domain.MinAccounts, domain.MaxAccounts),
		})
	}
	return err
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSeed makes balance generation and worker sampling reproducible.
// Zero picks a random seed.
func WithSeed(seed uint64) Option {
	return func(c *Controller) {
		c.seed = seed
	}
}

// WithBalances replaces the generated starting balances. The slice must hold
// one non-negative balance per account.
func WithBalances(balances []decimal.Decimal) Option {
	return func(c *Controller) {
		c.balances = balances
	}
}

// withEngine wraps the engine handed to each worker.
func withEngine(wrap func(worker.Engine) worker.Engine) Option {
	return func(c *Controller) {
		c.wrapEngine = wrap
	}
}

// Controller owns the accounts and the worker pool of a single run.
type Controller struct {
	settings   Settings
	seed       uint64
	runID      uuid.UUID
	logger     *zap.Logger
	balances   []decimal.Decimal
	wrapEngine func(worker.Engine) worker.Engine

	accounts *ledger.AccountSet
	engine   *engine.Engine

	state      atomic.Uint32
	started    atomic.Bool
	startedAt  atomic.Int64
	finishedAt atomic.Int64
}

// New validates settings and builds the account set. No worker is started.
func New(settings Settings, opts ...Option) (*Controller, error) {
	settings.Amount = domain.NormalizeAmount(settings.Amount)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		settings: settings,
		runID:    uuid.New(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.seed == 0 {
		c.seed = rand.Uint64()
	}
	c.logger = c.logger.With(zap.String("run_id", c.runID.String()))

	balances := c.balances
	if balances == nil {
		balances = ledger.RandomBalances(settings.Accounts, settings.Amount, rand.New(rand.NewPCG(c.seed, 0)))
	} else if len(balances) != settings.Accounts {
		return nil, &ConfigError{
			Field:  "balances",
			Value:  len(balances),
			Reason: fmt.Sprintf("must hold one balance per account (%d)", settings.Accounts),
		}
	}

	accounts, err := ledger.NewAccountSet(balances)
	if err != nil {
		return nil, &ConfigError{Field: "balances", Value: len(balances), Reason: err.Error()}
	}
	c.accounts = accounts
	c.engine = engine.New(accounts, settings.Amount)
	c.state.Store(uint32(StateInitializing))

	c.logger.Info("simulation initialized",
		zap.Int("workers", settings.Workers),
		zap.String("amount", domain.FormatAmount(settings.Amount)),
		zap.Int("accounts", settings.Accounts),
		zap.Uint64("seed", c.seed),
	)
	return c, nil
}

// Run starts the worker pool, waits for every worker to stop, and reports on
// the claimed account. It fails if a worker faulted or if ctx ended before an
// account was claimed. A controller can only be run once.
func (c *Controller) Run(ctx context.Context) (*Report, error) {
	if !c.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}

	start := time.Now()
	c.startedAt.Store(start.UnixNano())
	if err := c.transition(StateRunning); err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		faults error
	)
	g, gctx := errgroup.WithContext(ctx)
	workers := make([]*worker.TransferWorker, c.settings.Workers)
	for i := range workers {
		w := worker.NewTransferWorker(i, c.workerEngine(), c.accounts.Len()).WithSeed(c.seed)
		workers[i] = w
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &WorkerFault{WorkerID: w.ID(), Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
				}
				if err != nil {
					mu.Lock()
					faults = multierr.Append(faults, err)
					mu.Unlock()
				}
			}()
			if err := w.Run(gctx); err != nil {
				if gctx.Err() != nil && errors.Is(err, gctx.Err()) {
					return nil
				}
				return &WorkerFault{WorkerID: w.ID(), Err: err}
			}
			return nil
		})
	}

	select {
	case <-c.engine.Done():
	case <-gctx.Done():
	}
	if err := c.transition(StateDraining); err != nil {
		return nil, err
	}
	_ = g.Wait()
	elapsed := time.Since(start)
	c.finishedAt.Store(time.Now().UnixNano())
	transactions := c.accounts.Counter().Load()

	if faults != nil {
		c.logger.Error("simulation failed", zap.Error(faults), zap.Duration("elapsed", elapsed))
		observability.ObserveRun("fault", elapsed, transactions)
		return nil, c.finish(faults)
	}

	terminal := c.engine.Terminal()
	if terminal == nil {
		c.logger.Warn("simulation interrupted", zap.Error(ctx.Err()), zap.Uint64("transactions", transactions))
		observability.ObserveRun("interrupted", elapsed, transactions)
		if cause := context.Cause(ctx); cause != nil {
			return nil, c.finish(fmt.Errorf("%w: %w", ErrInterrupted, cause))
		}
		return nil, c.finish(ErrInterrupted)
	}

	if err := c.transition(StateReporting); err != nil {
		return nil, err
	}
	report := &Report{
		RunID:          c.runID,
		Seed:           c.seed,
		Workers:        c.settings.Workers,
		Amount:         c.settings.Amount,
		Accounts:       c.settings.Accounts,
		Terminal:       terminal.Snapshot(),
		Elapsed:        elapsed,
		Transactions:   transactions,
		Reconciliation: c.reconcile(),
	}
	for _, w := range workers {
		report.Attempts += w.Stats().Attempts
	}

	c.logger.Info("simulation finished",
		zap.Int("account_id", report.Terminal.ID),
		zap.Uint64("transactions", transactions),
		zap.Uint64("attempts", report.Attempts),
		zap.Duration("elapsed", elapsed),
	)
	observability.ObserveRun("claimed", elapsed, transactions)
	if err := c.transition(StateDone); err != nil {
		return nil, err
	}
	return report, nil
}

// Accounts exposes the account set, e.g. for inspection once Run returned.
func (c *Controller) Accounts() *ledger.AccountSet {
	return c.accounts
}

func (c *Controller) RunID() uuid.UUID   { return c.runID }
func (c *Controller) Seed() uint64       { return c.seed }
func (c *Controller) Settings() Settings { return c.settings }

// State returns the current lifecycle stage.
func (c *Controller) State() State {
	return State(c.state.Load())
}

func (c *Controller) workerEngine() worker.Engine {
	if c.wrapEngine != nil {
		return c.wrapEngine(c.engine)
	}
	return c.engine
}

func (c *Controller) transition(next State) error {
	current := c.State()
	if !canTransition(current, next) {
		return fmt.Errorf("invalid simulation state transition: %s -> %s", current, next)
	}
	c.state.Store(uint32(next))
	c.logger.Debug("simulation state changed", zap.Stringer("from", current), zap.Stringer("to", next))
	return nil
}

// finish moves a failed run to Done and returns err unchanged.
func (c *Controller) finish(err error) error {
	if terr := c.transition(StateDone); terr != nil {
		return multierr.Append(err, terr)
	}
	return err
}
