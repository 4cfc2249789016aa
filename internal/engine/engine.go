// Package engine performs single transfer attempts between two accounts of a
// ledger.AccountSet and owns the run's termination slot.
//
// Locks are only ever taken with TryLock. A failed acquisition releases
// whatever is held and gives up the attempt, so no goroutine waits on a lock
// while holding another one and no global lock order is needed.
package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ayo6706/transfer-simulator/internal/ledger"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownAccount = errors.New("unknown account")
	ErrOverdraft      = errors.New("source balance below transfer amount")
)

// Outcome describes what a single attempt did.
type Outcome int

const (
	OutcomeTransferred Outcome = iota
	OutcomeClaimed
	OutcomeSourceBusy
	OutcomeDestinationBusy
	OutcomeHalted
	OutcomeSameAccount
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTransferred:
		return "transferred"
	case OutcomeClaimed:
		return "claimed"
	case OutcomeSourceBusy:
		return "source_busy"
	case OutcomeDestinationBusy:
		return "destination_busy"
	case OutcomeHalted:
		return "halted"
	case OutcomeSameAccount:
		return "same_account"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Engine moves a fixed amount between accounts until one of them is claimed
// as the zero-balance terminal account.
type Engine struct {
	accounts *ledger.AccountSet
	amount   decimal.Decimal
	terminal atomic.Pointer[ledger.Account]
	done     chan struct{}
}

// New creates an engine transferring amount between accounts.
func New(accounts *ledger.AccountSet, amount decimal.Decimal) *Engine {
	return &Engine{accounts: accounts, amount: amount, done: make(chan struct{})}
}

// Accounts returns the account set the engine operates on.
func (e *Engine) Accounts() *ledger.AccountSet {
	return e.accounts
}

// Amount returns the fixed transfer amount.
func (e *Engine) Amount() decimal.Decimal {
	return e.amount
}

// Halted reports whether a terminal account has been claimed.
func (e *Engine) Halted() bool {
	return e.terminal.Load() != nil
}

// Done is closed once a terminal account has been claimed.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Terminal returns the claimed account, or nil while the run is still going.
func (e *Engine) Terminal() *ledger.Account {
	return e.terminal.Load()
}

// Attempt tries one transfer from srcID to dstID.
//
// With both locks held, a zero-balance source is claimed as the terminal
// account if no account has been claimed yet; otherwise, if the run is still
// going, the amount is debited from the source and credited to the
// destination. The destination lock is released before the source lock.
func (e *Engine) Attempt(srcID, dstID int) (Outcome, error) {
	if srcID == dstID {
		return OutcomeSameAccount, nil
	}
	src, ok := e.accounts.Get(srcID)
	if !ok {
		return 0, fmt.Errorf("source %d: %w", srcID, ErrUnknownAccount)
	}
	dst, ok := e.accounts.Get(dstID)
	if !ok {
		return 0, fmt.Errorf("destination %d: %w", dstID, ErrUnknownAccount)
	}

	if !src.TryLock() {
		return OutcomeSourceBusy, nil
	}
	defer src.Unlock()

	if !dst.TryLock() {
		return OutcomeDestinationBusy, nil
	}
	defer dst.Unlock()

	if e.Halted() {
		return OutcomeHalted, nil
	}

	if src.IsZero() {
		if e.terminal.CompareAndSwap(nil, src) {
			close(e.done)
			return OutcomeClaimed, nil
		}
		return OutcomeHalted, nil
	}

	if src.Balance().LessThan(e.amount) {
		return 0, fmt.Errorf("account %d balance %s, amount %s: %w",
			src.ID(), src.Balance().StringFixed(2), e.amount.StringFixed(2), ErrOverdraft)
	}

	src.Debit(e.amount)
	dst.Credit(e.amount)
	return OutcomeTransferred, nil
}
