package ledger

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Account is an in-memory ledger account.
//
// balance, debits and credits are guarded by mu and may only be mutated by the
// goroutine holding it. The read accessors do not lock: they are meant for
// reporting once no worker can mutate the account any more.
type Account struct {
	id           int
	startBalance decimal.Decimal
	counter      *Counter

	mu      sync.Mutex
	balance decimal.Decimal
	debits  uint64
	credits uint64
}

// NewAccount creates an account whose debits and credits are also counted in counter.
func NewAccount(id int, initial decimal.Decimal, counter *Counter) *Account {
	return &Account{
		id:           id,
		startBalance: initial,
		balance:      initial,
		counter:      counter,
	}
}

// TryLock attempts to take the account lock without blocking.
func (a *Account) TryLock() bool {
	return a.mu.TryLock()
}

// Unlock releases a lock obtained with TryLock.
func (a *Account) Unlock() {
	a.mu.Unlock()
}

// IsZero reports whether the balance is exactly zero. Callers deciding on the
// result must hold the lock.
func (a *Account) IsZero() bool {
	return a.balance.IsZero()
}

// Debit subtracts amount. The lock must be held.
func (a *Account) Debit(amount decimal.Decimal) {
	a.balance = a.balance.Sub(amount)
	a.debits++
	a.counter.Inc()
}

// Credit adds amount. The lock must be held.
func (a *Account) Credit(amount decimal.Decimal) {
	a.balance = a.balance.Add(amount)
	a.credits++
	a.counter.Inc()
}

func (a *Account) ID() int                       { return a.id }
func (a *Account) StartBalance() decimal.Decimal { return a.startBalance }
func (a *Account) Balance() decimal.Decimal      { return a.balance }
func (a *Account) Debits() uint64                { return a.debits }
func (a *Account) Credits() uint64               { return a.credits }

// Transactions is the number of debits and credits applied to the account.
func (a *Account) Transactions() uint64 {
	return a.debits + a.credits
}

// Snapshot is a copy of an account's reportable fields.
type Snapshot struct {
	ID           int             `json:"id" yaml:"id"`
	StartBalance decimal.Decimal `json:"start_balance" yaml:"start_balance"`
	Balance      decimal.Decimal `json:"balance" yaml:"balance"`
	Debits       uint64          `json:"debits" yaml:"debits"`
	Credits      uint64          `json:"credits" yaml:"credits"`
	Transactions uint64          `json:"transactions" yaml:"transactions"`
}

// Snapshot copies the account under its lock.
func (a *Account) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		ID:           a.id,
		StartBalance: a.startBalance,
		Balance:      a.balance,
		Debits:       a.debits,
		Credits:      a.credits,
		Transactions: a.debits + a.credits,
	}
}
