package ledger

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/ayo6706/transfer-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrNegativeBalance = errors.New("starting balance must not be negative")

// AccountSet is the fixed set of accounts of one run, keyed by id.
// Its structure never changes after construction, so lookups need no locking.
type AccountSet struct {
	base     int
	accounts []*Account
	counter  *Counter
}

// NewAccountSet creates one account per balance, with ids assigned
// contiguously from domain.AccountIDBase.
func NewAccountSet(balances []decimal.Decimal) (*AccountSet, error) {
	counter := &Counter{}
	accounts := make([]*Account, len(balances))
	for i, b := range balances {
		if b.IsNegative() {
			return nil, fmt.Errorf("account %d: %w", domain.AccountIDBase+i, ErrNegativeBalance)
		}
		accounts[i] = NewAccount(domain.AccountIDBase+i, b, counter)
	}
	return &AccountSet{base: domain.AccountIDBase, accounts: accounts, counter: counter}, nil
}

// RandomBalances draws n starting balances, each amount × (1 + U[0, BalanceFactor)).
func RandomBalances(n int, amount decimal.Decimal, rng *rand.Rand) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = domain.StartingBalance(amount, 1+rng.Int64N(domain.BalanceFactor))
	}
	return out
}

// Get returns the account with the given id.
func (s *AccountSet) Get(id int) (*Account, bool) {
	i := id - s.base
	if i < 0 || i >= len(s.accounts) {
		return nil, false
	}
	return s.accounts[i], true
}

// Len returns the number of accounts.
func (s *AccountSet) Len() int {
	return len(s.accounts)
}

// IDAt maps an index in [0, Len()) to an account id.
func (s *AccountSet) IDAt(i int) int {
	return s.base + i
}

// Accounts returns the accounts in id order. The slice must not be modified.
func (s *AccountSet) Accounts() []*Account {
	return s.accounts
}

// Counter returns the run-wide transaction counter shared by every account.
func (s *AccountSet) Counter() *Counter {
	return s.counter
}

// Totals sums starting and current balances over all accounts.
// Only meaningful when no worker is mutating accounts.
func (s *AccountSet) Totals() (start, current decimal.Decimal) {
	start, current = decimal.Zero, decimal.Zero
	for _, a := range s.accounts {
		start = start.Add(a.StartBalance())
		current = current.Add(a.Balance())
	}
	return start, current
}
