package ledger

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/ayo6706/transfer-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAccount_DebitCredit(t *testing.T) {
	counter := &Counter{}
	a := NewAccount(1000, dec("100.00"), counter)

	require.True(t, a.TryLock())
	a.Debit(dec("30.00"))
	a.Credit(dec("10.00"))
	a.Debit(dec("80.00"))
	assert.True(t, a.IsZero())
	a.Unlock()

	assert.Equal(t, uint64(2), a.Debits())
	assert.Equal(t, uint64(1), a.Credits())
	assert.Equal(t, uint64(3), a.Transactions())
	assert.Equal(t, uint64(3), counter.Load())
	assert.True(t, a.StartBalance().Equal(dec("100")))
	assert.True(t, a.Balance().IsZero())
}

func TestAccount_TryLockDoesNotBlock(t *testing.T) {
	a := NewAccount(1000, dec("1"), &Counter{})
	require.True(t, a.TryLock())
	assert.False(t, a.TryLock())

	done := make(chan bool)
	go func() { done <- a.TryLock() }()
	assert.False(t, <-done)

	a.Unlock()
	assert.True(t, a.TryLock())
	a.Unlock()
}

func TestAccount_IsZeroIsExact(t *testing.T) {
	a := NewAccount(1000, dec("0.01"), &Counter{})
	assert.False(t, a.IsZero())

	z := NewAccount(1001, dec("0.00"), &Counter{})
	assert.True(t, z.IsZero())
}

func TestAccount_Snapshot(t *testing.T) {
	a := NewAccount(1007, dec("50.00"), &Counter{})
	require.True(t, a.TryLock())
	a.Credit(dec("5.00"))
	a.Unlock()

	s := a.Snapshot()
	assert.Equal(t, 1007, s.ID)
	assert.True(t, s.Balance.Equal(dec("55")))
	assert.Equal(t, uint64(1), s.Credits)
	assert.Equal(t, uint64(0), s.Debits)
	assert.Equal(t, uint64(1), s.Transactions)
}

func TestNewAccountSet(t *testing.T) {
	set, err := NewAccountSet([]decimal.Decimal{dec("100"), dec("50")})
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	a, ok := set.Get(domain.AccountIDBase)
	require.True(t, ok)
	assert.Equal(t, 1000, a.ID())

	b, ok := set.Get(1001)
	require.True(t, ok)
	assert.True(t, b.StartBalance().Equal(dec("50")))

	_, ok = set.Get(999)
	assert.False(t, ok)
	_, ok = set.Get(1002)
	assert.False(t, ok)

	assert.Equal(t, 1001, set.IDAt(1))

	start, current := set.Totals()
	assert.True(t, start.Equal(dec("150")))
	assert.True(t, current.Equal(dec("150")))
}

func TestNewAccountSet_RejectsNegative(t *testing.T) {
	_, err := NewAccountSet([]decimal.Decimal{dec("1"), dec("-1")})
	require.ErrorIs(t, err, ErrNegativeBalance)
	assert.Contains(t, err.Error(), "account 1001")
}

func TestNewAccountSet_SharesCounter(t *testing.T) {
	set, err := NewAccountSet([]decimal.Decimal{dec("10"), dec("10")})
	require.NoError(t, err)

	for _, a := range set.Accounts() {
		require.True(t, a.TryLock())
		a.Credit(dec("1"))
		a.Unlock()
	}
	assert.Equal(t, uint64(2), set.Counter().Load())
}

func TestRandomBalances(t *testing.T) {
	amount := dec("2.50")
	rng := rand.New(rand.NewPCG(42, 0))
	balances := RandomBalances(500, amount, rng)
	require.Len(t, balances, 500)

	upper := amount.Mul(decimal.NewFromInt(domain.BalanceFactor))
	for _, b := range balances {
		assert.True(t, b.GreaterThanOrEqual(amount), b.String())
		assert.True(t, b.LessThanOrEqual(upper), b.String())
		assert.True(t, b.Mod(amount).IsZero(), "balance %s is not a multiple of the amount", b)
	}

	again := RandomBalances(500, amount, rand.New(rand.NewPCG(42, 0)))
	assert.Equal(t, balances, again)
}

func TestCounter_Concurrent(t *testing.T) {
	c := &Counter{}
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				c.Inc()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(50_000), c.Load())
}
