package simulation

import (
	"github.com/ayo6706/transfer-simulator/internal/domain"
	"github.com/ayo6706/transfer-simulator/internal/ledger"
	"github.com/ayo6706/transfer-simulator/internal/observability"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Reconciliation checks names.
const (
	CheckConservation    = "conservation"
	CheckDebitCredit     = "debit_credit"
	CheckGlobalCounter   = "global_counter"
	CheckNegativeBalance = "negative_balance"
)

// Reconciliation is the ledger integrity check run after every worker stopped.
type Reconciliation struct {
	StartTotal          decimal.Decimal
	EndTotal            decimal.Decimal
	Debits              uint64
	Credits             uint64
	AccountTransactions uint64
	Transactions        uint64
	NegativeAccounts    int
	ZeroAccounts        int
	Failed              []string
}

// Balanced reports whether every check passed.
func (r Reconciliation) Balanced() bool {
	return len(r.Failed) == 0
}

// Reconcile verifies that balances were conserved, that every debit has a
// matching credit, that the run-wide counter matches the per-account counts,
// and that no balance went negative. accounts must not be mutated concurrently.
func Reconcile(accounts *ledger.AccountSet) Reconciliation {
	r := Reconciliation{Transactions: accounts.Counter().Load()}
	r.StartTotal, r.EndTotal = accounts.Totals()
	for _, a := range accounts.Accounts() {
		r.Debits += a.Debits()
		r.Credits += a.Credits()
		r.AccountTransactions += a.Transactions()
		switch {
		case a.Balance().IsNegative():
			r.NegativeAccounts++
		case a.Balance().IsZero():
			r.ZeroAccounts++
		}
	}

	if !r.StartTotal.Equal(r.EndTotal) {
		r.Failed = append(r.Failed, CheckConservation)
	}
	if r.Debits != r.Credits {
		r.Failed = append(r.Failed, CheckDebitCredit)
	}
	if r.Transactions != r.AccountTransactions {
		r.Failed = append(r.Failed, CheckGlobalCounter)
	}
	if r.NegativeAccounts > 0 {
		r.Failed = append(r.Failed, CheckNegativeBalance)
	}
	return r
}

func (c *Controller) reconcile() Reconciliation {
	r := Reconcile(c.accounts)
	if r.Balanced() {
		c.logger.Info("Ledger Balanced",
			zap.String("total", domain.FormatAmount(r.EndTotal)),
			zap.Int("zero_accounts", r.ZeroAccounts),
		)
		return r
	}

	for _, check := range r.Failed {
		observability.IncrementLedgerImbalance(check)
	}
	c.logger.Error("CRITICAL: ledger imbalance detected",
		zap.Strings("failed_checks", r.Failed),
		zap.String("start_total", domain.FormatAmount(r.StartTotal)),
		zap.String("end_total", domain.FormatAmount(r.EndTotal)),
		zap.Uint64("debits", r.Debits),
		zap.Uint64("credits", r.Credits),
		zap.Uint64("transactions", r.Transactions),
		zap.Uint64("account_transactions", r.AccountTransactions),
		zap.Int("negative_accounts", r.NegativeAccounts),
	)
	return r
}
