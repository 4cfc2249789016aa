package simulation

import (
	"time"

	"github.com/ayo6706/transfer-simulator/internal/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Report describes a finished run.
type Report struct {
	RunID uuid.UUID
	Seed  uint64

	Workers  int
	Amount   decimal.Decimal
	Accounts int

	// Terminal is the account that was claimed at zero balance.
	Terminal ledger.Snapshot

	Elapsed time.Duration
	// Transactions counts debits and credits across all accounts.
	Transactions uint64
	// Attempts counts every transfer attempt made by every worker.
	Attempts uint64

	Reconciliation Reconciliation
}
