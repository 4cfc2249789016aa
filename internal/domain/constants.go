package domain

// Simulation limits and account numbering.
const (
	// AccountIDBase is the id of the first account; ids are contiguous from here.
	AccountIDBase = 1000

	MinWorkers  = 1
	MaxWorkers  = 200
	MinAccounts = 2
	MaxAccounts = 10000

	// BalanceFactor bounds the random multiplier applied to the transfer amount
	// when generating starting balances.
	BalanceFactor = 100000

	// AmountScale is the number of decimal places kept for money values.
	AmountScale = 2

	DirectionDebit  = "debit"
	DirectionCredit = "credit"
)
