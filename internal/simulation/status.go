package simulation

import (
	"time"

	"github.com/ayo6706/transfer-simulator/internal/domain"
	"github.com/ayo6706/transfer-simulator/internal/worker"
)

// Status is a point-in-time view of a run, safe to take while workers are running.
type Status struct {
	RunID             string `json:"run_id"`
	State             State  `json:"state"`
	Workers           int    `json:"workers"`
	Accounts          int    `json:"accounts"`
	Amount            string `json:"amount"`
	Seed              uint64 `json:"seed"`
	Transactions      uint64 `json:"transactions"`
	ElapsedMS         int64  `json:"elapsed_ms"`
	TerminalAccountID *int   `json:"terminal_account_id,omitempty"`
}

// Status reads only atomics, so it never contends with the workers' locks.
func (c *Controller) Status() Status {
	s := Status{
		RunID:        c.runID.String(),
		State:        c.State(),
		Workers:      c.settings.Workers,
		Accounts:     c.settings.Accounts,
		Amount:       domain.FormatAmount(c.settings.Amount),
		Seed:         c.seed,
		Transactions: c.accounts.Counter().Load(),
	}
	if started := c.startedAt.Load(); started > 0 {
		end := time.Now().UnixNano()
		if finished := c.finishedAt.Load(); finished > 0 {
			end = finished
		}
		s.ElapsedMS = time.Duration(end - started).Milliseconds()
	}
	if terminal := c.engine.Terminal(); terminal != nil {
		id := terminal.ID()
		s.TerminalAccountID = &id
	}
	return s
}

// Progress adapts Status for the progress worker.
func (c *Controller) Progress() worker.Progress {
	s := c.Status()
	return worker.Progress{
		State:        s.State.String(),
		Transactions: s.Transactions,
		Elapsed:      time.Duration(s.ElapsedMS) * time.Millisecond,
	}
}
