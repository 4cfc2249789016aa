package ledger

import "sync/atomic"

// Counter counts debit and credit operations across every account of a run.
// Safe for concurrent use.
type Counter struct {
	n atomic.Uint64
}

// Inc records one operation.
func (c *Counter) Inc() {
	c.n.Add(1)
}

// Load returns the current count.
func (c *Counter) Load() uint64 {
	return c.n.Load()
}
