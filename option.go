package qlock

import (
	"sync"
)

// LockConfig defines configurable options for [NewRWMutex] and [New].
type LockConfig struct {
	// waitQueue replaces the built-in TicketLock as the FIFO queue that
	// serializes contended acquisitions.
	// If nil, the built-in TicketLock is used.
	// The lock's fairness is exactly the queue's fairness: any strictly
	// FIFO sync.Locker preserves the no-starvation guarantee, while a
	// barging Locker (such as sync.Mutex) degrades it to that Locker's
	// ordering. The queue is held across the whole contended acquisition,
	// so a parking implementation trades spin cycles for scheduler wakeups.
	waitQueue sync.Locker
}

// WithWaitQueue configures the FIFO wait queue that contended acquisitions
// line up on, replacing the built-in [TicketLock]. The queue must not be
// shared with any other lock and must be strictly first-in-first-out for
// the fairness guarantee to hold.
//
// A parking FIFO mutex (for example github.com/neilotoole/fifomu) suits
// workloads whose critical sections are too long to spin through.
func WithWaitQueue(q sync.Locker) func(*LockConfig) {
	return func(c *LockConfig) {
		c.waitQueue = q
	}
}
