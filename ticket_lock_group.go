package qlock

import (
	"github.com/llxisdsh/pb"
)

// TicketLockGroup allows locking on arbitrary keys (string, int, struct, etc.).
// It dynamically manages a set of locks associated with keys.
//
// Features:
//   - Infinite Keys: No need to pre-allocate locks.
//   - FIFO per key: each key's lock is a [TicketLock], so goroutines
//     contending for one key are served in arrival order.
//   - Auto-Cleanup: Locks are automatically removed from memory when unlocked
//     and no one else is waiting.
//
// Usage:
//
//	var group TicketLockGroup[string]
//	group.Lock("user-123")
//	// Critical section for user-123
//	group.Unlock("user-123")
//
// Implementation Note:
// It uses reference counting over a lock-free concurrent map to safely
// delete entries; the count covers holders and waiters alike.
type TicketLockGroup[K comparable] struct {
	_ noCopy
	m pb.MapOf[K, *lockGroupEntry]
}

type lockGroupEntry struct {
	mu TicketLock
	// ref counts holders plus waiters; only ProcessEntry callbacks touch it.
	ref int32
}

// Lock acquires the lock for key k, creating it on first use.
func (g *TicketLockGroup[K]) Lock(k K) {
	v, _ := g.m.ProcessEntry(k,
		func(l *pb.EntryOf[K, *lockGroupEntry]) (*pb.EntryOf[K, *lockGroupEntry], *lockGroupEntry, bool) {
			if l != nil {
				l.Value.ref++
				return l, l.Value, true
			}
			e := &lockGroupEntry{ref: 1}
			return &pb.EntryOf[K, *lockGroupEntry]{Value: e}, e, false
		})
	v.mu.Lock()
}

// Unlock releases the lock for key k and drops the key once no goroutine
// holds or awaits it. Unlocking a key that is not held is a no-op.
func (g *TicketLockGroup[K]) Unlock(k K) {
	v, ok := g.m.Load(k)
	if !ok {
		return
	}
	// Release before dropping the reference: a waiter woken here still
	// holds its own reference, so the entry cannot vanish under it.
	v.mu.Unlock()

	g.m.ProcessEntry(k,
		func(l *pb.EntryOf[K, *lockGroupEntry]) (*pb.EntryOf[K, *lockGroupEntry], *lockGroupEntry, bool) {
			if l == nil {
				return nil, nil, false
			}
			l.Value.ref--
			if l.Value.ref <= 0 {
				return nil, nil, false
			}
			return l, l.Value, true
		})
}
