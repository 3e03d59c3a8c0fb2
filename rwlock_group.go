package qlock

import (
	"github.com/llxisdsh/pb"
)

// RWLockGroup allows shared reader-writer locking on arbitrary keys.
// It matches the interface of [TicketLockGroup] but supports RLock/RUnlock.
//
// Features:
//   - RLock/RUnlock for shared read access.
//   - Lock/Unlock for exclusive write access.
//   - Fair per key: each key's lock is an [RWMutex], so readers and writers
//     contending for one key are served in roughly arrival order and neither
//     side starves.
//   - Infinite Keys & Auto-Cleanup.
//
// Usage:
//
//	var group RWLockGroup[string]
//
//	// Readers
//	group.RLock("config")
//	read(config)
//	group.RUnlock("config")
//
//	// Writer
//	group.Lock("config")
//	write(config)
//	group.Unlock("config")
type RWLockGroup[K comparable] struct {
	_ noCopy
	m pb.MapOf[K, *rwLockGroupEntry]
}

type rwLockGroupEntry struct {
	mu RWMutex
	// ref counts holders plus waiters; only ProcessEntry callbacks touch it.
	ref int32
}

func (g *RWLockGroup[K]) acquire(k K) *rwLockGroupEntry {
	v, _ := g.m.ProcessEntry(k,
		func(l *pb.EntryOf[K, *rwLockGroupEntry]) (*pb.EntryOf[K, *rwLockGroupEntry], *rwLockGroupEntry, bool) {
			if l != nil {
				l.Value.ref++
				return l, l.Value, true
			}
			e := &rwLockGroupEntry{ref: 1}
			return &pb.EntryOf[K, *rwLockGroupEntry]{Value: e}, e, false
		})
	return v
}

func (g *RWLockGroup[K]) release(k K) {
	g.m.ProcessEntry(k,
		func(l *pb.EntryOf[K, *rwLockGroupEntry]) (*pb.EntryOf[K, *rwLockGroupEntry], *rwLockGroupEntry, bool) {
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

// Lock acquires the write lock for key k, creating it on first use.
func (g *RWLockGroup[K]) Lock(k K) {
	g.acquire(k).mu.Lock()
}

// Unlock releases the write lock for key k and drops the key once no
// goroutine holds or awaits it. Unlocking a key that is not held is a no-op.
func (g *RWLockGroup[K]) Unlock(k K) {
	v, ok := g.m.Load(k)
	if !ok {
		return
	}
	// Release before dropping the reference: a waiter woken here still
	// holds its own reference, so the entry cannot vanish under it.
	v.mu.Unlock()
	g.release(k)
}

// RLock acquires a read lock for key k, creating it on first use.
func (g *RWLockGroup[K]) RLock(k K) {
	g.acquire(k).mu.RLock()
}

// RUnlock releases one read lock for key k and drops the key once no
// goroutine holds or awaits it. Unlocking a key that is not held is a no-op.
func (g *RWLockGroup[K]) RUnlock(k K) {
	v, ok := g.m.Load(k)
	if !ok {
		return
	}
	v.mu.RUnlock()
	g.release(k)
}
