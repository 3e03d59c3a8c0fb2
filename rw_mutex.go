// Package qlock provides fair, starvation-free reader-writer locking.
//
// The core design follows the Linux kernel's queued rwlock (qrwlock): all
// lock state lives in a single 32-bit word, uncontended acquisitions are one
// atomic operation, and contended acquisitions serialize on a FIFO wait
// queue, so neither readers nor writers can starve the other side under
// sustained load.
package qlock

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/qsyncio/qlock/internal/opt"
)

const (
	rwWriterLocked  = 0xff   // low byte, held by the active writer
	rwWriterWaiting = 1 << 8 // one queued writer announces itself here
	rwWriterMask    = rwWriterLocked | rwWriterWaiting
	rwReaderShift   = 9
	rwReaderUnit    = 1 << rwReaderShift // one reader, as the word counts it

	// MaxReaders is the largest number of goroutines that may hold or be
	// acquiring read locks on one RWMutex at the same time. Exceeding it
	// panics rather than corrupting the writer bits.
	MaxReaders = 1<<(32-rwReaderShift) - 1
)

// The protocol packs everything into exactly 32 bits.
var _ [4 - unsafe.Sizeof(atomic.Uint32{})]byte
var _ [unsafe.Sizeof(atomic.Uint32{}) - 4]byte

// RWMutex is a fair reader-writer mutual exclusion lock.
//
// Unlike sync.RWMutex, which can let a stream of readers delay writers (or
// vice versa) in unlucky schedules, RWMutex grants contended requests in
// roughly the order they arrived: a queued writer blocks later readers, and
// queued readers are admitted before a writer that queued after them.
//
// Properties:
//   - Fair: contention is serialized through a FIFO wait queue, so neither
//     readers nor writers can starve the other side. Acquisitions that
//     never contend take the fast path and carry no ordering guarantee
//     among themselves.
//   - Lock-free fast paths: one atomic Add (read) or CAS (write) when
//     uncontended.
//   - Busy-wait (spinning) with hybrid backoff once queued; the lock itself
//     never parks a goroutine, though a custom wait queue may.
//
// The zero value is an unlocked mutex whose wait queue is an embedded
// [TicketLock]. [NewRWMutex] substitutes another FIFO queue.
// An RWMutex must not be copied after first use.
//
// Memory ordering: Go's sync/atomic operations are sequentially consistent,
// which is stronger than any ordering this protocol needs, so the unlock of
// a writer happens before the next acquisition observes the cleared byte.
//
// Size: 4 bytes of lock word plus the wait queue (and optional padding,
// see the qlock_enable_padding build tag).
type RWMutex struct {
	_ noCopy

	// state 32-bit layout:
	//   bits 0-7:  writer byte, 0xff while a writer holds the lock
	//   bit  8:    set while a queued writer waits for readers to drain
	//   bits 9-31: count of readers holding or acquiring the lock
	state atomic.Uint32
	_     opt.WordPad_

	// tq is the built-in FIFO wait queue; queue overrides it when non-nil.
	// Only the slow paths touch either. Set queue before first use.
	tq    TicketLock
	queue sync.Locker
}

// NewRWMutex returns an unlocked RWMutex configured by the given options
// (see [WithWaitQueue]). Without options it is equivalent to new(RWMutex).
func NewRWMutex(options ...func(*LockConfig)) *RWMutex {
	var cfg LockConfig
	for _, o := range options {
		o(&cfg)
	}
	rw := &RWMutex{}
	rw.queue = cfg.waitQueue
	return rw
}

func (rw *RWMutex) waitQueue() sync.Locker {
	if rw.queue != nil {
		return rw.queue
	}
	return &rw.tq
}

// RLock acquires a read lock.
//
// Uncontended, it is a single atomic add. If a writer holds or awaits the
// lock, RLock joins the FIFO wait queue, so readers arriving after a queued
// writer do not overtake it.
func (rw *RWMutex) RLock() {
	if rw.rlockFast() {
		return
	}
	rw.rlockSlow()
}

// TryRLock attempts to acquire a read lock without waiting and reports
// whether it succeeded. It fails iff a writer holds or awaits the lock, and
// a failed attempt leaves the lock word as it found it.
func (rw *RWMutex) TryRLock() bool {
	return rw.rlockFast()
}

// rlockFast optimistically claims a reader slot and backs the claim out
// again if a writer turns out to hold or await the lock.
func (rw *RWMutex) rlockFast() bool {
	s := rw.state.Add(rwReaderUnit)
	if s&rwWriterMask == 0 {
		if s>>rwReaderShift == 0 {
			// The count wrapped. Put the word back before dying so the
			// remaining readers stay accounted for.
			rw.state.Add(^uint32(rwReaderUnit - 1))
			panic("qlock: too many readers")
		}
		return true
	}
	rw.state.Add(^uint32(rwReaderUnit - 1))
	return false
}

func (rw *RWMutex) rlockSlow() {
	q := rw.waitQueue()
	q.Lock()
	defer q.Unlock()

	// Holding the queue makes this reader the oldest waiter. Claim a slot
	// unconditionally; the writer bits only have to drain, they cannot be
	// set anew while the queue is held.
	s := rw.state.Add(rwReaderUnit)
	if s>>rwReaderShift == 0 {
		rw.state.Add(^uint32(rwReaderUnit - 1))
		panic("qlock: too many readers")
	}
	var spins int
	for rw.state.Load()&rwWriterMask != 0 {
		delay(&spins)
	}
}

// RUnlock releases one read lock. It panics if the lock is not read-locked.
func (rw *RWMutex) RUnlock() {
	s := rw.state.Add(^uint32(rwReaderUnit - 1))
	if s>>rwReaderShift == MaxReaders {
		// The count went below zero. Restore it so the panic stays
		// recoverable without wedging other holders.
		rw.state.Add(rwReaderUnit)
		panic("qlock: RUnlock of unlocked RWMutex")
	}
}

// Lock acquires the write lock.
//
// Uncontended, it is a single CAS. Otherwise Lock joins the FIFO wait queue,
// announces itself in the lock word to turn away fast-path readers, waits
// for the readers that beat it to drain, and then claims the writer byte.
func (rw *RWMutex) Lock() {
	if rw.state.CompareAndSwap(0, rwWriterLocked) {
		return
	}
	rw.lockSlow()
}

// TryLock attempts to acquire the write lock without waiting and reports
// whether it succeeded. It fails iff the lock is not completely idle (any
// reader, writer, or queued writer).
func (rw *RWMutex) TryLock() bool {
	return rw.state.Load() == 0 && rw.state.CompareAndSwap(0, rwWriterLocked)
}

func (rw *RWMutex) lockSlow() {
	q := rw.waitQueue()
	q.Lock()
	defer q.Unlock()

	// The lock may have gone idle while this writer queued.
	if rw.state.Load() == 0 && rw.state.CompareAndSwap(0, rwWriterLocked) {
		return
	}

	// Announce the queued writer. From here on fast-path readers bounce off
	// rwWriterMask and line up behind this goroutine in the queue.
	rw.state.Or(rwWriterWaiting)

	// Wait until the word holds nothing but the announcement, then swap it
	// for the writer byte. The CAS can lose to a transient optimistic
	// reader claim, so it retries.
	var spins int
	for {
		if s := rw.state.Load(); s == rwWriterWaiting &&
			rw.state.CompareAndSwap(rwWriterWaiting, rwWriterLocked) {
			return
		}
		delay(&spins)
	}
}

// Unlock releases the write lock. It panics if the lock is not write-locked.
func (rw *RWMutex) Unlock() {
	// Clear only the writer byte. Queued readers may already have piled
	// claims into the reader bits and a queued writer may have set the
	// waiting bit; both must survive the release untouched. Go's sync/atomic
	// has no byte-width store, so the narrow store is a masked RMW over the
	// full word, equivalent at the cost of a read-modify-write.
	old := rw.state.And(^uint32(rwWriterLocked))
	if old&rwWriterLocked != rwWriterLocked {
		panic("qlock: Unlock of unlocked RWMutex")
	}
}

// RLocker returns a [sync.Locker] interface that implements the Lock and
// Unlock methods by calling rw.RLock and rw.RUnlock.
func (rw *RWMutex) RLocker() sync.Locker {
	return (*rlocker)(rw)
}

type rlocker RWMutex

func (r *rlocker) Lock()   { (*RWMutex)(r).RLock() }
func (r *rlocker) Unlock() { (*RWMutex)(r).RUnlock() }
