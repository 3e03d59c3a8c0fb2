package qlock

// RWLock couples an [RWMutex] with the value it protects, so the value can
// only be reached through a live guard.
//
// Compared to a bare mutex next to the data, the guard API makes the
// critical section explicit: Read and Write hand out a guard, the guard is
// the only path to the value, and releasing the guard is the unlock. The
// fairness of the underlying RWMutex carries over unchanged.
//
// Usage:
//
//	counter := qlock.New(0)
//
//	w := counter.Write()
//	v := w.Value()
//	*v++
//	w.Unlock()
//
//	r := counter.Read()
//	fmt.Println(*r.Value())
//	r.Unlock()
//
// For critical sections that fit in a callback, [RWLock.View] and
// [RWLock.Update] scope the guard automatically.
//
// A guard belongs to the goroutine that acquired it; goroutines must not
// share one. A goroutine that exits without releasing its guard leaves the
// lock held forever; there is no poisoning or rescue. The zero value of
// RWLock holds the zero value of T.
type RWLock[T any] struct {
	_  noCopy
	mu RWMutex

	// value is reached only through a guard while mu is held.
	value T
}

// New returns an RWLock protecting value, configured by the given options
// (see [WithWaitQueue]).
func New[T any](value T, options ...func(*LockConfig)) *RWLock[T] {
	var cfg LockConfig
	for _, o := range options {
		o(&cfg)
	}
	l := &RWLock[T]{value: value}
	l.mu.queue = cfg.waitQueue
	return l
}

// Read acquires a read lock and returns the guard for it. It blocks, in
// FIFO order under contention, until no writer holds or awaits the lock.
// Any number of read guards may be live at once.
func (l *RWLock[T]) Read() *ReadGuard[T] {
	l.mu.RLock()
	return &ReadGuard[T]{lock: l}
}

// TryRead attempts to acquire a read lock without waiting. It returns
// (nil, false), leaving the lock untouched, iff a writer holds or awaits
// the lock.
func (l *RWLock[T]) TryRead() (*ReadGuard[T], bool) {
	if !l.mu.TryRLock() {
		return nil, false
	}
	return &ReadGuard[T]{lock: l}, true
}

// Write acquires the write lock and returns the guard for it. It blocks,
// in FIFO order under contention, until the lock is idle. The guard has
// exclusive access to the value.
func (l *RWLock[T]) Write() *WriteGuard[T] {
	l.mu.Lock()
	return &WriteGuard[T]{lock: l}
}

// TryWrite attempts to acquire the write lock without waiting. It returns
// (nil, false), leaving the lock untouched, iff the lock is not completely
// idle.
func (l *RWLock[T]) TryWrite() (*WriteGuard[T], bool) {
	if !l.mu.TryLock() {
		return nil, false
	}
	return &WriteGuard[T]{lock: l}, true
}

// View runs fn with read access to the value, holding a read lock for the
// duration of the call. fn must not modify the value through the pointer
// and must not retain the pointer after it returns.
func (l *RWLock[T]) View(fn func(*T)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(&l.value)
}

// Update runs fn with exclusive access to the value, holding the write
// lock for the duration of the call. fn must not retain the pointer after
// it returns.
func (l *RWLock[T]) Update(fn func(*T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(&l.value)
}

// ReadGuard is a live read lock on an [RWLock]. The value it exposes is
// shared with other read guards and must not be modified.
type ReadGuard[T any] struct {
	lock     *RWLock[T]
	released bool
}

// Value returns the protected value. The pointer is valid only until the
// guard is released; the value must not be modified through it.
func (g *ReadGuard[T]) Value() *T {
	if g.released {
		panic("qlock: ReadGuard used after release")
	}
	return &g.lock.value
}

// Unlock releases the guard's read lock. It panics if the guard was
// already released.
func (g *ReadGuard[T]) Unlock() {
	if g.released {
		panic("qlock: ReadGuard released twice")
	}
	g.released = true
	g.lock.mu.RUnlock()
}

// WriteGuard is a live write lock on an [RWLock], with exclusive access to
// the value.
type WriteGuard[T any] struct {
	lock     *RWLock[T]
	released bool
}

// Value returns the protected value for reading or writing. The pointer is
// valid only until the guard is released.
func (g *WriteGuard[T]) Value() *T {
	if g.released {
		panic("qlock: WriteGuard used after release")
	}
	return &g.lock.value
}

// Set replaces the protected value.
func (g *WriteGuard[T]) Set(v T) {
	if g.released {
		panic("qlock: WriteGuard used after release")
	}
	g.lock.value = v
}

// Unlock releases the guard's write lock, publishing its writes to the
// next holder. It panics if the guard was already released.
func (g *WriteGuard[T]) Unlock() {
	if g.released {
		panic("qlock: WriteGuard released twice")
	}
	g.released = true
	g.lock.mu.Unlock()
}
