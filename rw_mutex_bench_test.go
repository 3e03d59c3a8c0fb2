package qlock_test

import (
	"sync"
	"testing"

	"github.com/neilotoole/fifomu"

	"github.com/qsyncio/qlock"
)

// Acknowledgement: the benchmark bodies in this file are copied from stdlib
// sync/rwmutex_test.go, wrapped to run against each implementation.

// rwmutexer is the shared methodset of sync.RWMutex and qlock.RWMutex.
type rwmutexer interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
	TryLock() bool
	TryRLock() bool
}

var (
	_ rwmutexer = (*qlock.RWMutex)(nil)
	_ rwmutexer = (*sync.RWMutex)(nil)
)

// newRW is swapped between implementations by benchmarkEachImpl.
var newRW = newQueuedRW

func newQueuedRW() rwmutexer { return &qlock.RWMutex{} }
func newStdlibRW() rwmutexer { return &sync.RWMutex{} }

func benchmarkEachImpl(b *testing.B, fn func(b *testing.B)) {
	b.Cleanup(func() {
		// Restore to default.
		newRW = newQueuedRW
	})

	b.Run("stdlib", func(b *testing.B) {
		b.ReportAllocs()
		newRW = newStdlibRW
		fn(b)
	})
	b.Run("qlock", func(b *testing.B) {
		b.ReportAllocs()
		newRW = newQueuedRW
		fn(b)
	})
}

func BenchmarkRWMutexUncontended(b *testing.B) {
	type PaddedRWMutex struct {
		rwmutexer
		pad [128]uint8 //nolint:unused
	}

	benchmarkEachImpl(b, func(b *testing.B) {
		b.RunParallel(func(pb *testing.PB) {
			var mu PaddedRWMutex
			mu.rwmutexer = newRW()
			for pb.Next() {
				mu.RLock()
				mu.RUnlock()
				mu.RLock()
				mu.RUnlock()
				mu.Lock()
				mu.Unlock()
			}
		})
	})
}

func benchmarkRWMutex(b *testing.B, localWork, writeRatio int) {
	mu := newRW()
	b.RunParallel(func(pb *testing.PB) {
		foo := 0
		for pb.Next() {
			foo++
			if foo%writeRatio == 0 {
				mu.Lock()
				mu.Unlock()
			} else {
				mu.RLock()
				for i := 0; i != localWork; i++ {
					foo *= 2
					foo /= 2
				}
				mu.RUnlock()
			}
		}
		_ = foo
	})
}

func BenchmarkRWMutexWrite100(b *testing.B) {
	benchmarkEachImpl(b, func(b *testing.B) { benchmarkRWMutex(b, 0, 100) })
}

func BenchmarkRWMutexWrite10(b *testing.B) {
	benchmarkEachImpl(b, func(b *testing.B) { benchmarkRWMutex(b, 0, 10) })
}

func BenchmarkRWMutexWorkWrite100(b *testing.B) {
	benchmarkEachImpl(b, func(b *testing.B) { benchmarkRWMutex(b, 100, 100) })
}

func BenchmarkRWMutexWorkWrite10(b *testing.B) {
	benchmarkEachImpl(b, func(b *testing.B) { benchmarkRWMutex(b, 100, 10) })
}

// BenchmarkRWMutexWaitQueues compares the built-in spinning ticket queue
// against a parking FIFO mutex under pure write contention.
func BenchmarkRWMutexWaitQueues(b *testing.B) {
	impls := []struct {
		name string
		mk   func() *qlock.RWMutex
	}{
		{"ticket", func() *qlock.RWMutex { return qlock.NewRWMutex() }},
		{"fifomu", func() *qlock.RWMutex {
			return qlock.NewRWMutex(qlock.WithWaitQueue(&fifomu.Mutex{}))
		}},
	}
	for _, impl := range impls {
		b.Run(impl.name, func(b *testing.B) {
			b.ReportAllocs()
			mu := impl.mk()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					mu.Lock()
					mu.Unlock()
				}
			})
		})
	}
}
