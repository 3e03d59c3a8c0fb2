package qlock_test

import (
	"fmt"

	"github.com/neilotoole/fifomu"

	"github.com/qsyncio/qlock"
)

func ExampleRWLock() {
	l := qlock.New([]string{"a"})

	w := l.Write()
	v := w.Value()
	*v = append(*v, "b")
	w.Unlock()

	r := l.Read()
	fmt.Println(*r.Value())
	r.Unlock()

	// Output:
	// [a b]
}

func ExampleRWLock_Update() {
	counter := qlock.New(0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 1000 {
			counter.Update(func(v *int) { *v++ })
		}
	}()
	<-done

	counter.View(func(v *int) { fmt.Println(*v) })

	// Output:
	// 1000
}

func ExampleRWMutex() {
	var mu qlock.RWMutex
	cache := map[string]int{}

	mu.Lock()
	cache["hits"] = 1
	mu.Unlock()

	mu.RLock()
	fmt.Println(cache["hits"])
	mu.RUnlock()

	// Output:
	// 1
}

func ExampleWithWaitQueue() {
	// A parking FIFO mutex can stand in for the built-in spinning ticket
	// queue when critical sections are long.
	l := qlock.New(0, qlock.WithWaitQueue(&fifomu.Mutex{}))

	l.Update(func(v *int) { *v = 42 })
	l.View(func(v *int) { fmt.Println(*v) })

	// Output:
	// 42
}

func ExampleRWLockGroup() {
	var locks qlock.RWLockGroup[string]

	locks.Lock("user:1")
	// mutate user 1's record
	locks.Unlock("user:1")

	locks.RLock("user:1")
	// read user 1's record
	locks.RUnlock("user:1")

	fmt.Println("done")
	// Output:
	// done
}
