package minirt

import "sync"

// A WaitGroup is a counter that Futures can await until it becomes zero.
//
// Calling the Add or Done method of a WaitGroup updates the counter and,
// when the counter becomes zero, wakes any [Task] that is awaiting the
// WaitGroup.
//
// A WaitGroup is safe for concurrent use.
type WaitGroup struct {
	mu  sync.Mutex
	n   int
	sig Signal
}

// Add adds delta, which may be negative, to the [WaitGroup] counter.
// If the counter becomes zero, Add wakes any Task that is awaiting wg.
// If the counter is negative, Add panics.
func (wg *WaitGroup) Add(delta int) {
	wg.mu.Lock()
	n := wg.n + delta
	if n < 0 {
		wg.mu.Unlock()
		panic("minirt(WaitGroup): negative counter")
	}
	wg.n = n
	wg.mu.Unlock()

	if n == 0 && delta != 0 {
		wg.sig.Notify()
	}
}

// Done decrements the [WaitGroup] counter by one.
func (wg *WaitGroup) Done() {
	wg.Add(-1)
}

// Await returns a [Future] that completes when the [WaitGroup] counter is
// zero.
func (wg *WaitGroup) Await() Future {
	var await Future
	return FutureFunc(func(cx *Context) Poll {
		for {
			if await == nil {
				wg.mu.Lock()
				if wg.n == 0 {
					wg.mu.Unlock()
					return Ready
				}
				await = wg.sig.Await()
				wg.mu.Unlock()
			}
			if await.Poll(cx) == Pending {
				return Pending
			}
			await = nil
		}
	})
}
