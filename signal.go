package minirt

import "sync"

// A Signal is an event that Futures can await.
//
// Calling the Notify method of a Signal wakes every [Task] that is awaiting
// the Signal.
// Unlike a [TimerFuture], a Signal can notify any number of times.
//
// A Signal is safe for concurrent use.
type Signal struct {
	mu        sync.Mutex
	seq       uint64
	listeners []*Waker
}

func (s *Signal) addListener(w *Waker) {
	for _, l := range s.listeners {
		if l.WillWake(w) {
			return
		}
	}
	s.listeners = append(s.listeners, w.Clone())
}

// Notify wakes any [Task] that is awaiting s.
//
// Notify blocks while the run queue is full, so calling it from a Future
// with a nearly full queue could deadlock the Executor.
func (s *Signal) Notify() {
	s.mu.Lock()
	s.seq++
	listeners := s.listeners
	s.listeners = nil
	s.mu.Unlock()

	for _, w := range listeners {
		w.Wake()
	}
}

// Await returns a [Future] that completes on the first notification of s
// after Await is called.
//
// A Task awaiting a Signal that never notifies is kept alive by s.
func (s *Signal) Await() Future {
	s.mu.Lock()
	seq := s.seq
	s.mu.Unlock()

	return FutureFunc(func(cx *Context) Poll {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.seq != seq {
			return Ready
		}

		s.addListener(cx.Waker())
		return Pending
	})
}
