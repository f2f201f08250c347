package minirt

import (
	"errors"
	"sync"
	"time"
)

// A TimerFuture is a [Future] that completes after a fixed duration.
//
// The duration is measured by a goroutine started in [NewTimerFuture], so
// the Executor never waits on it.
// When the duration has elapsed, the goroutine wakes the Task that most
// recently polled the TimerFuture, if any.
// A TimerFuture cannot be canceled; its goroutine always runs to the end.
type TimerFuture struct {
	state *timerState
}

// timerState is shared by a TimerFuture and its timer goroutine.
type timerState struct {
	mu        sync.Mutex
	completed bool
	waker     *Waker
}

// NewTimerFuture creates a [TimerFuture] and starts its timer.
// A zero or negative d completes as soon as the timer goroutine runs.
func NewTimerFuture(d time.Duration) *TimerFuture {
	s := new(timerState)
	go s.fire(d)
	return &TimerFuture{state: s}
}

// Poll reports [Ready] once the duration has elapsed.
// Otherwise, it keeps a clone of cx.Waker(), replacing the one kept by
// a previous poll, and reports [Pending].
//
// Polling a completed TimerFuture always reports Ready.
func (f *TimerFuture) Poll(cx *Context) Poll {
	s := f.state

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return Ready
	}

	w := cx.Waker()

	if s.waker.WillWake(w) {
		return Pending
	}

	old := s.waker
	s.waker = w.Clone()

	if old != nil {
		old.Drop()
	}

	return Pending
}

func (s *timerState) fire(d time.Duration) {
	time.Sleep(d)

	s.mu.Lock()
	s.completed = true
	w := s.waker
	s.waker = nil
	s.mu.Unlock()

	if w != nil {
		wakeFromTimer(w)
	}
}

// wakeFromTimer wakes w, giving up quietly if the Executor is gone.
func wakeFromTimer(w *Waker) {
	log := w.task.q.log
	id := w.task.id

	defer func() {
		if v := recover(); v != nil {
			if err, ok := v.(error); ok && errors.Is(err, ErrDisconnected) {
				log.Error("timer wake failed", "task", id, "error", err)
				return
			}
			panic(v)
		}
	}()

	w.Wake()
}
