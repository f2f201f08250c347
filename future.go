package minirt

import "time"

// Poll is the outcome of polling a [Future] once.
type Poll uint8

const (
	// Pending reports that a Future cannot make progress yet.
	// The Future must have arranged for the Waker of the current [Context]
	// to be woken when it can.
	Pending Poll = iota
	// Ready reports that a Future has completed.
	// A Future that returned Ready is never polled again by an [Executor].
	Ready
)

func (p Poll) String() string {
	switch p {
	case Pending:
		return "Pending"
	case Ready:
		return "Ready"
	default:
		return "Poll(?)"
	}
}

// A Future is a suspendable computation.
//
// An [Executor] polls a Future whenever the [Task] owning it is dequeued.
// Poll must never block; a Future that is not ready yet stores a clone of
// cx.Waker() somewhere that will be woken later, and returns [Pending].
//
// On multiple calls to Poll, only the most recent Waker should be woken.
type Future interface {
	Poll(cx *Context) Poll
}

// FutureFunc adapts an ordinary function to the [Future] interface.
type FutureFunc func(cx *Context) Poll

// Poll calls f(cx).
func (f FutureFunc) Poll(cx *Context) Poll {
	return f(cx)
}

// A Context is passed to [Future.Poll].
// It must not be retained after Poll returns.
type Context struct {
	waker Waker
}

// Waker returns the Waker of the [Task] being polled.
//
// The returned Waker is borrowed: it is only valid during the current poll.
// To wake the Task later, keep the result of [Waker.Clone] instead.
func (cx *Context) Waker() *Waker {
	return &cx.waker
}

// Do returns a [Future] that calls f, and then completes.
func Do(f func()) Future {
	return FutureFunc(func(*Context) Poll {
		f()
		return Ready
	})
}

// Nop returns a [Future] that completes without doing anything.
func Nop() Future {
	return FutureFunc(func(*Context) Poll { return Ready })
}

// Never returns a [Future] that never completes.
//
// Never does not keep any Waker, so a Task working on it is dropped after
// its first poll. Futures in a [Chain] after Never are never polled.
func Never() Future {
	return FutureFunc(func(*Context) Poll { return Pending })
}

// Chain returns a [Future] that polls each of the provided Futures in
// sequence.
// When one Future completes, Chain polls the next one in the same poll.
func Chain(s ...Future) Future {
	s = append([]Future(nil), s...)
	return FutureFunc(func(cx *Context) Poll {
		for len(s) != 0 {
			if s[0].Poll(cx) == Pending {
				return Pending
			}
			s[0] = nil
			s = s[1:]
		}
		return Ready
	})
}

// Then returns a [Future] that first works on f, then works on next after
// f completes.
//
// To chain multiple Futures, use [Chain] function.
func Then(f, next Future) Future {
	if next == nil {
		panic("minirt: Then(f, nil): undefined behavior")
	}
	return Chain(f, next)
}

// Sleep returns a [Future] that completes after d has elapsed.
//
// Unlike [NewTimerFuture], the timer does not start until the Future is
// first polled.
func Sleep(d time.Duration) Future {
	var tf *TimerFuture
	return FutureFunc(func(cx *Context) Poll {
		if tf == nil {
			tf = NewTimerFuture(d)
		}
		return tf.Poll(cx)
	})
}
